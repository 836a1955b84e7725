package model

import (
	"slices"

	"github.com/kstrandberg/uncouple/pkg/geom"
)

// Port is a connection point on a segment or junction. A port is connected
// when it holds at least one external reference — a link to a port owned by
// a different element. Ports move with their owner's geometry: re-spanning a
// segment relocates both of its ports.
type Port struct {
	owner  Element
	origin geom.Point
	refs   []*Port
}

// NewPort creates a free port at origin owned by owner.
// Hosts construct ports when building elements; the engine never does.
func NewPort(owner Element, origin geom.Point) *Port {
	return &Port{owner: owner, origin: origin}
}

// Owner returns the element the port belongs to.
func (p *Port) Owner() Element { return p.owner }

// Origin returns the port's position.
func (p *Port) Origin() geom.Point { return p.origin }

// SetOrigin relocates the port. Called by hosts when geometry changes.
func (p *Port) SetOrigin(pt geom.Point) { p.origin = pt }

// Connected reports whether the port holds any external reference.
func (p *Port) Connected() bool { return len(p.refs) > 0 }

// Refs returns the ports this port is linked to, in link order.
// The returned slice is a copy; mutating it does not affect the port.
func (p *Port) Refs() []*Port {
	return slices.Clone(p.refs)
}

// Free reports whether the port can accept a new link.
func (p *Port) Free() bool { return len(p.refs) == 0 }

// Link records a bidirectional reference between a and b.
// It is a no-op when the link already exists. Hosts call this from their
// LinkPorts implementation after validating compatibility.
func Link(a, b *Port) {
	if !slices.Contains(a.refs, b) {
		a.refs = append(a.refs, b)
	}
	if !slices.Contains(b.refs, a) {
		b.refs = append(b.refs, a)
	}
}

// Unlink removes the reference between a and b from both sides.
// Missing links are ignored.
func Unlink(a, b *Port) {
	a.refs = slices.DeleteFunc(a.refs, func(p *Port) bool { return p == b })
	b.refs = slices.DeleteFunc(b.refs, func(p *Port) bool { return p == a })
}

// UnlinkAll removes every reference the port holds, on both sides.
// Used defensively before deleting an element so no dangling
// cross-references survive it.
func UnlinkAll(p *Port) {
	for _, ref := range p.Refs() {
		Unlink(p, ref)
	}
}

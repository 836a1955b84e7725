package memory

import (
	"maps"

	"github.com/kstrandberg/uncouple/pkg/errors"
	"github.com/kstrandberg/uncouple/pkg/geom"
	"github.com/kstrandberg/uncouple/pkg/model"
)

// Begin opens a batch transaction by snapshotting the whole element graph.
// The batch is all-or-nothing: Commit keeps every mutation made since Begin,
// Rollback discards them all. Nested transactions are not supported.
func (m *Model) Begin() error {
	if m.snapshot != nil {
		return errors.New(errors.ErrCodeUnsupported, "transaction already open")
	}
	m.snapshot = m.Clone()
	return nil
}

// Commit closes the transaction, keeping all mutations.
func (m *Model) Commit() error {
	if m.snapshot == nil {
		return errors.New(errors.ErrCodeInternal, "no open transaction")
	}
	m.snapshot = nil
	return nil
}

// Rollback restores the model to its state at Begin.
func (m *Model) Rollback() error {
	if m.snapshot == nil {
		return errors.New(errors.ErrCodeInternal, "no open transaction")
	}
	restored := m.snapshot
	m.segments = restored.segments
	m.junctions = restored.junctions
	m.order = restored.order
	m.snapshot = nil
	return nil
}

// InTransaction reports whether a batch transaction is open.
func (m *Model) InTransaction() bool { return m.snapshot != nil }

// Clone returns a deep copy of the model: fresh elements, fresh ports, and
// re-established links. Metadata maps are copied one level deep; values are
// opaque to the engine and never mutated by it.
func (m *Model) Clone() *Model {
	out := New()
	portMap := make(map[*model.Port]*model.Port)

	for _, id := range m.order {
		if seg, ok := m.segments[id]; ok {
			clone := model.NewSegment(seg.ID(), seg.TypeName(), seg.Span(), maps.Clone(seg.Meta()))
			out.insertSegment(clone)
			old, fresh := seg.Ports(), clone.Ports()
			for i := range old {
				portMap[old[i]] = fresh[i]
			}
			continue
		}
		if j, ok := m.junctions[id]; ok {
			var clone *model.Junction
			pts := j.Ports()
			if j.Nested() {
				clone = model.NewNestedJunction(j.ID(), j.TypeName(), j.Location(), portOrigins(pts)...)
			} else {
				clone = model.NewJunction(j.ID(), j.TypeName(), j.Location(), portOrigins(pts)...)
			}
			out.insertJunction(clone)
			fresh := clone.Ports()
			for i := range pts {
				portMap[pts[i]] = fresh[i]
			}
		}
	}

	// Re-establish links once every port has a counterpart. Links to ports
	// of deleted elements cannot exist (deletion unlinks), so every ref
	// resolves.
	for oldPort, newPort := range portMap {
		for _, ref := range oldPort.Refs() {
			if newRef, ok := portMap[ref]; ok {
				model.Link(newPort, newRef)
			}
		}
	}

	return out
}

func portOrigins(ports []*model.Port) []geom.Point {
	out := make([]geom.Point, len(ports))
	for i, p := range ports {
		out[i] = p.Origin()
	}
	return out
}

// Package memory provides the reference in-memory implementation of
// model.Host. It backs the CLI, the HTTP API, and the engine tests; a
// production deployment would replace it with an adapter over a CAD host.
//
// The model keeps insertion order for deterministic iteration and supports
// the caller-managed batch transaction the engine's contract assumes:
// Begin snapshots the whole element graph, Commit discards the snapshot,
// Rollback restores it. There is intentionally no isolation between
// operations inside a batch — later junctions may observe segments already
// modified by earlier ones.
package memory

import (
	"github.com/google/uuid"

	"github.com/kstrandberg/uncouple/pkg/errors"
	"github.com/kstrandberg/uncouple/pkg/geom"
	"github.com/kstrandberg/uncouple/pkg/model"
)

// Model is an in-memory building model. It is not safe for concurrent use;
// the engine processes junctions strictly sequentially.
type Model struct {
	segments  map[model.ElementID]*model.Segment
	junctions map[model.ElementID]*model.Junction
	order     []model.ElementID // insertion order across both kinds

	snapshot *Model // non-nil while a transaction is open
}

// New creates an empty model.
func New() *Model {
	return &Model{
		segments:  make(map[model.ElementID]*model.Segment),
		junctions: make(map[model.ElementID]*model.Junction),
	}
}

// AddSegment creates a segment with a fresh identity.
func (m *Model) AddSegment(typeName string, span geom.Span, meta model.Metadata) *model.Segment {
	seg := model.NewSegment(model.ElementID(uuid.NewString()), typeName, span, meta)
	m.insertSegment(seg)
	return seg
}

// InsertSegment adds a segment under an explicit identity, as when loading a
// serialized model. Duplicate identities are rejected.
func (m *Model) InsertSegment(id model.ElementID, typeName string, span geom.Span, meta model.Metadata) (*model.Segment, error) {
	if m.exists(id) {
		return nil, errors.New(errors.ErrCodeInvalidElement, "duplicate element id %s", id)
	}
	seg := model.NewSegment(id, typeName, span, meta)
	m.insertSegment(seg)
	return seg, nil
}

// AddJunction creates a junction with directly-held ports.
func (m *Model) AddJunction(typeName string, loc model.Location, origins ...geom.Point) *model.Junction {
	j := model.NewJunction(model.ElementID(uuid.NewString()), typeName, loc, origins...)
	m.insertJunction(j)
	return j
}

// AddNestedJunction creates a junction whose ports live on a nested
// sub-assembly. Discovery must behave identically for both shapes.
func (m *Model) AddNestedJunction(typeName string, loc model.Location, origins ...geom.Point) *model.Junction {
	j := model.NewNestedJunction(model.ElementID(uuid.NewString()), typeName, loc, origins...)
	m.insertJunction(j)
	return j
}

// InsertJunction adds a junction under an explicit identity.
func (m *Model) InsertJunction(id model.ElementID, typeName string, loc model.Location, nested bool, origins ...geom.Point) (*model.Junction, error) {
	if m.exists(id) {
		return nil, errors.New(errors.ErrCodeInvalidElement, "duplicate element id %s", id)
	}
	var j *model.Junction
	if nested {
		j = model.NewNestedJunction(id, typeName, loc, origins...)
	} else {
		j = model.NewJunction(id, typeName, loc, origins...)
	}
	m.insertJunction(j)
	return j, nil
}

func (m *Model) insertSegment(seg *model.Segment) {
	m.segments[seg.ID()] = seg
	m.order = append(m.order, seg.ID())
}

func (m *Model) insertJunction(j *model.Junction) {
	m.junctions[j.ID()] = j
	m.order = append(m.order, j.ID())
}

func (m *Model) exists(id model.ElementID) bool {
	_, seg := m.segments[id]
	_, jun := m.junctions[id]
	return seg || jun
}

// Element returns the element with the given id, or nil.
func (m *Model) Element(id model.ElementID) model.Element {
	if seg, ok := m.segments[id]; ok {
		return seg
	}
	if j, ok := m.junctions[id]; ok {
		return j
	}
	return nil
}

// Segment returns the segment with the given id, or nil.
func (m *Model) Segment(id model.ElementID) *model.Segment {
	return m.segments[id]
}

// Junction returns the junction with the given id, or nil.
func (m *Model) Junction(id model.ElementID) *model.Junction {
	return m.junctions[id]
}

// Segments returns all segments in insertion order.
func (m *Model) Segments() []*model.Segment {
	out := make([]*model.Segment, 0, len(m.segments))
	for _, id := range m.order {
		if seg, ok := m.segments[id]; ok {
			out = append(out, seg)
		}
	}
	return out
}

// Junctions returns all junctions in insertion order.
func (m *Model) Junctions() []*model.Junction {
	out := make([]*model.Junction, 0, len(m.junctions))
	for _, id := range m.order {
		if j, ok := m.junctions[id]; ok {
			out = append(out, j)
		}
	}
	return out
}

// SegmentCount returns the number of live segments.
func (m *Model) SegmentCount() int { return len(m.segments) }

// JunctionCount returns the number of live junctions.
func (m *Model) JunctionCount() int { return len(m.junctions) }

// Couple links a junction between two segments: each junction port is linked
// to the nearest free port of one segment. Used when building models by hand
// or from serialized input.
func (m *Model) Couple(j *model.Junction, a, b *model.Segment) error {
	ports := j.Ports()
	if len(ports) != 2 {
		return errors.New(errors.ErrCodeInvalidElement, "junction %s has %d ports, want 2", j.ID(), len(ports))
	}
	for i, seg := range []*model.Segment{a, b} {
		jp := ports[i]
		sp := nearestFreePort(seg.Ports(), jp.Origin())
		if sp == nil {
			return errors.New(errors.ErrCodeInvalidElement, "segment %s has no free port for junction %s", seg.ID(), j.ID())
		}
		model.Link(jp, sp)
	}
	return nil
}

func nearestFreePort(ports []*model.Port, at geom.Point) *model.Port {
	var best *model.Port
	bestDist := 0.0
	for _, p := range ports {
		if !p.Free() {
			continue
		}
		d := p.Origin().DistanceTo(at)
		if best == nil || d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}

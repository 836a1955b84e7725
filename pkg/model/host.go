package model

import "github.com/kstrandberg/uncouple/pkg/geom"

// Host is the collaborator contract every mutation flows through. The
// reconnection engine is written against this interface only; pkg/model/memory
// provides the reference implementation and a production deployment would
// adapt a CAD host's API to it.
//
// Error semantics the engine relies on:
//   - CreateSegment may fail for reasons outside the engine's control
//     (invalid template, no active level context); the engine treats that as
//     ordinary strategy failure, never fatal.
//   - LinkPorts may fail on incompatible ports (mismatched size/type); the
//     engine skips the pair and tries the next candidate.
//   - DeleteElement may refuse geometrically-entangled elements; the engine
//     escalates through alternative removal methods before giving up.
type Host interface {
	// Ports returns el's connectivity ports. Works uniformly for segments
	// and junctions, whatever their internal port representation.
	Ports(el Element) []*Port

	// SegmentsNear returns segments whose span passes within tol of p.
	// Used only as the topology-discovery fallback.
	SegmentsNear(p geom.Point, tol float64) []*Segment

	// CreateSegment creates a new segment over span using template's
	// family/type. The new segment carries fresh identity and empty metadata.
	CreateSegment(template *Segment, span geom.Span) (*Segment, error)

	// DeleteElement removes the element with the given id from the model.
	DeleteElement(id ElementID) error

	// LinkPorts establishes a logical connection between a and b.
	LinkPorts(a, b *Port) error

	// UnlinkPorts removes the logical connection between a and b.
	UnlinkPorts(a, b *Port) error

	// UpdateSpan replaces seg's geometry in place, preserving identity and
	// metadata. Port positions follow the new endpoints.
	UpdateSpan(seg *Segment, span geom.Span) error

	// MoveElement translates an element by offset. Used as a last-resort
	// step when a host refuses to delete an entangled element in place.
	MoveElement(id ElementID, offset geom.Vector) error
}

// BatchDeleter is an optional Host capability for collection-based deletion.
// Hosts without it are handled by retrying the single-element path.
type BatchDeleter interface {
	// DeleteElements removes all listed elements in one operation.
	DeleteElements(ids []ElementID) error
}

// Unioner is an optional Host capability: merge two linear elements using a
// host-native primitive. A false result or an error is non-fatal; the
// strategy chain falls through to the next method.
type Unioner interface {
	UnionSegments(a, b *Segment) (bool, error)
}

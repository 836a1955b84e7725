package model

import "github.com/kstrandberg/uncouple/pkg/geom"

// Metadata stores opaque key-value data attached to a segment: tags,
// parameters, schedule associations. The engine never interprets it, but it
// MUST survive a merge — which is why the strategy chain extends a surviving
// segment in place instead of recreating it.
type Metadata map[string]any

// Segment is a linear pipe/duct element: a span between two endpoints with
// exactly two ports, one per endpoint. Segments are created and destroyed
// only by the host; the engine operates on references.
type Segment struct {
	id       ElementID
	typeName string
	span     geom.Span
	meta     Metadata
	ports    [2]*Port
}

// NewSegment constructs a segment with ports placed at the span endpoints.
// typeName identifies the segment's family/type for templating new segments.
func NewSegment(id ElementID, typeName string, span geom.Span, meta Metadata) *Segment {
	if meta == nil {
		meta = Metadata{}
	}
	s := &Segment{id: id, typeName: typeName, span: span, meta: meta}
	s.ports[0] = NewPort(s, span.Start)
	s.ports[1] = NewPort(s, span.End)
	return s
}

// ID returns the segment's identity.
func (s *Segment) ID() ElementID { return s.id }

// Category returns CategorySegment.
func (s *Segment) Category() Category { return CategorySegment }

// TypeName returns the family/type identifier used as a creation template.
func (s *Segment) TypeName() string { return s.typeName }

// Span returns the segment's current linear span.
func (s *Segment) Span() geom.Span { return s.span }

// Length returns the span length.
func (s *Segment) Length() float64 { return s.span.Length() }

// Meta returns the segment's metadata map. The map is live, not a copy:
// it belongs to the segment for its whole lifetime.
func (s *Segment) Meta() Metadata { return s.meta }

// Ports returns the segment's two endpoint ports in start/end order.
func (s *Segment) Ports() []*Port {
	return []*Port{s.ports[0], s.ports[1]}
}

// SetSpan replaces the segment's geometry and relocates both ports to the
// new endpoints. Identity and metadata are untouched. Hosts call this from
// UpdateSpan; the engine itself never mutates geometry directly.
func (s *Segment) SetSpan(span geom.Span) {
	s.span = span
	s.ports[0].SetOrigin(span.Start)
	s.ports[1].SetOrigin(span.End)
}

package geom

// Span is a bounded linear segment between two points. The start/end
// ordering is meaningful: linear model elements encode directional
// semantics (e.g. flow direction) in it, so geometry operations must not
// silently swap the endpoints.
type Span struct {
	Start Point `json:"start" bson:"start"`
	End   Point `json:"end" bson:"end"`
}

// NewSpan returns the span from start to end.
func NewSpan(start, end Point) Span {
	return Span{Start: start, End: end}
}

// Length returns the distance between the span's endpoints.
func (s Span) Length() float64 {
	return s.Start.DistanceTo(s.End)
}

// Direction returns the unit vector from Start to End.
func (s Span) Direction() Vector {
	return s.End.Sub(s.Start).Unit()
}

// Midpoint returns the point halfway along the span.
func (s Span) Midpoint() Point {
	return s.Start.MidpointTo(s.End)
}

// Endpoints returns the two endpoints in start/end order.
func (s Span) Endpoints() [2]Point {
	return [2]Point{s.Start, s.End}
}

// Reversed returns the span with start and end swapped.
func (s Span) Reversed() Span {
	return Span{Start: s.End, End: s.Start}
}

// ClosestPoint returns the point on the bounded span nearest to p.
// Degenerate (zero-length) spans return Start.
func (s Span) ClosestPoint(p Point) Point {
	d := s.End.Sub(s.Start)
	den := d.Dot(d)
	if den == 0 {
		return s.Start
	}
	t := p.Sub(s.Start).Dot(d) / den
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return s.Start.Add(d.Scale(t))
}

// DistanceTo returns the distance from p to the nearest point on the span.
func (s Span) DistanceTo(p Point) float64 {
	return p.DistanceTo(s.ClosestPoint(p))
}

package reconnect

import (
	"sort"

	"github.com/kstrandberg/uncouple/pkg/geom"
)

// anchor is the closest endpoint pair between two spans. All gap and
// extension math in the chain is driven by it.
type anchor struct {
	ai, bi int        // endpoint indexes into each span (0=start, 1=end)
	a, b   geom.Point // the paired endpoints
	dist   float64
}

// nearestEndpoints computes all four cross-distances between the endpoints
// of a and b and returns the minimum pair. Ties break by enumeration order
// (a-start/b-start first) — deterministic, not meaningful.
func nearestEndpoints(a, b geom.Span) anchor {
	ae, be := a.Endpoints(), b.Endpoints()
	pairs := make([]anchor, 0, 4)
	for ai := range 2 {
		for bi := range 2 {
			pairs = append(pairs, anchor{
				ai: ai, bi: bi,
				a: ae[ai], b: be[bi],
				dist: ae[ai].DistanceTo(be[bi]),
			})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].dist < pairs[j].dist })
	return pairs[0]
}

// midpoint returns the point halfway between the anchor endpoints.
func (p anchor) midpoint() geom.Point {
	return p.a.MidpointTo(p.b)
}

// respanTo returns s with its endpoint at index idx replaced by pt,
// preserving the start/end ordering of the untouched endpoint.
func respanTo(s geom.Span, idx int, pt geom.Point) geom.Span {
	if idx == 0 {
		return geom.NewSpan(pt, s.End)
	}
	return geom.NewSpan(s.Start, pt)
}

// preserveDirection flips candidate's endpoints when its direction opposes
// original's. Linear elements encode directional semantics (e.g. flow) in
// endpoint ordering; silently reversing it is a correctness bug.
func preserveDirection(original, candidate geom.Span) geom.Span {
	if original.Direction().Dot(candidate.Direction()) < 0 {
		return candidate.Reversed()
	}
	return candidate
}

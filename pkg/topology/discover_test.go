package topology

import (
	"testing"

	"github.com/kstrandberg/uncouple/pkg/geom"
	"github.com/kstrandberg/uncouple/pkg/model"
	"github.com/kstrandberg/uncouple/pkg/model/memory"
)

func pt(x, y, z float64) geom.Point { return geom.Point{X: x, Y: y, Z: z} }

func buildCoupled(t *testing.T, nested bool) (*memory.Model, *model.Junction, *model.Segment, *model.Segment) {
	t.Helper()
	m := memory.New()
	a := m.AddSegment("DN50", geom.NewSpan(pt(0, 0, 0), pt(5, 0, 0)), nil)
	b := m.AddSegment("DN50", geom.NewSpan(pt(5.2, 0, 0), pt(10, 0, 0)), nil)
	loc := model.PointLocation{P: pt(5.1, 0, 0)}
	var j *model.Junction
	if nested {
		j = m.AddNestedJunction("coupling", loc, pt(5, 0, 0), pt(5.2, 0, 0))
	} else {
		j = m.AddJunction("coupling", loc, pt(5, 0, 0), pt(5.2, 0, 0))
	}
	if err := m.Couple(j, a, b); err != nil {
		t.Fatalf("Couple: %v", err)
	}
	return m, j, a, b
}

func TestPortWalkFindsBothSegments(t *testing.T) {
	for _, nested := range []bool{false, true} {
		name := "direct ports"
		if nested {
			name = "nested sub-assembly ports"
		}
		t.Run(name, func(t *testing.T) {
			m, j, a, b := buildCoupled(t, nested)

			got := FindAttachedSegments(m, j, 0)
			if len(got) != 2 {
				t.Fatalf("found %d segments, want 2", len(got))
			}
			if got[0] != a || got[1] != b {
				t.Error("segments should come back in port order")
			}
		})
	}
}

func TestDiscoveryIsIdempotent(t *testing.T) {
	m, j, _, _ := buildCoupled(t, false)

	first := FindAttachedSegments(m, j, 0)
	second := FindAttachedSegments(m, j, 0)
	if len(first) != len(second) {
		t.Fatalf("repeat discovery changed count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("repeat discovery changed element %d", i)
		}
	}
}

func TestProximityFallback(t *testing.T) {
	m := memory.New()
	a := m.AddSegment("DN50", geom.NewSpan(pt(0, 0, 0), pt(5, 0, 0)), nil)
	b := m.AddSegment("DN50", geom.NewSpan(pt(5.2, 0, 0), pt(10, 0, 0)), nil)
	m.AddSegment("DN50", geom.NewSpan(pt(0, 40, 0), pt(5, 40, 0)), nil) // out of range

	// Junction with no port links at all — only geometry can find it.
	j := m.AddJunction("coupling", model.PointLocation{P: pt(5.1, 0, 0)}, pt(5, 0, 0), pt(5.2, 0, 0))

	got := FindAttachedSegments(m, j, 0)
	if len(got) != 2 {
		t.Fatalf("fallback found %d segments, want 2", len(got))
	}
	if got[0] != a || got[1] != b {
		t.Error("fallback should return the two segments near the junction")
	}
}

func TestFallbackUsesCurveStart(t *testing.T) {
	m := memory.New()
	m.AddSegment("DN50", geom.NewSpan(pt(0, 0, 0), pt(5, 0, 0)), nil)

	loc := model.SpanLocation{S: geom.NewSpan(pt(5.1, 0, 0), pt(5.3, 0, 0))}
	j := m.AddJunction("coupling", loc)

	if got := FindAttachedSegments(m, j, 0); len(got) != 1 {
		t.Fatalf("curve-located fallback found %d segments, want 1", len(got))
	}
}

func TestRepresentativeProbePoint(t *testing.T) {
	m := memory.New()

	pointLocated := m.AddJunction("coupling", model.PointLocation{P: pt(5.1, 0, 0)})
	curveLocated := m.AddJunction("coupling", model.SpanLocation{S: geom.NewSpan(pt(1, 2, 3), pt(4, 5, 6))})
	locationless := m.AddJunction("coupling", nil)

	tests := []struct {
		name string
		j    *model.Junction
		want geom.Point
		ok   bool
	}{
		{"point location", pointLocated, pt(5.1, 0, 0), true},
		{"curve location uses start", curveLocated, pt(1, 2, 3), true},
		{"no location", locationless, geom.Point{}, false},
		{"nil junction", nil, geom.Point{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Representative(tt.j)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("probe point = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNoLocationYieldsNothing(t *testing.T) {
	m := memory.New()
	m.AddSegment("DN50", geom.NewSpan(pt(0, 0, 0), pt(5, 0, 0)), nil)
	j := m.AddJunction("coupling", nil)

	if got := FindAttachedSegments(m, j, 0); len(got) != 0 {
		t.Fatalf("locationless junction found %d segments, want 0", len(got))
	}
}

func TestWalkDeduplicatesByIdentity(t *testing.T) {
	m := memory.New()
	a := m.AddSegment("DN50", geom.NewSpan(pt(0, 0, 0), pt(5, 0, 0)), nil)
	// Both junction ports linked to the same segment's two ports.
	j := m.AddJunction("coupling", nil, pt(0, 0, 0), pt(5, 0, 0))
	model.Link(j.Ports()[0], a.Ports()[0])
	model.Link(j.Ports()[1], a.Ports()[1])

	got := FindAttachedSegments(m, j, 0)
	if len(got) != 1 {
		t.Fatalf("found %d segments, want 1 after de-duplication", len(got))
	}
}

func TestThreeAttachedSegmentsReported(t *testing.T) {
	m := memory.New()
	j := m.AddJunction("tee", nil, pt(0, 0, 0), pt(1, 0, 0), pt(0, 1, 0))
	for i, origin := range []geom.Point{pt(0, 0, 0), pt(1, 0, 0), pt(0, 1, 0)} {
		seg := m.AddSegment("DN50", geom.NewSpan(origin, origin.Add(geom.Vector{X: 0, Y: 0, Z: 5})), nil)
		model.Link(j.Ports()[i], seg.Ports()[0])
	}

	// Discovery reports what it sees; classification is the caller's job.
	if got := FindAttachedSegments(m, j, 0); len(got) != 3 {
		t.Fatalf("found %d segments, want 3", len(got))
	}
}

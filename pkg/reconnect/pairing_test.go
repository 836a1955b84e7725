package reconnect

import (
	"testing"

	"github.com/kstrandberg/uncouple/pkg/geom"
)

func TestNearestEndpoints(t *testing.T) {
	tests := []struct {
		name     string
		a, b     geom.Span
		wantAI   int
		wantBI   int
		wantDist float64
	}{
		{
			name:     "end to start",
			a:        span(0, 0, 0, 5, 0, 0),
			b:        span(5.2, 0, 0, 10, 0, 0),
			wantAI:   1,
			wantBI:   0,
			wantDist: 0.2,
		},
		{
			name:     "start to end",
			a:        span(5.2, 0, 0, 10, 0, 0),
			b:        span(0, 0, 0, 5, 0, 0),
			wantAI:   0,
			wantBI:   1,
			wantDist: 0.2,
		},
		{
			name:     "tie resolves to first enumerated pair",
			a:        span(0, 0, 0, 2, 0, 0),
			b:        span(-1, 0, 0, 3, 0, 0),
			wantAI:   0,
			wantBI:   0,
			wantDist: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nearestEndpoints(tt.a, tt.b)
			if got.ai != tt.wantAI || got.bi != tt.wantBI {
				t.Errorf("anchor indices = (%d,%d), want (%d,%d)", got.ai, got.bi, tt.wantAI, tt.wantBI)
			}
			if diff := got.dist - tt.wantDist; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("anchor dist = %v, want %v", got.dist, tt.wantDist)
			}
		})
	}
}

func TestPreserveDirection(t *testing.T) {
	orig := span(0, 0, 0, 1, 0, 0)

	aligned := preserveDirection(orig, span(0, 0, 0, 10, 0, 0))
	if aligned.Start != pt(0, 0, 0) {
		t.Errorf("aligned candidate must not be reversed, got start %v", aligned.Start)
	}

	flipped := preserveDirection(orig, span(10, 0, 0, 0, 0, 0))
	if flipped.Start != pt(0, 0, 0) {
		t.Errorf("opposing candidate must be reversed, got start %v", flipped.Start)
	}
	if d := orig.Direction().Dot(flipped.Direction()); d < 0 {
		t.Errorf("direction dot = %v, want >= 0", d)
	}
}

func TestRespanToMovesOnlyOneEndpoint(t *testing.T) {
	s := span(0, 0, 0, 5, 0, 0)

	got := respanTo(s, 1, pt(7, 0, 0))
	if got.Start != pt(0, 0, 0) || got.End != pt(7, 0, 0) {
		t.Errorf("respan end: got %v-%v", got.Start, got.End)
	}

	got = respanTo(s, 0, pt(-2, 0, 0))
	if got.Start != pt(-2, 0, 0) || got.End != pt(5, 0, 0) {
		t.Errorf("respan start: got %v-%v", got.Start, got.End)
	}
}

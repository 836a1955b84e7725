package viz

import (
	"strings"
	"testing"

	"github.com/kstrandberg/uncouple/pkg/geom"
	"github.com/kstrandberg/uncouple/pkg/model"
	"github.com/kstrandberg/uncouple/pkg/model/memory"
)

func coupledModel(t *testing.T) *memory.Model {
	t.Helper()
	m := memory.New()
	a, err := m.InsertSegment("a", "DN50", geom.NewSpan(geom.Point{}, geom.Point{X: 5}), nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := m.InsertSegment("b", "DN50", geom.NewSpan(geom.Point{X: 5.2}, geom.Point{X: 10}), nil)
	if err != nil {
		t.Fatal(err)
	}
	j, err := m.InsertJunction("j1", "Coupling",
		model.PointLocation{P: geom.Point{X: 5.1}}, false,
		geom.Point{X: 5}, geom.Point{X: 5.2})
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Couple(j, a, b); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(coupledModel(t), Options{})

	for _, want := range []string{
		`"a" [label="a\nDN50"];`,
		`"b" [label="b\nDN50"];`,
		`"j1" [label="j1\nCoupling", shape=diamond`,
		`"a" -- "j1";`,
		`"b" -- "j1";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q:\n%s", want, dot)
		}
	}
	if strings.Count(dot, "--") != 2 {
		t.Errorf("want exactly 2 edges:\n%s", dot)
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(coupledModel(t), Options{Detailed: true})

	if !strings.Contains(dot, `len: 5.00`) {
		t.Errorf("detailed label missing length:\n%s", dot)
	}
	if !strings.Contains(dot, `ports: 2`) {
		t.Errorf("detailed junction label missing port count:\n%s", dot)
	}
}

func TestToDOTDeterministic(t *testing.T) {
	m := coupledModel(t)
	if ToDOT(m, Options{}) != ToDOT(m, Options{}) {
		t.Error("DOT output must be deterministic")
	}
}

func TestToDOTEmptyModel(t *testing.T) {
	dot := ToDOT(memory.New(), Options{})
	if !strings.HasPrefix(dot, "graph model {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("malformed DOT for empty model:\n%s", dot)
	}
}

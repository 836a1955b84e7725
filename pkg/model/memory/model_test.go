package memory

import (
	"testing"

	"github.com/kstrandberg/uncouple/pkg/errors"
	"github.com/kstrandberg/uncouple/pkg/geom"
	"github.com/kstrandberg/uncouple/pkg/model"
)

func pt(x, y, z float64) geom.Point { return geom.Point{X: x, Y: y, Z: z} }

// coupledModel builds two collinear segments joined through a junction,
// the baseline fixture for discovery and engine tests.
func coupledModel(t *testing.T) (*Model, *model.Junction, *model.Segment, *model.Segment) {
	t.Helper()
	m := New()
	a := m.AddSegment("DN50", geom.NewSpan(pt(0, 0, 0), pt(5, 0, 0)), model.Metadata{"tag": "A"})
	b := m.AddSegment("DN50", geom.NewSpan(pt(5.2, 0, 0), pt(10, 0, 0)), nil)
	j := m.AddJunction("coupling", model.PointLocation{P: pt(5.1, 0, 0)}, pt(5, 0, 0), pt(5.2, 0, 0))
	if err := m.Couple(j, a, b); err != nil {
		t.Fatalf("Couple: %v", err)
	}
	return m, j, a, b
}

func TestCoupleLinksNearestFreePorts(t *testing.T) {
	_, j, a, b := coupledModel(t)

	jp := j.Ports()
	if !jp[0].Connected() || !jp[1].Connected() {
		t.Fatal("both junction ports should be connected")
	}
	// Junction port 0 sits at (5,0,0) and must link to a's end port.
	if jp[0].Refs()[0] != a.Ports()[1] {
		t.Error("junction port 0 should link to segment a's end port")
	}
	if jp[1].Refs()[0] != b.Ports()[0] {
		t.Error("junction port 1 should link to segment b's start port")
	}
}

func TestDeleteElementRefusesConnected(t *testing.T) {
	m, j, _, _ := coupledModel(t)

	err := m.DeleteElement(j.ID())
	if !errors.Is(err, errors.ErrCodeDeleteFailed) {
		t.Fatalf("DeleteElement on connected junction = %v, want DELETE_FAILED", err)
	}

	// Collection delete force-severs links and removes the element.
	if err := m.DeleteElements([]model.ElementID{j.ID()}); err != nil {
		t.Fatalf("DeleteElements: %v", err)
	}
	if m.Junction(j.ID()) != nil {
		t.Error("junction should be gone after DeleteElements")
	}
}

func TestDeleteElementFreesDisconnected(t *testing.T) {
	m, j, _, _ := coupledModel(t)

	for _, p := range j.Ports() {
		model.UnlinkAll(p)
	}
	if err := m.DeleteElement(j.ID()); err != nil {
		t.Fatalf("DeleteElement after disconnect: %v", err)
	}
	if got := m.JunctionCount(); got != 0 {
		t.Errorf("JunctionCount = %d, want 0", got)
	}
}

func TestLinkPortsRejectsMismatchedTypes(t *testing.T) {
	m := New()
	a := m.AddSegment("DN50", geom.NewSpan(pt(0, 0, 0), pt(5, 0, 0)), nil)
	b := m.AddSegment("DN80", geom.NewSpan(pt(5, 0, 0), pt(10, 0, 0)), nil)

	err := m.LinkPorts(a.Ports()[1], b.Ports()[0])
	if !errors.Is(err, errors.ErrCodeLinkIncompatible) {
		t.Fatalf("LinkPorts across types = %v, want LINK_INCOMPATIBLE", err)
	}
}

func TestLinkPortsRejectsSameOwner(t *testing.T) {
	m := New()
	a := m.AddSegment("DN50", geom.NewSpan(pt(0, 0, 0), pt(5, 0, 0)), nil)

	if err := m.LinkPorts(a.Ports()[0], a.Ports()[1]); err == nil {
		t.Fatal("LinkPorts within one segment should fail")
	}
}

func TestUpdateSpanMovesPorts(t *testing.T) {
	m := New()
	seg := m.AddSegment("DN50", geom.NewSpan(pt(0, 0, 0), pt(5, 0, 0)), model.Metadata{"mark": "P-101"})

	if err := m.UpdateSpan(seg, geom.NewSpan(pt(0, 0, 0), pt(10, 0, 0))); err != nil {
		t.Fatalf("UpdateSpan: %v", err)
	}
	if got := seg.Ports()[1].Origin(); got != pt(10, 0, 0) {
		t.Errorf("end port origin = %+v, want (10,0,0)", got)
	}
	if seg.Meta()["mark"] != "P-101" {
		t.Error("metadata should survive UpdateSpan")
	}
}

func TestSegmentsNear(t *testing.T) {
	m := New()
	near := m.AddSegment("DN50", geom.NewSpan(pt(0, 0, 0), pt(5, 0, 0)), nil)
	m.AddSegment("DN50", geom.NewSpan(pt(0, 50, 0), pt(5, 50, 0)), nil)

	got := m.SegmentsNear(pt(5.4, 0, 0), 1.0)
	if len(got) != 1 || got[0] != near {
		t.Fatalf("SegmentsNear = %d segments, want only the near one", len(got))
	}
}

func TestCreateSegmentUsesTemplateType(t *testing.T) {
	m := New()
	tpl := m.AddSegment("DN50", geom.NewSpan(pt(0, 0, 0), pt(5, 0, 0)), model.Metadata{"tag": "X"})

	created, err := m.CreateSegment(tpl, geom.NewSpan(pt(5, 0, 0), pt(6, 0, 0)))
	if err != nil {
		t.Fatalf("CreateSegment: %v", err)
	}
	if created.TypeName() != "DN50" {
		t.Errorf("TypeName = %q, want DN50", created.TypeName())
	}
	if len(created.Meta()) != 0 {
		t.Error("created segment should carry empty metadata")
	}
	if created.ID() == tpl.ID() {
		t.Error("created segment must have a fresh identity")
	}
}

func TestCreateSegmentRejectsZeroSpan(t *testing.T) {
	m := New()
	tpl := m.AddSegment("DN50", geom.NewSpan(pt(0, 0, 0), pt(5, 0, 0)), nil)

	if _, err := m.CreateSegment(tpl, geom.NewSpan(pt(1, 0, 0), pt(1, 0, 0))); err == nil {
		t.Fatal("zero-length span should be rejected")
	}
}

func TestMoveElementJunction(t *testing.T) {
	m, j, _, _ := coupledModel(t)

	if err := m.MoveElement(j.ID(), geom.Vector{X: 1000, Y: 1000, Z: 1000}); err != nil {
		t.Fatalf("MoveElement: %v", err)
	}
	if got := j.Location().Representative(); got != pt(1005.1, 1000, 1000) {
		t.Errorf("location after move = %+v", got)
	}
	if got := j.Ports()[0].Origin(); got != pt(1005, 1000, 1000) {
		t.Errorf("port origin after move = %+v", got)
	}
}

func TestNestedJunctionPortsNormalized(t *testing.T) {
	m := New()
	j := m.AddNestedJunction("coupling", nil, pt(1, 0, 0), pt(2, 0, 0))

	if !j.Nested() {
		t.Fatal("junction should report nested ports")
	}
	if got := len(m.Ports(j)); got != 2 {
		t.Fatalf("Ports(nested junction) = %d, want 2", got)
	}
}

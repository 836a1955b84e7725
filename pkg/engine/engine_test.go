package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kstrandberg/uncouple/pkg/errors"
	"github.com/kstrandberg/uncouple/pkg/geom"
	"github.com/kstrandberg/uncouple/pkg/model"
	"github.com/kstrandberg/uncouple/pkg/model/memory"
	"github.com/kstrandberg/uncouple/pkg/reconnect"
)

func pt(x, y, z float64) geom.Point { return geom.Point{X: x, Y: y, Z: z} }

func span(x1, x2 float64) geom.Span {
	return geom.NewSpan(pt(x1, 0, 0), pt(x2, 0, 0))
}

// coupledPair builds two near-collinear segments joined by a coupling at the
// seam, the canonical removal case.
func coupledPair(t *testing.T, m *memory.Model) (*model.Junction, *model.Segment, *model.Segment) {
	t.Helper()
	a := m.AddSegment("DN50", span(0, 5), model.Metadata{"mark": "P-101"})
	b := m.AddSegment("DN50", span(5.2, 10), nil)
	j := m.AddJunction("Coupling", model.PointLocation{P: pt(5.1, 0, 0)},
		pt(5, 0, 0), pt(5.2, 0, 0))
	require.NoError(t, m.Couple(j, a, b))
	return j, a, b
}

func TestProcessRemovesCouplingAndMerges(t *testing.T) {
	m := memory.New()
	j, a, b := coupledPair(t, m)
	eng := New(m, Options{})

	sum := eng.Process(context.Background(), []*model.Junction{j})

	assert.Equal(t, 1, sum.Total)
	assert.Equal(t, 1, sum.Succeeded)
	assert.Equal(t, 0, sum.Failed)
	require.Len(t, sum.Results, 1)

	res := sum.Results[0]
	assert.Equal(t, j.ID(), res.JunctionID)
	assert.Equal(t, 2, res.Segments)
	assert.Equal(t, reconnect.OutcomeTrueTrim, res.Outcome)
	assert.True(t, res.Succeeded())

	assert.Equal(t, 0, m.JunctionCount(), "coupling must be gone")
	assert.Equal(t, 1, m.SegmentCount(), "donor must be gone")
	merged := m.Segment(a.ID())
	require.NotNil(t, merged)
	assert.Equal(t, pt(0, 0, 0), merged.Span().Start)
	assert.Equal(t, pt(10, 0, 0), merged.Span().End)
	assert.Nil(t, m.Segment(b.ID()))
}

func TestProcessSkipsTeeWithoutMutation(t *testing.T) {
	m := memory.New()
	a := m.AddSegment("DN50", span(0, 5), nil)
	b := m.AddSegment("DN50", span(5.2, 10), nil)
	c := m.AddSegment("DN50", geom.NewSpan(pt(5.1, 0.2, 0), pt(5.1, 5, 0)), nil)
	j := m.AddJunction("Tee", model.PointLocation{P: pt(5.1, 0, 0)},
		pt(5, 0, 0), pt(5.2, 0, 0), pt(5.1, 0.2, 0))
	require.NoError(t, m.LinkPorts(j.Ports()[0], a.Ports()[1]))
	require.NoError(t, m.LinkPorts(j.Ports()[1], b.Ports()[0]))
	require.NoError(t, m.LinkPorts(j.Ports()[2], c.Ports()[0]))
	eng := New(m, Options{})

	sum := eng.Process(context.Background(), []*model.Junction{j})

	assert.Equal(t, 1, sum.Failed)
	res := sum.Results[0]
	assert.Equal(t, 3, res.Segments)
	assert.False(t, res.Succeeded())
	assert.Contains(t, res.Err, string(errors.ErrCodeWrongSegmentCount))

	assert.Equal(t, 1, m.JunctionCount(), "a skipped junction stays")
	assert.Equal(t, 3, m.SegmentCount())
	assert.True(t, j.Ports()[0].Connected(), "a skipped junction keeps its links")
	assert.Equal(t, pt(5, 0, 0), a.Span().End, "no geometry change on skip")
}

func TestProcessCascadeOfCouplings(t *testing.T) {
	m := memory.New()
	a := m.AddSegment("DN50", span(0, 5), nil)
	b := m.AddSegment("DN50", span(5.2, 10), nil)
	c := m.AddSegment("DN50", span(10.2, 15), nil)
	j1 := m.AddJunction("Coupling", model.PointLocation{P: pt(5.1, 0, 0)},
		pt(5, 0, 0), pt(5.2, 0, 0))
	j2 := m.AddJunction("Coupling", model.PointLocation{P: pt(10.1, 0, 0)},
		pt(10, 0, 0), pt(10.2, 0, 0))
	require.NoError(t, m.Couple(j1, a, b))
	require.NoError(t, m.Couple(j2, b, c))
	eng := New(m, Options{})

	sum := eng.Process(context.Background(), []*model.Junction{j1, j2})

	assert.Equal(t, 2, sum.Succeeded, "results: %+v", sum.Results)
	assert.Equal(t, 0, m.JunctionCount())
	require.Equal(t, 1, m.SegmentCount(), "the whole run collapses into one segment")
	final := m.Segments()[0]
	assert.Equal(t, pt(0, 0, 0), final.Span().Start)
	assert.Equal(t, pt(15, 0, 0), final.Span().End)
}

// stubbornHost refuses direct deletes so the engine must escalate.
type stubbornHost struct {
	*memory.Model
	refuseBatch bool
	direct      int
	batch       int
}

func (h *stubbornHost) DeleteElement(id model.ElementID) error {
	h.direct++
	if el := h.Element(id); el != nil {
		if loc, ok := el.(*model.Junction); ok && loc.Location() != nil &&
			loc.Location().Representative().DistanceTo(pt(0, 0, 0)) > 100 {
			// Far from the work area the element is no longer entangled.
			return h.Model.DeleteElements([]model.ElementID{id})
		}
	}
	return errors.New(errors.ErrCodeDeleteFailed, "element %s is entangled", id)
}

func (h *stubbornHost) DeleteElements(ids []model.ElementID) error {
	h.batch++
	if h.refuseBatch {
		return errors.New(errors.ErrCodeDeleteFailed, "collection delete refused")
	}
	return h.Model.DeleteElements(ids)
}

func TestDeleteEscalatesToCollection(t *testing.T) {
	m := memory.New()
	j, _, _ := coupledPair(t, m)
	host := &stubbornHost{Model: m}
	eng := New(host, Options{})

	sum := eng.Process(context.Background(), []*model.Junction{j})

	assert.Equal(t, 1, sum.Succeeded)
	assert.Equal(t, 1, host.direct)
	assert.Equal(t, 1, host.batch)
	assert.Equal(t, 0, m.JunctionCount())
}

func TestDeleteEscalatesToMoveFar(t *testing.T) {
	m := memory.New()
	j, _, _ := coupledPair(t, m)
	host := &stubbornHost{Model: m, refuseBatch: true}
	eng := New(host, Options{})

	sum := eng.Process(context.Background(), []*model.Junction{j})

	assert.Equal(t, 1, sum.Succeeded)
	assert.Equal(t, 2, host.direct, "direct delete retried after moving far")
	assert.Equal(t, 0, m.JunctionCount())
}

// immortalHost defeats every deletion method.
type immortalHost struct {
	*memory.Model
}

func (h *immortalHost) DeleteElement(id model.ElementID) error {
	if _, ok := h.Element(id).(*model.Junction); ok {
		return errors.New(errors.ErrCodeDeleteFailed, "refused")
	}
	return h.Model.DeleteElement(id)
}

func (h *immortalHost) DeleteElements(ids []model.ElementID) error {
	return errors.New(errors.ErrCodeDeleteFailed, "refused")
}

func TestUndeletableJunctionIsReportedFailed(t *testing.T) {
	m := memory.New()
	j, a, b := coupledPair(t, m)
	eng := New(&immortalHost{Model: m}, Options{})

	sum := eng.Process(context.Background(), []*model.Junction{j})

	assert.Equal(t, 1, sum.Failed)
	assert.Contains(t, sum.Results[0].Err, string(errors.ErrCodeDeleteFailed))
	assert.Equal(t, 1, m.JunctionCount(), "junction survives")
	assert.Equal(t, pt(5, 0, 0), a.Span().End, "no reconnection on delete failure")
	assert.Equal(t, pt(5.2, 0, 0), b.Span().Start)
}

// junctionSideLocked rejects unlinks initiated from a junction port, forcing
// the engine's segment-side disconnect method.
type junctionSideLocked struct {
	*memory.Model
}

func (h *junctionSideLocked) UnlinkPorts(a, b *model.Port) error {
	if a != nil && a.Owner() != nil && a.Owner().Category() == model.CategoryJunction {
		return errors.New(errors.ErrCodeDisconnectFailed, "junction port is locked")
	}
	return h.Model.UnlinkPorts(a, b)
}

func TestDisconnectFallsBackToSegmentSide(t *testing.T) {
	m := memory.New()
	j, _, _ := coupledPair(t, m)
	eng := New(&junctionSideLocked{Model: m}, Options{})

	sum := eng.Process(context.Background(), []*model.Junction{j})

	assert.Equal(t, 1, sum.Succeeded)
	assert.Equal(t, 0, m.JunctionCount())
	assert.Equal(t, 1, m.SegmentCount())
}

func TestProcessStopsOnCancelledContext(t *testing.T) {
	m := memory.New()
	j, a, _ := coupledPair(t, m)
	eng := New(m, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum := eng.Process(ctx, []*model.Junction{j})

	assert.Equal(t, 1, sum.Failed)
	assert.Contains(t, sum.Results[0].Err, "context canceled")
	assert.Equal(t, 1, m.JunctionCount(), "no mutation after cancellation")
	assert.Equal(t, pt(5, 0, 0), a.Span().End)
}

func TestProcessFailureOutcomeCountsAsFailed(t *testing.T) {
	m := memory.New()
	a := m.AddSegment("DN50", span(0, 5), nil)
	b := m.AddSegment("DN50", span(20, 25), nil) // far beyond every gate
	j := m.AddJunction("Coupling", model.PointLocation{P: pt(5.1, 0, 0)},
		pt(5, 0, 0), pt(20, 0, 0))
	require.NoError(t, m.LinkPorts(j.Ports()[0], a.Ports()[1]))
	require.NoError(t, m.LinkPorts(j.Ports()[1], b.Ports()[0]))
	eng := New(m, Options{})

	sum := eng.Process(context.Background(), []*model.Junction{j})

	assert.Equal(t, 1, sum.Failed)
	res := sum.Results[0]
	assert.Equal(t, reconnect.OutcomeFailure, res.Outcome)
	assert.True(t, strings.Contains(res.Err, string(errors.ErrCodeReconnectFailed)))
	assert.Equal(t, 0, m.JunctionCount(), "the junction itself is still removed")
}

package reconnect

import (
	"math"

	"github.com/kstrandberg/uncouple/pkg/model"
)

// extendBoth closes the gap by re-spanning both segments so each one's
// nearer endpoint becomes the anchor midpoint. Both segments stay alive:
// no deletion, no merge, no metadata loss — purely geometric closure.
func (c *Chain) extendBoth(a, b *model.Segment) (bool, error) {
	pair := nearestEndpoints(a.Span(), b.Span())
	if pair.dist > c.th.ExtendBoth {
		return false, nil
	}
	mid := pair.midpoint()
	if err := c.host.UpdateSpan(a, respanTo(a.Span(), pair.ai, mid)); err != nil {
		return false, err
	}
	if err := c.host.UpdateSpan(b, respanTo(b.Span(), pair.bi, mid)); err != nil {
		return false, err
	}
	return true, nil
}

// extend is the later-priority midpoint extension. Same math as extendBoth
// but a deliberately independent implementation with its own gate: when an
// earlier attempt failed for a recoverable upstream reason, this path gets
// its own chance rather than inheriting the earlier decision.
func (c *Chain) extend(a, b *model.Segment) (bool, error) {
	ae, be := a.Span().Endpoints(), b.Span().Endpoints()

	minDist := math.Inf(1)
	var nearA, nearB int
	for i, pa := range ae {
		for j, pb := range be {
			if d := pa.DistanceTo(pb); d < minDist {
				minDist = d
				nearA, nearB = i, j
			}
		}
	}
	if minDist > c.th.Extend {
		return false, nil
	}

	mid := ae[nearA].MidpointTo(be[nearB])
	if err := c.host.UpdateSpan(a, respanTo(a.Span(), nearA, mid)); err != nil {
		return false, err
	}
	if err := c.host.UpdateSpan(b, respanTo(b.Span(), nearB, mid)); err != nil {
		return false, err
	}
	return true, nil
}

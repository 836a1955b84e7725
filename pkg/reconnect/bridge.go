package reconnect

import (
	"github.com/kstrandberg/uncouple/pkg/geom"
	"github.com/kstrandberg/uncouple/pkg/model"
)

// bridge is the last resort: synthesize a new short segment spanning exactly
// the smallest endpoint gap, templated on the first segment's type, and link
// its ports to the nearest free ports of each original. Both originals are
// kept unmodified.
func (c *Chain) bridge(a, b *model.Segment) (bool, error) {
	pair := nearestEndpoints(a.Span(), b.Span())
	if pair.dist > c.th.Segment || pair.dist == 0 {
		return false, nil
	}

	seg, err := c.host.CreateSegment(a, geom.NewSpan(pair.a, pair.b))
	if err != nil {
		// Creation can fail for host-side reasons (invalid template, no
		// active level context); ordinary strategy failure, not fatal.
		return false, err
	}

	bridgePorts := c.host.Ports(seg)
	for _, end := range []struct {
		orig *model.Segment
		at   geom.Point
	}{
		{a, pair.a},
		{b, pair.b},
	} {
		bp := nearestFreePort(bridgePorts, end.at)
		op := nearestFreePort(c.host.Ports(end.orig), end.at)
		if bp == nil || op == nil {
			continue
		}
		if linkErr := c.host.LinkPorts(bp, op); linkErr != nil {
			c.log.Debug("bridge link skipped", "segment", end.orig.ID(), "err", linkErr)
		}
	}
	return true, nil
}

package reconnect

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kstrandberg/uncouple/pkg/geom"
	"github.com/kstrandberg/uncouple/pkg/model"
	"github.com/kstrandberg/uncouple/pkg/observability"
)

// Chain runs the reconnection strategies in priority order against a Host.
// A Chain is stateless apart from its collaborators; one instance serves a
// whole batch.
type Chain struct {
	host model.Host
	th   Thresholds
	log  *log.Logger
}

// New creates a chain over host. Zero-valued thresholds get the defaults;
// a nil logger falls back to log.Default().
func New(host model.Host, th Thresholds, logger *log.Logger) *Chain {
	if th == (Thresholds{}) {
		th = DefaultThresholds()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Chain{host: host, th: th, log: logger}
}

// Thresholds returns the chain's active gate values.
func (c *Chain) Thresholds() Thresholds { return c.th }

// Reconnect restores connectivity between a and b, trying each strategy in
// priority order until one applies. ref is a diagnostic label (typically the
// removed junction's id) carried into telemetry hooks.
//
// Strategy errors are absorbed: an erroring strategy falls through to the
// next one, and only a chain where every strategy declined reports
// OutcomeFailure. Rollback, if any, is the caller's transaction boundary.
func (c *Chain) Reconnect(ctx context.Context, ref string, a, b *model.Segment) Result {
	attempts := []struct {
		outcome Outcome
		run     func(a, b *model.Segment) (applied, degraded bool, err error)
	}{
		{OutcomeTrueTrim, c.trueTrim},
		{OutcomeExtendBoth, plain(c.extendBoth)},
		{OutcomeUnion, plain(c.union)},
		{OutcomeConnector, plain(c.connector)},
		{OutcomeExtend, plain(c.extend)},
		{OutcomeSegment, plain(c.bridge)},
	}

	for _, at := range attempts {
		start := time.Now()
		applied, degraded, err := at.run(a, b)
		observability.Engine().OnStrategy(ctx, ref, string(at.outcome), applied, time.Since(start))
		if err != nil {
			c.log.Debug("strategy errored, falling through",
				"strategy", at.outcome, "a", a.ID(), "b", b.ID(), "err", err)
			continue
		}
		if applied {
			c.log.Debug("strategy applied", "strategy", at.outcome, "degraded", degraded)
			return Result{Outcome: at.outcome, Degraded: degraded}
		}
	}
	return Result{Outcome: OutcomeFailure}
}

// plain adapts strategies without a degraded mode to the attempt signature.
func plain(run func(a, b *model.Segment) (bool, error)) func(a, b *model.Segment) (bool, bool, error) {
	return func(a, b *model.Segment) (bool, bool, error) {
		applied, err := run(a, b)
		return applied, false, err
	}
}

// nearestFreePort returns the free port closest to at, or nil.
func nearestFreePort(ports []*model.Port, at geom.Point) *model.Port {
	var (
		best *model.Port
		dist float64
	)
	for _, p := range ports {
		if !p.Free() {
			continue
		}
		d := p.Origin().DistanceTo(at)
		if best == nil || d < dist {
			best, dist = p, d
		}
	}
	return best
}

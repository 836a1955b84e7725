// Package engine orchestrates coupling removal: for each junction it
// discovers the attached segments, severs and deletes the junction, and runs
// the reconnection chain to restore connectivity.
//
// Junctions are independent work items. A junction that cannot be processed
// is skipped and reported; it never aborts the batch.
package engine

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/kstrandberg/uncouple/pkg/errors"
	"github.com/kstrandberg/uncouple/pkg/geom"
	"github.com/kstrandberg/uncouple/pkg/model"
	"github.com/kstrandberg/uncouple/pkg/observability"
	"github.com/kstrandberg/uncouple/pkg/reconnect"
	"github.com/kstrandberg/uncouple/pkg/topology"
)

// farOffset moves a stubborn junction out of the working area so the host
// will release it for deletion. The magnitude only needs to clear any
// entanglement radius a host might apply.
var farOffset = geom.Vector{X: 1000, Y: 1000, Z: 1000}

// Options configures an Engine.
type Options struct {
	// Thresholds are the strategy-chain gates. Zero value means defaults.
	Thresholds reconnect.Thresholds
	// Logger receives progress and diagnostics. Nil means log.Default().
	Logger *log.Logger
}

// Engine processes junctions against a single host.
type Engine struct {
	host  model.Host
	chain *reconnect.Chain
	th    reconnect.Thresholds
	log   *log.Logger
}

// New creates an engine over host.
func New(host model.Host, opts Options) *Engine {
	th := opts.Thresholds
	if th == (reconnect.Thresholds{}) {
		th = reconnect.DefaultThresholds()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		host:  host,
		chain: reconnect.New(host, th, logger),
		th:    th,
		log:   logger,
	}
}

// Thresholds returns the engine's active gate values.
func (e *Engine) Thresholds() reconnect.Thresholds { return e.th }

// JunctionResult is the per-junction line of a batch summary.
type JunctionResult struct {
	JunctionID model.ElementID   `json:"junction_id" bson:"junction_id"`
	Segments   int               `json:"segments" bson:"segments"`
	Outcome    reconnect.Outcome `json:"outcome,omitempty" bson:"outcome,omitempty"`
	Degraded   bool              `json:"degraded,omitempty" bson:"degraded,omitempty"`
	Err        string            `json:"error,omitempty" bson:"error,omitempty"`
}

// Succeeded reports whether the junction was removed and connectivity
// restored.
func (r JunctionResult) Succeeded() bool {
	return r.Err == "" && r.Outcome.Success()
}

// Summary aggregates a batch run.
type Summary struct {
	Total     int              `json:"total" bson:"total"`
	Succeeded int              `json:"succeeded" bson:"succeeded"`
	Failed    int              `json:"failed" bson:"failed"`
	Results   []JunctionResult `json:"results" bson:"results"`
}

// Process removes each junction and reconnects its segments, continuing past
// failures. Results preserve input order.
func (e *Engine) Process(ctx context.Context, junctions []*model.Junction) Summary {
	sum := Summary{Total: len(junctions)}
	for _, j := range junctions {
		if err := ctx.Err(); err != nil {
			e.log.Warn("batch interrupted", "remaining", sum.Total-len(sum.Results))
			for _, rest := range junctions[len(sum.Results):] {
				sum.Results = append(sum.Results, JunctionResult{
					JunctionID: rest.ID(),
					Err:        err.Error(),
				})
				sum.Failed++
			}
			break
		}
		res := e.processOne(ctx, j)
		if res.Succeeded() {
			sum.Succeeded++
		} else {
			sum.Failed++
		}
		sum.Results = append(sum.Results, res)
	}
	return sum
}

func (e *Engine) processOne(ctx context.Context, j *model.Junction) JunctionResult {
	id := string(j.ID())
	res := JunctionResult{JunctionID: j.ID()}

	segs := topology.FindAttachedSegments(e.host, j, e.th.Proximity)
	res.Segments = len(segs)
	observability.Engine().OnDiscover(ctx, id, len(segs))

	if len(segs) != 2 {
		err := errors.New(errors.ErrCodeWrongSegmentCount,
			"junction %s has %d attached segments, want exactly 2", id, len(segs))
		e.log.Warn("skipping junction", "junction", id, "segments", len(segs))
		res.Err = err.Error()
		observability.Engine().OnJunctionDone(ctx, id, string(res.Outcome), err)
		return res
	}
	a, b := segs[0], segs[1]

	fail := func(err error) JunctionResult {
		res.Err = err.Error()
		observability.Engine().OnJunctionDone(ctx, id, string(res.Outcome), err)
		return res
	}

	e.disconnect(j, a, b)

	if err := e.deleteJunction(j); err != nil {
		e.log.Warn("junction could not be deleted", "junction", id, "err", err)
		return fail(err)
	}

	out := e.chain.Reconnect(ctx, id, a, b)
	res.Outcome, res.Degraded = out.Outcome, out.Degraded
	if !out.Outcome.Success() {
		return fail(errors.New(errors.ErrCodeReconnectFailed,
			"no strategy restored connectivity at junction %s", id))
	}

	e.log.Info("junction removed",
		"junction", id, "outcome", out.Outcome, "degraded", out.Degraded)
	observability.Engine().OnJunctionDone(ctx, id, string(out.Outcome), nil)
	return res
}

// disconnect severs every link between the junction and the rest of the
// model. It tries the junction's own ports first, then, if any link
// survives, approaches from the segments' side. Leftover links are not an
// error here: deletion escalation deals with them.
func (e *Engine) disconnect(j *model.Junction, a, b *model.Segment) {
	for _, p := range e.host.Ports(j) {
		for _, ref := range p.Refs() {
			if err := e.host.UnlinkPorts(p, ref); err != nil {
				e.log.Debug("unlink from junction side failed",
					"junction", j.ID(), "err", err)
			}
		}
	}
	if !anyConnected(e.host.Ports(j)) {
		return
	}
	for _, seg := range []*model.Segment{a, b} {
		for _, p := range e.host.Ports(seg) {
			for _, ref := range p.Refs() {
				if ref.Owner() == nil || ref.Owner().ID() != j.ID() {
					continue
				}
				if err := e.host.UnlinkPorts(p, ref); err != nil {
					e.log.Debug("unlink from segment side failed",
						"segment", seg.ID(), "err", err)
				}
			}
		}
	}
}

// deleteJunction escalates through the host's deletion paths: a direct
// delete, a collection-based delete where the host supports one, and
// finally moving the junction clear of its neighbors before deleting.
func (e *Engine) deleteJunction(j *model.Junction) error {
	err := e.host.DeleteElement(j.ID())
	if err == nil {
		return nil
	}
	e.log.Debug("direct delete refused", "junction", j.ID(), "err", err)

	if bd, ok := e.host.(model.BatchDeleter); ok {
		if err = bd.DeleteElements([]model.ElementID{j.ID()}); err == nil {
			return nil
		}
		e.log.Debug("collection delete refused", "junction", j.ID(), "err", err)
	}

	if mvErr := e.host.MoveElement(j.ID(), farOffset); mvErr != nil {
		return errors.Wrap(errors.ErrCodeDeleteFailed, err,
			"junction %s resisted every deletion method", j.ID())
	}
	if err = e.host.DeleteElement(j.ID()); err != nil {
		return errors.Wrap(errors.ErrCodeDeleteFailed, err,
			"junction %s resisted every deletion method", j.ID())
	}
	return nil
}

func anyConnected(ports []*model.Port) bool {
	for _, p := range ports {
		if p.Connected() {
			return true
		}
	}
	return false
}

// Package report records batch runs for later inspection.
//
// A Run is the durable record of one engine batch: when it started, how long
// it took, the gate values in force, and the per-junction results. The Store
// interface has three backends:
//   - memory: in-process storage for tests and one-shot CLI runs
//   - redis: shared storage with TTL for multi-instance deployments
//   - mongo: durable storage with queryable history
package report

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kstrandberg/uncouple/pkg/engine"
	"github.com/kstrandberg/uncouple/pkg/reconnect"
)

// Run is the stored record of one batch.
type Run struct {
	ID         string               `json:"id" bson:"_id"`
	StartedAt  time.Time            `json:"started_at" bson:"started_at"`
	Duration   time.Duration        `json:"duration" bson:"duration"`
	Thresholds reconnect.Thresholds `json:"thresholds" bson:"thresholds"`
	Summary    engine.Summary       `json:"summary" bson:"summary"`
}

// NewRun creates a Run with a fresh id.
func NewRun(startedAt time.Time, duration time.Duration, th reconnect.Thresholds, sum engine.Summary) *Run {
	return &Run{
		ID:         uuid.NewString(),
		StartedAt:  startedAt,
		Duration:   duration,
		Thresholds: th,
		Summary:    sum,
	}
}

// Store is the interface for run storage backends.
type Store interface {
	// Save stores a run, replacing any run with the same id.
	Save(ctx context.Context, run *Run) error

	// Get retrieves a run by id. A missing run is an error with code
	// RUN_NOT_FOUND.
	Get(ctx context.Context, id string) (*Run, error)

	// List returns stored runs, most recent first.
	List(ctx context.Context) ([]*Run, error)
}

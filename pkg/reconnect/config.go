package reconnect

import "github.com/kstrandberg/uncouple/pkg/errors"

// Thresholds are the distance gates of the strategy chain, in model length
// units. The legacy tooling hard-coded inconsistent values across revisions;
// here they are configuration. The defaults mirror the legacy tool, and are
// small on purpose — they exist to reject gross geometry/connectivity
// mismatches, not to encode physics.
type Thresholds struct {
	// TrueTrim is the maximum anchor gap for merging two segments into one.
	TrueTrim float64 `toml:"true_trim" json:"true_trim"`
	// ExtendBoth is the maximum gap for re-spanning both segments to the
	// anchor midpoint.
	ExtendBoth float64 `toml:"extend_both" json:"extend_both"`
	// Connector is the maximum distance between two free ports for a
	// logical link.
	Connector float64 `toml:"connector" json:"connector"`
	// Extend is the gate of the later-priority midpoint extension.
	Extend float64 `toml:"extend" json:"extend"`
	// Segment is the maximum gap a synthesized bridge segment may span.
	Segment float64 `toml:"segment" json:"segment"`
	// Reattach is how far a snapshotted external connection may sit from a
	// keeper port and still be re-linked after a merge.
	Reattach float64 `toml:"reattach" json:"reattach"`
	// Proximity is the topology-discovery fallback scan tolerance.
	Proximity float64 `toml:"proximity" json:"proximity"`
}

// DefaultThresholds returns the legacy-compatible gate values.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TrueTrim:   10.0,
		ExtendBoth: 5.0,
		Connector:  2.0,
		Extend:     5.0,
		Segment:    3.0,
		Reattach:   1.0,
		Proximity:  1.0,
	}
}

// Validate rejects non-positive gates.
func (t Thresholds) Validate() error {
	gates := map[string]float64{
		"true_trim":   t.TrueTrim,
		"extend_both": t.ExtendBoth,
		"connector":   t.Connector,
		"extend":      t.Extend,
		"segment":     t.Segment,
		"reattach":    t.Reattach,
		"proximity":   t.Proximity,
	}
	for name, v := range gates {
		if v <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "threshold %s must be positive, got %v", name, v)
		}
	}
	return nil
}

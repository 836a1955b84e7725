// Package reconnect implements the reconnection strategy chain: the ordered
// cascade of algorithms that restores connectivity between two segments
// after the junction joining them has been removed.
//
// Strategies are tried in strict priority order; the first that applies
// short-circuits the rest. A strategy that errors is recovered locally by
// falling through — single-strategy failures are never surfaced. Every
// strategy is safe to attempt after a previous one partially mutated state.
package reconnect

// Outcome tags which strategy restored connectivity, or that none did.
// The values are wire-stable: they appear in run reports and API responses.
type Outcome string

// Outcomes in chain priority order.
const (
	// OutcomeTrueTrim merged both segments into one by extending the longer
	// (the keeper) over the shorter (the donor) and deleting the donor.
	OutcomeTrueTrim Outcome = "TRUE_TRIM"
	// OutcomeExtendBoth re-spanned both segments to the anchor midpoint,
	// leaving them separate but touching.
	OutcomeExtendBoth Outcome = "EXTEND_BOTH"
	// OutcomeUnion merged the segments using a host-native union primitive.
	OutcomeUnion Outcome = "UNION"
	// OutcomeConnector linked a pair of free ports logically, with no
	// geometry change.
	OutcomeConnector Outcome = "CONNECTOR"
	// OutcomeExtend closed the gap by re-spanning both segments to the
	// midpoint via the later-priority independent path.
	OutcomeExtend Outcome = "EXTEND"
	// OutcomeSegment bridged the gap with a newly created short segment.
	OutcomeSegment Outcome = "SEGMENT"
	// OutcomeFailure means every strategy declined or errored.
	OutcomeFailure Outcome = "FAILURE"
)

// Success reports whether the outcome restored connectivity.
func (o Outcome) Success() bool { return o != OutcomeFailure && o != "" }

// String returns the wire tag.
func (o Outcome) String() string { return string(o) }

// Result is the outcome of one chain run.
type Result struct {
	Outcome Outcome `json:"outcome" bson:"outcome"`

	// Degraded marks TRUE_TRIM's in-line fallback: the span merge was
	// rejected by the host and the keeper was only extended single-sided,
	// keeping the donor alive. Still a success, but worth distinguishing
	// in telemetry.
	Degraded bool `json:"degraded,omitempty" bson:"degraded,omitempty"`
}

package domain

type DecisionOutcome string

const (
	DecisionSuccess  DecisionOutcome = "success"
	DecisionConflict DecisionOutcome = "conflict"
)

// Failure reason codes produced by the attempt simulator and orchestrator.
const (
	ReasonNoEligible      = "no-eligible-processors"
	ReasonAllDeclined     = "all-processors-declined"
	ReasonNotFound        = "processor-not-found"
	ReasonTimeout         = "processor-timeout"
	ReasonAmountOverLimit = "amount-over-threshold"
	ReasonRiskDecline     = "risk-decline"
	ReasonNetworkError    = "network-error"
)

// SmartRouteCandidate pairs a processor with its computed score for one
// intent. Ephemeral; lives only for the duration of a routing decision.
type SmartRouteCandidate struct {
	Processor Processor `json:"processor"`
	Score     float64   `json:"score"`
	Reasons   []string  `json:"reasons,omitempty"`
}

type AttemptOutcome string

const (
	AttemptSuccess AttemptOutcome = "success"
	AttemptFailure AttemptOutcome = "failure"
)

// AttemptRecord is one entry in a routing run's attempt log.
type AttemptRecord struct {
	ProcessorID string         `json:"processor_id"`
	Outcome     AttemptOutcome `json:"outcome"`
	Reason      string         `json:"reason,omitempty"`
}

// SmartRouteDecision is the result of one routing run. Never persisted; the
// caller turns it into a Transaction (and, on conflict, a Conflict).
type SmartRouteDecision struct {
	Outcome     DecisionOutcome       `json:"outcome"`
	ProcessorID string                `json:"processor_id,omitempty"`
	Scorecard   []SmartRouteCandidate `json:"scorecard"`
	Attempts    []AttemptRecord       `json:"attempts"`
	Reason      string                `json:"reason,omitempty"`
}

package simulator

import (
	"math/rand"
	"time"

	"github.com/meshpay/router/internal/domain"
	"github.com/meshpay/router/internal/registry"
)

// DrawSource supplies uniform draws in [0,1). Production uses math/rand;
// tests inject fixed sequences.
type DrawSource interface {
	Float64() float64
}

// NewDrawSource returns a rand-backed source. A zero seed means time-seeded.
func NewDrawSource(seed int64) DrawSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Attempt penalties applied to a processor's historical success rate.
const (
	riskPenaltyHigh   = 0.08
	riskPenaltyMedium = 0.03
	statusPenalty     = 0.07
	amountPenalty     = 0.10
	amountPenaltyEdge = 0.9 // penalty kicks in above 90% of the ceiling
	timeoutBand       = 0.2 // draws far past the threshold read as timeouts
)

// Simulator models a single processor's stochastic settlement outcome.
type Simulator struct {
	reg   *registry.Registry
	draws DrawSource
}

func New(reg *registry.Registry, draws DrawSource) *Simulator {
	return &Simulator{reg: reg, draws: draws}
}

// Attempt draws one outcome for the processor against the intent. The
// success threshold degrades with intent risk, processor health, and how
// close the amount sits to the processor's ceiling.
func (s *Simulator) Attempt(processorID string, intent domain.TransactionIntent) domain.AttemptRecord {
	p, ok := s.reg.Processor(processorID)
	if !ok {
		return domain.AttemptRecord{
			ProcessorID: processorID,
			Outcome:     domain.AttemptFailure,
			Reason:      domain.ReasonNotFound,
		}
	}

	var riskPen float64
	switch intent.RiskLevel {
	case domain.RiskHigh:
		riskPen = riskPenaltyHigh
	case domain.RiskMedium:
		riskPen = riskPenaltyMedium
	}

	var statusPen float64
	if p.Status == domain.StatusDegraded {
		statusPen = statusPenalty
	}

	var amountPen float64
	if intent.Amount > p.MaxAmount*amountPenaltyEdge {
		amountPen = amountPenalty
	}

	threshold := p.SuccessRate - riskPen - statusPen - amountPen
	draw := s.draws.Float64()

	if draw <= threshold {
		return domain.AttemptRecord{ProcessorID: processorID, Outcome: domain.AttemptSuccess}
	}

	return domain.AttemptRecord{
		ProcessorID: processorID,
		Outcome:     domain.AttemptFailure,
		Reason:      failureReason(draw, threshold, amountPen, riskPen),
	}
}

// failureReason slices the same draw that decided the outcome: far misses
// read as timeouts, otherwise the strongest active penalty names the decline.
func failureReason(draw, threshold, amountPen, riskPen float64) string {
	switch {
	case draw > threshold+timeoutBand:
		return domain.ReasonTimeout
	case amountPen > 0:
		return domain.ReasonAmountOverLimit
	case riskPen > 0:
		return domain.ReasonRiskDecline
	default:
		return domain.ReasonNetworkError
	}
}

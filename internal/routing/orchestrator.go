package routing

import (
	"log"
	"sort"

	"github.com/meshpay/router/internal/domain"
	"github.com/meshpay/router/internal/scorecard"
	"github.com/meshpay/router/internal/simulator"
)

// Orchestrator drives one routing decision: rank candidates, attempt them in
// order, settle on the first success or escalate to a conflict. Greedy
// best-first with a fixed two-tier fallback (online before degraded), no
// backoff. Decisions for different intents share no mutable state.
type Orchestrator struct {
	builder          *scorecard.Builder
	sim              *simulator.Simulator
	degradedFallback bool
}

func New(builder *scorecard.Builder, sim *simulator.Simulator, degradedFallback bool) *Orchestrator {
	return &Orchestrator{
		builder:          builder,
		sim:              sim,
		degradedFallback: degradedFallback,
	}
}

// Route produces a decision for the intent. Routing exhaustion is not an
// error; it comes back as a conflict decision for the ledger to queue.
func (o *Orchestrator) Route(intent domain.TransactionIntent) domain.SmartRouteDecision {
	ranked := o.builder.Build(intent)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) == 0 {
		log.Printf("[routing] no eligible processors for %s %.2f (merchant=%s)",
			intent.Currency, intent.Amount, intent.MerchantID)
		return domain.SmartRouteDecision{
			Outcome:   domain.DecisionConflict,
			Scorecard: ranked,
			Attempts:  []domain.AttemptRecord{},
			Reason:    domain.ReasonNoEligible,
		}
	}

	attempts := make([]domain.AttemptRecord, 0, len(ranked))
	for _, cand := range o.attemptOrder(ranked) {
		rec := o.sim.Attempt(cand.Processor.ID, intent)
		attempts = append(attempts, rec)

		if rec.Outcome == domain.AttemptSuccess {
			log.Printf("[routing] settled on %s after %d attempt(s) (score=%.3f)",
				cand.Processor.ID, len(attempts), cand.Score)
			return domain.SmartRouteDecision{
				Outcome:     domain.DecisionSuccess,
				ProcessorID: cand.Processor.ID,
				Scorecard:   ranked,
				Attempts:    attempts,
			}
		}
	}

	reason := domain.ReasonAllDeclined
	if len(attempts) > 0 {
		reason = attempts[len(attempts)-1].Reason
	}

	log.Printf("[routing] exhausted %d attempt(s) for %s %.2f, escalating (reason=%s)",
		len(attempts), intent.Currency, intent.Amount, reason)

	return domain.SmartRouteDecision{
		Outcome:   domain.DecisionConflict,
		Scorecard: ranked,
		Attempts:  attempts,
		Reason:    reason,
	}
}

// attemptOrder partitions the ranked scorecard into online-first tiers.
// Degraded candidates stay visible on the scorecard even when the fallback
// tier is disabled; they just never get attempted.
func (o *Orchestrator) attemptOrder(ranked []domain.SmartRouteCandidate) []domain.SmartRouteCandidate {
	online := make([]domain.SmartRouteCandidate, 0, len(ranked))
	var degraded []domain.SmartRouteCandidate

	for _, cand := range ranked {
		if cand.Processor.Status == domain.StatusDegraded {
			degraded = append(degraded, cand)
		} else {
			online = append(online, cand)
		}
	}

	if !o.degradedFallback {
		return online
	}
	return append(online, degraded...)
}

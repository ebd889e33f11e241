package routing

import (
	"testing"

	"github.com/meshpay/router/internal/domain"
	"github.com/meshpay/router/internal/registry"
	"github.com/meshpay/router/internal/scorecard"
	"github.com/meshpay/router/internal/simulator"
)

// fixedDraws replays a fixed sequence, repeating the last value.
type fixedDraws struct {
	vals []float64
	i    int
}

func (f *fixedDraws) Float64() float64 {
	v := f.vals[f.i]
	if f.i < len(f.vals)-1 {
		f.i++
	}
	return v
}

func newOrchestrator(draws []float64, degradedFallback bool) *Orchestrator {
	reg := registry.Default()
	return New(
		scorecard.NewBuilder(reg),
		simulator.New(reg, &fixedDraws{vals: draws}),
		degradedFallback,
	)
}

func TestRouteFirstAttemptSucceeds(t *testing.T) {
	// Standard mesh: the degraded processor takes EUR only, so a USD intent
	// sees online candidates exclusively.
	o := newOrchestrator([]float64{0.01}, true)

	decision := o.Route(domain.TransactionIntent{
		Amount: 482.20, Currency: "USD", MerchantID: "m-aurora-goods",
		Channel: domain.ChannelWeb, RiskLevel: domain.RiskMedium,
	})

	if decision.Outcome != domain.DecisionSuccess {
		t.Fatalf("outcome = %s, want success", decision.Outcome)
	}
	if decision.ProcessorID != "p-atlaspay" {
		t.Fatalf("chose %s, want the top-scoring USD processor p-atlaspay", decision.ProcessorID)
	}
	if len(decision.Attempts) != 1 {
		t.Fatalf("attempt log length = %d, want 1", len(decision.Attempts))
	}
	if len(decision.Scorecard) != 2 {
		t.Fatalf("scorecard length = %d, want 2 (atlaspay, apexwallets)", len(decision.Scorecard))
	}
	for i := 1; i < len(decision.Scorecard); i++ {
		if decision.Scorecard[i].Score > decision.Scorecard[i-1].Score {
			t.Fatalf("scorecard not sorted descending at index %d", i)
		}
	}
}

func TestRouteNoEligibleProcessors(t *testing.T) {
	o := newOrchestrator([]float64{0.01}, true)

	// Exceeds every JPY-capable ceiling including the 5% headroom.
	decision := o.Route(domain.TransactionIntent{
		Amount: 300000, Currency: "JPY", MerchantID: "m-kite-travel",
		Channel: domain.ChannelWeb, RiskLevel: domain.RiskLow,
	})

	if decision.Outcome != domain.DecisionConflict {
		t.Fatalf("outcome = %s, want conflict", decision.Outcome)
	}
	if decision.Reason != domain.ReasonNoEligible {
		t.Fatalf("reason = %s, want %s", decision.Reason, domain.ReasonNoEligible)
	}
	if len(decision.Scorecard) != 0 {
		t.Fatalf("scorecard length = %d, want 0", len(decision.Scorecard))
	}
	if len(decision.Attempts) != 0 {
		t.Fatalf("attempt log length = %d, want 0", len(decision.Attempts))
	}
}

func TestRouteExhaustionEscalates(t *testing.T) {
	// EUR intent sees three candidates (eurolink, apexwallets, krakengate);
	// a draw of 0.999 misses every threshold.
	o := newOrchestrator([]float64{0.999}, true)

	decision := o.Route(domain.TransactionIntent{
		Amount: 200, Currency: "EUR", MerchantID: "m-aurora-goods",
		Channel: domain.ChannelWeb, RiskLevel: domain.RiskLow,
	})

	if decision.Outcome != domain.DecisionConflict {
		t.Fatalf("outcome = %s, want conflict", decision.Outcome)
	}
	if len(decision.Attempts) != 3 {
		t.Fatalf("attempt log length = %d, want 3", len(decision.Attempts))
	}

	// Online tiers first in score order, degraded last.
	wantOrder := []string{"p-eurolink", "p-apexwallets", "p-krakengate"}
	for i, want := range wantOrder {
		if decision.Attempts[i].ProcessorID != want {
			t.Fatalf("attempt %d hit %s, want %s", i, decision.Attempts[i].ProcessorID, want)
		}
	}

	// Conflict reason mirrors the last failure; 0.999 is a far miss on the
	// degraded processor, so it reads as a timeout.
	if decision.Reason != domain.ReasonTimeout {
		t.Fatalf("reason = %s, want %s", decision.Reason, domain.ReasonTimeout)
	}
}

func TestDegradedFallbackDisabled(t *testing.T) {
	o := newOrchestrator([]float64{0.999}, false)

	decision := o.Route(domain.TransactionIntent{
		Amount: 200, Currency: "EUR", MerchantID: "m-aurora-goods",
		Channel: domain.ChannelWeb, RiskLevel: domain.RiskLow,
	})

	if decision.Outcome != domain.DecisionConflict {
		t.Fatalf("outcome = %s, want conflict", decision.Outcome)
	}
	if len(decision.Attempts) != 2 {
		t.Fatalf("attempt log length = %d, want 2 (degraded tier dropped)", len(decision.Attempts))
	}
	for _, a := range decision.Attempts {
		if a.ProcessorID == "p-krakengate" {
			t.Fatal("degraded processor attempted with fallback disabled")
		}
	}

	// Degraded candidates remain visible on the scorecard.
	if len(decision.Scorecard) != 3 {
		t.Fatalf("scorecard length = %d, want 3", len(decision.Scorecard))
	}
}

func TestRouteStopsOnFirstSuccess(t *testing.T) {
	// First attempt misses, second lands.
	o := newOrchestrator([]float64{0.999, 0.01}, true)

	decision := o.Route(domain.TransactionIntent{
		Amount: 200, Currency: "EUR", MerchantID: "m-aurora-goods",
		Channel: domain.ChannelWeb, RiskLevel: domain.RiskLow,
	})

	if decision.Outcome != domain.DecisionSuccess {
		t.Fatalf("outcome = %s, want success", decision.Outcome)
	}
	if decision.ProcessorID != "p-apexwallets" {
		t.Fatalf("chose %s, want the runner-up p-apexwallets", decision.ProcessorID)
	}
	if len(decision.Attempts) != 2 {
		t.Fatalf("attempt log length = %d, want 2", len(decision.Attempts))
	}
	if decision.Attempts[0].Outcome != domain.AttemptFailure {
		t.Fatal("first attempt should have failed")
	}
}

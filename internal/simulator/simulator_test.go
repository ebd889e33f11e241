package simulator

import (
	"testing"

	"github.com/meshpay/router/internal/domain"
	"github.com/meshpay/router/internal/registry"
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

func testRegistry(p domain.Processor) *registry.Registry {
	return registry.New(nil, []domain.Processor{p})
}

func TestUnknownProcessor(t *testing.T) {
	sim := New(registry.New(nil, nil), &fixedDraws{vals: []float64{0}})

	rec := sim.Attempt("p-ghost", domain.TransactionIntent{Amount: 10, Currency: "USD"})
	if rec.Outcome != domain.AttemptFailure {
		t.Fatalf("outcome = %s, want failure", rec.Outcome)
	}
	if rec.Reason != domain.ReasonNotFound {
		t.Fatalf("reason = %s, want %s", rec.Reason, domain.ReasonNotFound)
	}
}

func TestThresholdBoundary(t *testing.T) {
	reg := testRegistry(domain.Processor{
		ID: "p-1", Currencies: []string{"USD"}, SuccessRate: 0.9,
		MaxAmount: 1000, Status: domain.StatusOnline,
	})
	intent := domain.TransactionIntent{Amount: 100, Currency: "USD", RiskLevel: domain.RiskLow}

	// Draw exactly at the threshold succeeds.
	sim := New(reg, &fixedDraws{vals: []float64{0.9}})
	if rec := sim.Attempt("p-1", intent); rec.Outcome != domain.AttemptSuccess {
		t.Fatalf("draw at threshold: outcome = %s, want success", rec.Outcome)
	}

	// Draw just above fails.
	sim = New(reg, &fixedDraws{vals: []float64{0.900001}})
	rec := sim.Attempt("p-1", intent)
	if rec.Outcome != domain.AttemptFailure {
		t.Fatalf("draw above threshold: outcome = %s, want failure", rec.Outcome)
	}
	if rec.Reason != domain.ReasonNetworkError {
		t.Fatalf("reason = %s, want %s", rec.Reason, domain.ReasonNetworkError)
	}
}

func TestPenaltiesLowerThreshold(t *testing.T) {
	// successRate 0.5, degraded, amount in the top decile, high risk:
	// threshold = 0.5 - 0.08 - 0.07 - 0.10 = 0.25.
	reg := testRegistry(domain.Processor{
		ID: "p-frail", Currencies: []string{"USD"}, SuccessRate: 0.5,
		MaxAmount: 100, Status: domain.StatusDegraded,
	})
	intent := domain.TransactionIntent{Amount: 95, Currency: "USD", RiskLevel: domain.RiskHigh}

	sim := New(reg, &fixedDraws{vals: []float64{0.25}})
	if rec := sim.Attempt("p-frail", intent); rec.Outcome != domain.AttemptSuccess {
		t.Fatalf("draw at degraded threshold: outcome = %s, want success", rec.Outcome)
	}

	sim = New(reg, &fixedDraws{vals: []float64{0.3}})
	if rec := sim.Attempt("p-frail", intent); rec.Outcome != domain.AttemptFailure {
		t.Fatalf("draw above degraded threshold should fail")
	}
}

func TestFailureReasonPrecedence(t *testing.T) {
	cases := []struct {
		name   string
		p      domain.Processor
		intent domain.TransactionIntent
		draw   float64
		want   string
	}{
		{
			name: "far miss is a timeout",
			p: domain.Processor{
				ID: "p-1", SuccessRate: 0.5, MaxAmount: 1000, Status: domain.StatusOnline,
			},
			intent: domain.TransactionIntent{Amount: 100, RiskLevel: domain.RiskLow},
			draw:   0.71, // threshold 0.5, miss > 0.2
			want:   domain.ReasonTimeout,
		},
		{
			name: "amount penalty wins over risk penalty",
			p: domain.Processor{
				ID: "p-1", SuccessRate: 0.5, MaxAmount: 100, Status: domain.StatusOnline,
			},
			intent: domain.TransactionIntent{Amount: 95, RiskLevel: domain.RiskHigh},
			draw:   0.4, // threshold 0.32, within the timeout band
			want:   domain.ReasonAmountOverLimit,
		},
		{
			name: "risk decline when only risk penalty active",
			p: domain.Processor{
				ID: "p-1", SuccessRate: 0.5, MaxAmount: 1000, Status: domain.StatusOnline,
			},
			intent: domain.TransactionIntent{Amount: 100, RiskLevel: domain.RiskHigh},
			draw:   0.5, // threshold 0.42
			want:   domain.ReasonRiskDecline,
		},
		{
			name: "network error with no penalties",
			p: domain.Processor{
				ID: "p-1", SuccessRate: 0.5, MaxAmount: 1000, Status: domain.StatusOnline,
			},
			intent: domain.TransactionIntent{Amount: 100, RiskLevel: domain.RiskLow},
			draw:   0.6,
			want:   domain.ReasonNetworkError,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sim := New(testRegistry(tc.p), &fixedDraws{vals: []float64{tc.draw}})
			rec := sim.Attempt(tc.p.ID, tc.intent)
			if rec.Outcome != domain.AttemptFailure {
				t.Fatalf("outcome = %s, want failure", rec.Outcome)
			}
			if rec.Reason != tc.want {
				t.Fatalf("reason = %s, want %s", rec.Reason, tc.want)
			}
		})
	}
}

func TestDrawSourceDeterministicWithSeed(t *testing.T) {
	a := NewDrawSource(42)
	b := NewDrawSource(42)
	for i := 0; i < 10; i++ {
		if av, bv := a.Float64(), b.Float64(); av != bv {
			t.Fatalf("draw %d: %v != %v", i, av, bv)
		}
	}
}

package scorecard

import (
	"github.com/meshpay/router/internal/domain"
	"github.com/meshpay/router/internal/registry"
)

// Scoring weights. The score has no fixed range; only relative order matters.
const (
	successWeight  = 1.4
	latencyWeight  = 0.6
	priorityWeight = 0.05
	feeWeight      = 0.12
	feeFloor       = 0.01

	amountHeadroom = 1.05 // processors accept up to 5% over their nominal ceiling
	degradedWeight = 0.75
)

// riskMods scales scores down for riskier intents.
var riskMods = map[domain.RiskLevel]float64{
	domain.RiskLow:    1.0,
	domain.RiskMedium: 0.85,
	domain.RiskHigh:   0.7,
}

// affinities maps specialization x risk level to a score multiplier.
var affinities = map[domain.Specialization]map[domain.RiskLevel]float64{
	domain.SpecHighRisk: {domain.RiskLow: 0.6, domain.RiskMedium: 0.85, domain.RiskHigh: 1.1},
	domain.SpecLowRisk:  {domain.RiskLow: 1.1, domain.RiskMedium: 1.0, domain.RiskHigh: 0.8},
	domain.SpecWallets:  {domain.RiskLow: 1.0, domain.RiskMedium: 0.95, domain.RiskHigh: 0.9},
}

const defaultAffinity = 0.95

// currencyRegions maps currency codes to the regions expected to serve them.
// Used only for diagnostic reason tags, never for eligibility.
var currencyRegions = map[string][]string{
	"USD": {"na", "global"},
	"EUR": {"eu", "global"},
	"GBP": {"eu", "global"},
	"JPY": {"apac", "global"},
	"AUD": {"apac", "global"},
}

// SupportedCurrency reports whether the mesh routes the given currency.
func SupportedCurrency(code string) bool {
	_, ok := currencyRegions[code]
	return ok
}

// Builder scores processors for an intent against a fixed registry.
type Builder struct {
	reg *registry.Registry
}

func NewBuilder(reg *registry.Registry) *Builder {
	return &Builder{reg: reg}
}

// Build filters and scores all processors for the intent. Candidates come
// back in catalog order, unsorted; ranking is the orchestrator's job. An
// empty scorecard means no processor is eligible. No side effects; each call
// recomputes from scratch.
func (b *Builder) Build(intent domain.TransactionIntent) []domain.SmartRouteCandidate {
	var out []domain.SmartRouteCandidate
	for _, p := range b.reg.Processors() {
		if !eligible(&p, intent) {
			continue
		}
		out = append(out, domain.SmartRouteCandidate{
			Processor: p,
			Score:     score(&p, intent),
			Reasons:   reasonTags(&p, intent),
		})
	}
	return out
}

func eligible(p *domain.Processor, intent domain.TransactionIntent) bool {
	if p.Status == domain.StatusOffline {
		return false
	}
	if !p.AcceptsCurrency(intent.Currency) {
		return false
	}
	return intent.Amount <= p.MaxAmount*amountHeadroom
}

func score(p *domain.Processor, intent domain.TransactionIntent) float64 {
	successBoost := p.SuccessRate * successWeight
	latencyBoost := p.LatencyScore * latencyWeight
	priorityBoost := float64(p.Priority) * priorityWeight

	fee := p.BaseFee
	if fee < feeFloor {
		fee = feeFloor
	}
	feePenalty := (1 / fee) * feeWeight

	riskMod, ok := riskMods[intent.RiskLevel]
	if !ok {
		riskMod = 1.0
	}

	statusWeight := 1.0
	if p.Status == domain.StatusDegraded {
		statusWeight = degradedWeight
	}

	return (successBoost + latencyBoost + priorityBoost + feePenalty) *
		riskMod * affinity(p.Specialization, intent.RiskLevel) * statusWeight
}

func affinity(spec domain.Specialization, risk domain.RiskLevel) float64 {
	if spec == "" {
		return 1.0
	}
	table, ok := affinities[spec]
	if !ok {
		return defaultAffinity
	}
	v, ok := table[risk]
	if !ok {
		return defaultAffinity
	}
	return v
}

func reasonTags(p *domain.Processor, intent domain.TransactionIntent) []string {
	tags := []string{"status:" + string(p.Status)}

	if regionsOverlap(currencyRegions[intent.Currency], p.Regions) {
		tags = append(tags, "region:matched")
	} else {
		tags = append(tags, "region:partial")
	}

	if p.Specialization != "" {
		tags = append(tags, "specialization:"+string(p.Specialization))
	}
	return tags
}

func regionsOverlap(want, have []string) bool {
	for _, w := range want {
		for _, h := range have {
			if w == h {
				return true
			}
		}
	}
	return false
}

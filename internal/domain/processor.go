package domain

type ProcessorStatus string

const (
	StatusOnline   ProcessorStatus = "online"
	StatusDegraded ProcessorStatus = "degraded"
	StatusOffline  ProcessorStatus = "offline"
)

type Specialization string

const (
	SpecHighRisk Specialization = "high_risk"
	SpecLowRisk  Specialization = "low_risk"
	SpecWallets  Specialization = "wallets"
)

// Processor describes one processor in the mesh. Read-only within a routing
// decision; only Status may change between decisions.
type Processor struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Regions        []string        `json:"regions"`
	Currencies     []string        `json:"currencies"`
	BaseFee        float64         `json:"base_fee"`
	SuccessRate    float64         `json:"success_rate"`
	MaxAmount      float64         `json:"max_amount"`
	LatencyScore   float64         `json:"latency_score"`
	Priority       int             `json:"priority"`
	Status         ProcessorStatus `json:"status"`
	Specialization Specialization  `json:"specialization,omitempty"`
}

// AcceptsCurrency reports whether the processor settles the given currency.
func (p *Processor) AcceptsCurrency(currency string) bool {
	for _, c := range p.Currencies {
		if c == currency {
			return true
		}
	}
	return false
}

package domain

type Channel string

const (
	ChannelWeb    Channel = "web"
	ChannelMobile Channel = "mobile"
	ChannelPOS    Channel = "pos"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// TransactionIntent is a requested payment not yet resolved to a processor.
// Callers validate it (positive finite amount, supported currency, non-empty
// merchant id) before handing it to the router.
type TransactionIntent struct {
	Amount          float64   `json:"amount"`
	Currency        string    `json:"currency"`
	MerchantID      string    `json:"merchant_id"`
	ClientReference string    `json:"client_reference"`
	Channel         Channel   `json:"channel"`
	RiskLevel       RiskLevel `json:"risk_level"`
}

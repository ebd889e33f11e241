package domain

// Merchant is reference data loaded at startup; immutable afterward.
type Merchant struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Vertical      string   `json:"vertical"`
	Tier          string   `json:"tier"`
	MonthlyVolume float64  `json:"monthly_volume"`
	Active        bool     `json:"active"`
	Currencies    []string `json:"currencies"`
}

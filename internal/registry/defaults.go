package registry

import "github.com/meshpay/router/internal/domain"

// Default returns the standard five-processor mesh used when no seed file is
// available. Mirrors testdata/registry.json.
func Default() *Registry {
	merchants := []domain.Merchant{
		{
			ID: "m-aurora-goods", Name: "Aurora Goods", Vertical: "retail",
			Tier: "growth", MonthlyVolume: 184000, Active: true,
			Currencies: []string{"USD", "EUR"},
		},
		{
			ID: "m-kite-travel", Name: "Kite Travel", Vertical: "travel",
			Tier: "enterprise", MonthlyVolume: 912000, Active: true,
			Currencies: []string{"USD", "GBP", "JPY"},
		},
		{
			ID: "m-pixel-arcade", Name: "Pixel Arcade", Vertical: "gaming",
			Tier: "starter", MonthlyVolume: 36500, Active: true,
			Currencies: []string{"USD", "AUD"},
		},
	}

	processors := []domain.Processor{
		{
			ID: "p-atlaspay", Name: "AtlasPay",
			Regions: []string{"na", "global"}, Currencies: []string{"USD", "AUD"},
			BaseFee: 0.021, SuccessRate: 0.94, MaxAmount: 5000,
			LatencyScore: 0.85, Priority: 8, Status: domain.StatusOnline,
		},
		{
			ID: "p-eurolink", Name: "EuroLink",
			Regions: []string{"eu"}, Currencies: []string{"EUR", "GBP"},
			BaseFee: 0.018, SuccessRate: 0.91, MaxAmount: 8000,
			LatencyScore: 0.72, Priority: 6, Status: domain.StatusOnline,
			Specialization: domain.SpecLowRisk,
		},
		{
			ID: "p-apexwallets", Name: "Apex Wallets",
			Regions: []string{"global"}, Currencies: []string{"USD", "EUR", "GBP"},
			BaseFee: 0.029, SuccessRate: 0.88, MaxAmount: 2500,
			LatencyScore: 0.93, Priority: 5, Status: domain.StatusOnline,
			Specialization: domain.SpecWallets,
		},
		{
			ID: "p-nipponclear", Name: "NipponClear",
			Regions: []string{"apac"}, Currencies: []string{"JPY"},
			BaseFee: 0.015, SuccessRate: 0.9, MaxAmount: 250000,
			LatencyScore: 0.64, Priority: 7, Status: domain.StatusOnline,
		},
		{
			ID: "p-krakengate", Name: "KrakenGate",
			Regions: []string{"eu"}, Currencies: []string{"EUR"},
			BaseFee: 0.034, SuccessRate: 0.79, MaxAmount: 12000,
			LatencyScore: 0.55, Priority: 3, Status: domain.StatusDegraded,
			Specialization: domain.SpecHighRisk,
		},
	}

	return New(merchants, processors)
}

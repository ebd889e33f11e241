package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/meshpay/router/internal/api"
	"github.com/meshpay/router/internal/config"
	"github.com/meshpay/router/internal/ledger"
	"github.com/meshpay/router/internal/registry"
	"github.com/meshpay/router/internal/repository"
	"github.com/meshpay/router/internal/routing"
	"github.com/meshpay/router/internal/scorecard"
	"github.com/meshpay/router/internal/simulator"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Initializing database at %s", cfg.DBPath)
	db, err := repository.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to init DB: %v", err)
	}
	defer db.Close()

	// Create repositories.
	txnRepo := repository.NewTransactionRepo(db)
	confRepo := repository.NewConflictRepo(db)

	// Load the processor mesh.
	reg := loadRegistry(cfg.RegistryPath)
	log.Printf("Registry loaded: %d processors, %d merchants",
		len(reg.Processors()), len(reg.Merchants()))

	// Create the routing engine and ledger.
	builder := scorecard.NewBuilder(reg)
	sim := simulator.New(reg, simulator.NewDrawSource(cfg.RandSeed))
	orch := routing.New(builder, sim, cfg.DegradedFallbackEnabled())
	ledgerSvc := ledger.NewService(orch, txnRepo, confRepo)

	// Create router.
	router := api.NewRouter(ledgerSvc, reg, txnRepo)

	log.Printf("MeshPay Payment Mesh Router")
	log.Printf("Listening on http://localhost:%s", cfg.Port)
	log.Printf("API base: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("")
	log.Printf("Endpoints:")
	log.Printf("  POST   /api/v1/transactions")
	log.Printf("  POST   /api/v1/route/preview")
	log.Printf("  GET    /api/v1/transactions")
	log.Printf("  GET    /api/v1/transactions/{id}")
	log.Printf("  GET    /api/v1/conflicts")
	log.Printf("  POST   /api/v1/conflicts/{id}/resolve")
	log.Printf("  GET    /api/v1/metrics")
	log.Printf("  GET    /api/v1/dashboard")

	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// loadRegistry tries the configured seed path, then testdata, then falls back
// to the compiled-in default mesh.
func loadRegistry(path string) *registry.Registry {
	candidates := []string{}
	if path != "" {
		candidates = append(candidates, path)
	}
	candidates = append(candidates,
		"testdata/registry.json",
		filepath.Join(".", "testdata", "registry.json"),
	)

	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		candidates = append(candidates,
			filepath.Join(dir, "testdata", "registry.json"),
			filepath.Join(dir, "..", "..", "testdata", "registry.json"),
		)
	}

	for _, candidate := range candidates {
		reg, err := registry.Load(candidate)
		if err == nil {
			log.Printf("Loaded registry from %s", candidate)
			return reg
		}
	}

	log.Printf("No registry seed found, using built-in default mesh")
	return registry.Default()
}

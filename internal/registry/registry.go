package registry

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/meshpay/router/internal/domain"
)

// Registry is the static catalog of merchants and processors. Immutable after
// startup; safe for concurrent reads without locking.
type Registry struct {
	merchants    map[string]domain.Merchant
	processors   map[string]domain.Processor
	processorIDs []string
	merchantIDs  []string
}

func New(merchants []domain.Merchant, processors []domain.Processor) *Registry {
	r := &Registry{
		merchants:  make(map[string]domain.Merchant, len(merchants)),
		processors: make(map[string]domain.Processor, len(processors)),
	}
	for _, m := range merchants {
		if _, dup := r.merchants[m.ID]; dup {
			continue
		}
		r.merchants[m.ID] = m
		r.merchantIDs = append(r.merchantIDs, m.ID)
	}
	for _, p := range processors {
		if _, dup := r.processors[p.ID]; dup {
			continue
		}
		r.processors[p.ID] = p
		r.processorIDs = append(r.processorIDs, p.ID)
	}
	return r
}

type seedFile struct {
	Merchants  []domain.Merchant  `json:"merchants"`
	Processors []domain.Processor `json:"processors"`
}

// Load reads a registry seed file (testdata/registry.json layout).
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry seed: %w", err)
	}

	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("unmarshal registry seed: %w", err)
	}
	if len(seed.Processors) == 0 {
		return nil, fmt.Errorf("registry seed %s contains no processors", path)
	}
	return New(seed.Merchants, seed.Processors), nil
}

// Processor looks up a processor by id.
func (r *Registry) Processor(id string) (domain.Processor, bool) {
	p, ok := r.processors[id]
	return p, ok
}

// Processors returns all processors in catalog load order.
func (r *Registry) Processors() []domain.Processor {
	out := make([]domain.Processor, 0, len(r.processorIDs))
	for _, id := range r.processorIDs {
		out = append(out, r.processors[id])
	}
	return out
}

// Merchant looks up a merchant by id.
func (r *Registry) Merchant(id string) (domain.Merchant, bool) {
	m, ok := r.merchants[id]
	return m, ok
}

// Merchants returns all merchants in catalog load order.
func (r *Registry) Merchants() []domain.Merchant {
	out := make([]domain.Merchant, 0, len(r.merchantIDs))
	for _, id := range r.merchantIDs {
		out = append(out, r.merchants[id])
	}
	return out
}

package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meshpay/router/internal/domain"
	"github.com/meshpay/router/internal/repository"
	"github.com/meshpay/router/internal/routing"
)

// ErrNotFound signals an unknown or already-resolved conflict id. Never a
// crash path; resolution of a stale id is a no-op.
var ErrNotFound = errors.New("conflict not found")

const (
	settlementDelay = 5 * time.Minute
	maxSuggested    = 3

	defaultResolutionNote = "resolved without note"
)

// Metrics is the aggregate view over the full ledger, recomputed per call.
type Metrics struct {
	TotalVolume      float64 `json:"total_volume"`
	SuccessRate      float64 `json:"success_rate"`
	FailureCount     int     `json:"failure_count"`
	ConflictCount    int     `json:"conflict_count"`
	AvgTicket        float64 `json:"avg_ticket"`
	TransactionCount int     `json:"transaction_count"`
}

// Service owns the transaction and conflict collections. All mutation goes
// through RecordDecision and ResolveConflict behind a single mutex, so
// concurrent callers never interleave writes or read mid-mutation state.
type Service struct {
	orch      *routing.Orchestrator
	txns      *repository.TransactionRepo
	conflicts *repository.ConflictRepo

	mu  sync.Mutex
	now func() time.Time
}

func NewService(
	orch *routing.Orchestrator,
	txns *repository.TransactionRepo,
	conflicts *repository.ConflictRepo,
) *Service {
	return &Service{
		orch:      orch,
		txns:      txns,
		conflicts: conflicts,
		now:       time.Now,
	}
}

// Route produces a decision without persisting anything.
func (s *Service) Route(intent domain.TransactionIntent) domain.SmartRouteDecision {
	return s.orch.Route(intent)
}

// RecordAndRoute routes the intent and persists the outcome. Exactly one
// Transaction per intent; a conflict decision additionally queues a Conflict.
func (s *Service) RecordAndRoute(intent domain.TransactionIntent) (*domain.Transaction, error) {
	return s.RecordDecision(intent, s.orch.Route(intent))
}

// RecordDecision materializes a routing decision into the ledger.
func (s *Service) RecordDecision(intent domain.TransactionIntent, decision domain.SmartRouteDecision) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := s.now()
	txn := &domain.Transaction{
		ID:        "txn-" + uuid.NewString(),
		Intent:    intent,
		CreatedAt: created,
	}

	if decision.Outcome == domain.DecisionSuccess {
		settled := created.Add(settlementDelay)
		txn.State = domain.TxnSuccess
		txn.ProcessorID = decision.ProcessorID
		txn.SettledAt = &settled
	} else {
		txn.State = domain.TxnConflict
		txn.FailureReason = decision.Reason
	}

	if err := s.txns.Insert(txn); err != nil {
		return nil, fmt.Errorf("record transaction: %w", err)
	}

	if decision.Outcome == domain.DecisionConflict {
		conflict := &domain.Conflict{
			ID:            "cfl-" + uuid.NewString(),
			TransactionID: txn.ID,
			MerchantID:    intent.MerchantID,
			Currency:      intent.Currency,
			Amount:        intent.Amount,
			Reason:        decision.Reason,
			SuggestedIDs:  suggestFallbacks(decision.Scorecard),
			State:         domain.ConflictOpen,
			CreatedAt:     created,
		}
		if err := s.conflicts.Insert(conflict); err != nil {
			return nil, fmt.Errorf("record conflict: %w", err)
		}
		log.Printf("[ledger] queued conflict %s for %s (reason=%s, suggestions=%d)",
			conflict.ID, txn.ID, conflict.Reason, len(conflict.SuggestedIDs))
	}

	return txn, nil
}

// ResolveConflict closes an open conflict and fails its transaction. Unknown
// or already-resolved ids report ErrNotFound and change nothing.
func (s *Service) ResolveConflict(conflictID, note string) (*domain.Conflict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conflict, err := s.conflicts.GetByID(conflictID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup conflict: %w", err)
	}
	if conflict.State != domain.ConflictOpen {
		return nil, ErrNotFound
	}

	if note == "" {
		note = defaultResolutionNote
	}
	resolvedAt := s.now()

	if err := s.conflicts.MarkResolved(conflictID, note, resolvedAt); err != nil {
		return nil, fmt.Errorf("resolve conflict: %w", err)
	}

	txn, err := s.txns.GetByID(conflict.TransactionID)
	if err == nil && txn.State == domain.TxnConflict {
		if err := s.txns.MarkFailed(txn.ID, note); err != nil {
			return nil, fmt.Errorf("fail transaction: %w", err)
		}
	}

	conflict.State = domain.ConflictResolved
	conflict.ResolutionNote = note
	conflict.ResolvedAt = &resolvedAt

	log.Printf("[ledger] resolved conflict %s (txn=%s)", conflictID, conflict.TransactionID)
	return conflict, nil
}

// Metrics scans the full ledger for a consistent aggregate snapshot.
func (s *Service) Metrics() (*Metrics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats, err := s.txns.Stats()
	if err != nil {
		return nil, fmt.Errorf("transaction stats: %w", err)
	}
	openConflicts, err := s.conflicts.CountOpen()
	if err != nil {
		return nil, fmt.Errorf("count conflicts: %w", err)
	}

	m := &Metrics{
		TotalVolume:      stats.SuccessVolume,
		FailureCount:     stats.FailedCount,
		ConflictCount:    openConflicts,
		TransactionCount: stats.Total,
	}
	if stats.Total > 0 {
		m.SuccessRate = round1(float64(stats.SuccessCount) / float64(stats.Total) * 100)
	}
	if stats.SuccessCount > 0 {
		m.AvgTicket = round2(stats.SuccessVolume / float64(stats.SuccessCount))
	}
	return m, nil
}

func (s *Service) ListTransactions(limit int) ([]domain.Transaction, error) {
	return s.txns.List(limit)
}

func (s *Service) ListConflicts() ([]domain.Conflict, error) {
	return s.conflicts.List()
}

func suggestFallbacks(scorecard []domain.SmartRouteCandidate) []string {
	n := len(scorecard)
	if n > maxSuggested {
		n = maxSuggested
	}
	ids := make([]string, 0, n)
	for _, cand := range scorecard[:n] {
		ids = append(ids, cand.Processor.ID)
	}
	return ids
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/meshpay/router/internal/domain"
)

type TransactionRepo struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *TransactionRepo {
	return &TransactionRepo{db: db}
}

func (r *TransactionRepo) Insert(tx *domain.Transaction) error {
	var procID any
	if tx.ProcessorID != "" {
		procID = tx.ProcessorID
	}
	var reason any
	if tx.FailureReason != "" {
		reason = tx.FailureReason
	}

	_, err := r.db.Exec(
		`INSERT INTO transactions
		(id, merchant_id, client_reference, channel, risk_level, amount,
		 currency, processor_id, state, failure_reason, created_at, settled_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		tx.ID, tx.Intent.MerchantID, tx.Intent.ClientReference,
		string(tx.Intent.Channel), string(tx.Intent.RiskLevel),
		tx.Intent.Amount, tx.Intent.Currency, procID, string(tx.State),
		reason, tx.CreatedAt.Format(time.RFC3339),
		formatNullableTime(tx.SettledAt),
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepo) GetByID(id string) (*domain.Transaction, error) {
	row := r.db.QueryRow("SELECT * FROM transactions WHERE id = ?", id)
	return scanTransactionFields(row)
}

func (r *TransactionRepo) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM transactions").Scan(&count)
	return count, err
}

// List returns the most recent transactions first, capped at limit.
func (r *TransactionRepo) List(limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		"SELECT * FROM transactions ORDER BY created_at DESC, id DESC LIMIT ?", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		tx, err := scanTransactionFields(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		txns = append(txns, *tx)
	}
	return txns, rows.Err()
}

// MarkFailed flips a transaction to the failed state with the given reason.
// Used only by conflict resolution.
func (r *TransactionRepo) MarkFailed(id, reason string) error {
	_, err := r.db.Exec(
		"UPDATE transactions SET state = ?, failure_reason = ? WHERE id = ?",
		string(domain.TxnFailed), reason, id,
	)
	return err
}

// LedgerStats holds the aggregate counters metrics are derived from.
type LedgerStats struct {
	Total         int
	SuccessCount  int
	FailedCount   int
	SuccessVolume float64
}

// Stats recomputes the aggregates from the full table on every call.
func (r *TransactionRepo) Stats() (*LedgerStats, error) {
	s := &LedgerStats{}
	err := r.db.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN state='success' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN state='failed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN state='success' THEN amount ELSE 0 END), 0)
		FROM transactions
	`).Scan(&s.Total, &s.SuccessCount, &s.FailedCount, &s.SuccessVolume)
	return s, err
}

type ProcessorVolume struct {
	ProcessorID string  `json:"processor_id"`
	Count       int     `json:"count"`
	Volume      float64 `json:"volume"`
}

func (r *TransactionRepo) VolumeByProcessor() ([]ProcessorVolume, error) {
	rows, err := r.db.Query(`
		SELECT processor_id, COUNT(*), COALESCE(SUM(amount), 0)
		FROM transactions WHERE state='success' AND processor_id IS NOT NULL
		GROUP BY processor_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ProcessorVolume
	for rows.Next() {
		var pv ProcessorVolume
		if err := rows.Scan(&pv.ProcessorID, &pv.Count, &pv.Volume); err != nil {
			return nil, err
		}
		result = append(result, pv)
	}
	return result, rows.Err()
}

type CurrencyVolume struct {
	Currency      string  `json:"currency"`
	Count         int     `json:"count"`
	SettledVolume float64 `json:"settled_volume"`
}

func (r *TransactionRepo) VolumeByCurrency() ([]CurrencyVolume, error) {
	rows, err := r.db.Query(`
		SELECT currency, COUNT(*),
			COALESCE(SUM(CASE WHEN state='success' THEN amount ELSE 0 END), 0)
		FROM transactions GROUP BY currency
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CurrencyVolume
	for rows.Next() {
		var cv CurrencyVolume
		if err := rows.Scan(&cv.Currency, &cv.Count, &cv.SettledVolume); err != nil {
			return nil, err
		}
		result = append(result, cv)
	}
	return result, rows.Err()
}

// --- helpers ---

func formatNullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransactionFields(sc rowScanner) (*domain.Transaction, error) {
	var tx domain.Transaction
	var channel, risk, state, createdAt string
	var procID, reason, settledAt sql.NullString

	err := sc.Scan(
		&tx.ID, &tx.Intent.MerchantID, &tx.Intent.ClientReference,
		&channel, &risk, &tx.Intent.Amount, &tx.Intent.Currency,
		&procID, &state, &reason, &createdAt, &settledAt,
	)
	if err != nil {
		return nil, err
	}

	tx.Intent.Channel = domain.Channel(channel)
	tx.Intent.RiskLevel = domain.RiskLevel(risk)
	tx.State = domain.TransactionState(state)
	tx.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	if procID.Valid {
		tx.ProcessorID = procID.String
	}
	if reason.Valid {
		tx.FailureReason = reason.String
	}
	if settledAt.Valid {
		t, _ := time.Parse(time.RFC3339, settledAt.String)
		tx.SettledAt = &t
	}

	return &tx, nil
}

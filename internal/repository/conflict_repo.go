package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/meshpay/router/internal/domain"
)

type ConflictRepo struct {
	db *sql.DB
}

func NewConflictRepo(db *sql.DB) *ConflictRepo {
	return &ConflictRepo{db: db}
}

func (r *ConflictRepo) Insert(c *domain.Conflict) error {
	var note any
	if c.ResolutionNote != "" {
		note = c.ResolutionNote
	}

	_, err := r.db.Exec(
		`INSERT INTO conflicts
		(id, transaction_id, merchant_id, currency, amount, reason,
		 suggested_ids, state, resolution_note, created_at, resolved_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		c.ID, c.TransactionID, c.MerchantID, c.Currency, c.Amount, c.Reason,
		strings.Join(c.SuggestedIDs, ","), string(c.State), note,
		c.CreatedAt.Format(time.RFC3339), formatNullableTime(c.ResolvedAt),
	)
	if err != nil {
		return fmt.Errorf("insert conflict: %w", err)
	}
	return nil
}

func (r *ConflictRepo) GetByID(id string) (*domain.Conflict, error) {
	row := r.db.QueryRow("SELECT * FROM conflicts WHERE id = ?", id)
	return scanConflictFields(row)
}

// List returns all conflicts, newest first; ties break on id for a
// deterministic order.
func (r *ConflictRepo) List() ([]domain.Conflict, error) {
	rows, err := r.db.Query(
		"SELECT * FROM conflicts ORDER BY created_at DESC, id DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var conflicts []domain.Conflict
	for rows.Next() {
		c, err := scanConflictFields(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		conflicts = append(conflicts, *c)
	}
	return conflicts, rows.Err()
}

func (r *ConflictRepo) CountOpen() (int, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM conflicts WHERE state = ?", string(domain.ConflictOpen),
	).Scan(&count)
	return count, err
}

// MarkResolved stamps the conflict resolved. Only the ledger calls this, and
// only after checking the conflict is still open.
func (r *ConflictRepo) MarkResolved(id, note string, at time.Time) error {
	_, err := r.db.Exec(
		"UPDATE conflicts SET state = ?, resolution_note = ?, resolved_at = ? WHERE id = ?",
		string(domain.ConflictResolved), note, at.Format(time.RFC3339), id,
	)
	return err
}

// --- helpers ---

func scanConflictFields(sc rowScanner) (*domain.Conflict, error) {
	var c domain.Conflict
	var suggested, state, createdAt string
	var note, resolvedAt sql.NullString

	err := sc.Scan(
		&c.ID, &c.TransactionID, &c.MerchantID, &c.Currency, &c.Amount,
		&c.Reason, &suggested, &state, &note, &createdAt, &resolvedAt,
	)
	if err != nil {
		return nil, err
	}

	if suggested != "" {
		c.SuggestedIDs = strings.Split(suggested, ",")
	}
	c.State = domain.ConflictState(state)
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	if note.Valid {
		c.ResolutionNote = note.String
	}
	if resolvedAt.Valid {
		t, _ := time.Parse(time.RFC3339, resolvedAt.String)
		c.ResolvedAt = &t
	}

	return &c, nil
}

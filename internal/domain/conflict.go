package domain

import "time"

type ConflictState string

const (
	ConflictOpen     ConflictState = "open"
	ConflictResolved ConflictState = "resolved"
)

// Conflict is a routing failure queued for manual resolution. It transitions
// open -> resolved exactly once, on human action.
type Conflict struct {
	ID             string        `json:"id"`
	TransactionID  string        `json:"transaction_id"`
	MerchantID     string        `json:"merchant_id"`
	Currency       string        `json:"currency"`
	Amount         float64       `json:"amount"`
	Reason         string        `json:"reason"`
	SuggestedIDs   []string      `json:"suggested_processor_ids"`
	State          ConflictState `json:"state"`
	ResolutionNote string        `json:"resolution_note,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	ResolvedAt     *time.Time    `json:"resolved_at,omitempty"`
}

package domain

import "time"

type TransactionState string

const (
	TxnSuccess  TransactionState = "success"
	TxnFailed   TransactionState = "failed"
	TxnPending  TransactionState = "pending"
	TxnConflict TransactionState = "conflict"
)

// Transaction is the persisted outcome of one routed intent. Append-only
// except for the conflict-resolution transition to "failed".
type Transaction struct {
	ID            string            `json:"id"`
	Intent        TransactionIntent `json:"intent"`
	ProcessorID   string            `json:"processor_id,omitempty"`
	State         TransactionState  `json:"state"`
	FailureReason string            `json:"failure_reason,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	SettledAt     *time.Time        `json:"settled_at,omitempty"`
}

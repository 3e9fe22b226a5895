package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type TransactionType string
type TransactionStatus string

const (
	TransactionTypePayment TransactionType = "payment" // Money captured for an order
	TransactionTypeRefund  TransactionType = "refund"  // Money returned to the wallet
	TransactionTypeDeposit TransactionType = "deposit" // Manual wallet top-up

	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Transaction is an append-only ledger row. Each financial event writes
// exactly one row inside the same database transaction that moves the money.
type Transaction struct {
	ID          string            `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string            `gorm:"index;not null" json:"user_id"`
	Type        TransactionType   `gorm:"type:VARCHAR(20);not null" json:"type"`
	Amount      float64           `gorm:"not null;check:amount > 0" json:"amount"`
	Status      TransactionStatus `gorm:"type:VARCHAR(20);not null" json:"status"`
	Description string            `json:"description"`
	CreatedAt   time.Time         `json:"created_at"`
}

var ErrLedgerImmutable = errors.New("ledger rows are append-only")

func (Transaction) BeforeUpdate(*gorm.DB) error {
	return ErrLedgerImmutable
}

func (Transaction) BeforeDelete(*gorm.DB) error {
	return ErrLedgerImmutable
}

package models

import (
	"github.com/google/uuid"
	"time"
)

type TransactionType string

const (
	TransactionAdReward          TransactionType = "ad_reward"
	TransactionPurchase          TransactionType = "purchase"
	TransactionToolUsage         TransactionType = "tool_usage"
	TransactionPremiumConversion TransactionType = "premium_conversion"
)

// TransactionMeta is a closed set of per-type metadata payloads. The ledger
// never reads these back; they are serialized to JSON for the audit trail.
type TransactionMeta interface {
	transactionMeta()
}

type PurchaseMeta struct {
	PackageID string  `json:"package_id"`
	Price     float64 `json:"price"`
}

type PremiumMeta struct {
	Days    int       `json:"days"`
	EndDate time.Time `json:"end_date"`
}

type ToolUsageMeta struct {
	Tool string `json:"tool"`
}

func (PurchaseMeta) transactionMeta()  {}
func (PremiumMeta) transactionMeta()   {}
func (ToolUsageMeta) transactionMeta() {}

// CoinTransaction is an append-only ledger entry. Positive amounts are
// credits, negative amounts are debits.
type CoinTransaction struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	UserID    uuid.UUID       `json:"user_id" db:"user_id"`
	Amount    int             `json:"amount" db:"amount"`
	Type      TransactionType `json:"transaction_type" db:"transaction_type"`
	ToolUsed  *string         `json:"tool_used,omitempty" db:"tool_used"`
	Meta      TransactionMeta `json:"meta,omitempty" db:"meta"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

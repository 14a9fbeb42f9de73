package models

import (
	"github.com/google/uuid"
	"time"
)

// CoinAccount is the per-user coin row. Created lazily with zero values the
// first time a user with no account asks for their balance.
type CoinAccount struct {
	UserID         uuid.UUID  `json:"user_id" db:"user_id"`
	Balance        int        `json:"balance" db:"balance"`
	LifetimeEarned int        `json:"lifetime_earned" db:"lifetime_earned"`
	LastAdWatch    *time.Time `json:"last_ad_watch" db:"last_ad_watch"`
}

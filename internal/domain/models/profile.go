package models

import (
	"github.com/google/uuid"
	"time"
)

// Profile carries the premium entitlement. Nothing clears IsPremium when the
// entitlement lapses; expiry is computed on read via PremiumActive.
type Profile struct {
	UserID       uuid.UUID  `json:"user_id" db:"user_id"`
	IsPremium    bool       `json:"is_premium" db:"is_premium"`
	PremiumUntil *time.Time `json:"premium_until" db:"premium_until"`
}

func (p Profile) PremiumActive(now time.Time) bool {
	return p.IsPremium && p.PremiumUntil != nil && p.PremiumUntil.After(now)
}

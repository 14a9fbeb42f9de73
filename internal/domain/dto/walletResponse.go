package dto

import "time"

// swagger:model
type WalletResponse struct {
	Balance        int                  `json:"balance" example:"120"`
	LifetimeEarned int                  `json:"lifetime_earned" example:"340"`
	LastAdWatch    *time.Time           `json:"last_ad_watch,omitempty"`
	IsPremium      bool                 `json:"is_premium"`
	PremiumUntil   *time.Time           `json:"premium_until,omitempty"`
	History        []CoinTransactionDTO `json:"history"`
}

type CoinTransactionDTO struct {
	Amount    int       `json:"amount" example:"-5"`
	Type      string    `json:"type" example:"tool_usage"`
	ToolUsed  string    `json:"tool_used,omitempty" example:"bg-remove"`
	CreatedAt time.Time `json:"created_at"`
}

package dto

import "time"

const (
	ConversionCommitted         = "committed"
	ConversionNeedsConfirmation = "needs_confirmation"
	ConversionFailed            = "failed"
)

// ConversionOutcome is the tagged result of a premium conversion attempt.
// NeedsConfirmation carries the figures the caller must show before the
// additive extension is confirmed; cancelling is simply never confirming.
//
// swagger:model
type ConversionOutcome struct {
	State          string     `json:"state" example:"needs_confirmation"`
	Reason         string     `json:"reason,omitempty"`
	DaysLeft       int        `json:"days_left,omitempty"`
	DaysToAdd      int        `json:"days_to_add,omitempty"`
	TotalDays      int        `json:"total_days,omitempty"`
	PremiumUntil   *time.Time `json:"premium_until,omitempty"`
	LedgerRecorded bool       `json:"ledger_recorded"`
}

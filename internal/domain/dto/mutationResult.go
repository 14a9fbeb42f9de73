package dto

// Denial and outcome reasons surfaced to the caller.
const (
	ReasonUnauthenticated     = "unauthenticated"
	ReasonInvalidPackage      = "invalid_package"
	ReasonInvalidDuration     = "invalid_duration"
	ReasonInsufficientBalance = "insufficient_balance"
	ReasonCooldownActive      = "cooldown_active"
	ReasonBalanceConflict     = "balance_conflict"
	ReasonNoCostDefined       = "no_cost_defined"
	ReasonProfileUpdateFailed = "profile_update_failed"
	ReasonCoinDebitFailed     = "coin_debit_failed"
)

// MutationResult reports the outcome of a balance-affecting operation. The
// balance write and the ledger record are tracked separately: the ledger is a
// best-effort audit trail, so LedgerRecorded can be false while the balance
// mutation stands.
//
// swagger:model
type MutationResult struct {
	Allowed        bool   `json:"allowed"`
	BalanceUpdated bool   `json:"balance_updated"`
	LedgerRecorded bool   `json:"ledger_recorded"`
	Balance        int    `json:"balance"`
	LifetimeEarned int    `json:"lifetime_earned"`
	Reason         string `json:"reason,omitempty"`
}

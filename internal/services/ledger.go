package services

import (
	"context"
	"ditoolz-coins/internal/domain/catalog"
	"ditoolz-coins/internal/domain/dto"
	"ditoolz-coins/internal/domain/models"
	"ditoolz-coins/internal/metrics"
	"ditoolz-coins/internal/repository"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"log/slog"
	"sync"
	"time"
)

// LedgerService owns every coin balance mutation: ad rewards, package
// purchases, tool charges and the premium conversion debit. It keeps a
// per-user cache of the stored account, refreshed after every successful
// mutation; the cache is only advanced after a confirmed re-read, so a failed
// write never shows a balance that was not persisted.
type LedgerService struct {
	log      *slog.Logger
	accounts AccountRepository
	recorder TransactionRecorder
	profiles ProfileRepository
	adDelay  time.Duration

	mu    sync.Mutex
	cache map[uuid.UUID]models.CoinAccount
}

type AccountRepository interface {
	GetCoinAccount(ctx context.Context, userID uuid.UUID) (models.CoinAccount, error)
	CreateCoinAccount(ctx context.Context, userID uuid.UUID) error
	SetCoinAccount(ctx context.Context, userID uuid.UUID, balance, lifetimeEarned int, lastAdWatch *time.Time, expectedBalance int) error
}

type TransactionRecorder interface {
	InsertCoinTransaction(ctx context.Context, tx models.CoinTransaction) error
	GetCoinTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]models.CoinTransaction, error)
}

type ProfileRepository interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (models.Profile, error)
	UpsertProfile(ctx context.Context, userID uuid.UUID, isPremium bool, premiumUntil *time.Time) error
}

// adDelay simulates ad playback before the reward is granted; tests pass 0.
func NewLedgerService(log *slog.Logger, accounts AccountRepository, recorder TransactionRecorder, profiles ProfileRepository, adDelay time.Duration) *LedgerService {
	return &LedgerService{
		log:      log,
		accounts: accounts,
		recorder: recorder,
		profiles: profiles,
		adDelay:  adDelay,
		cache:    make(map[uuid.UUID]models.CoinAccount),
	}
}

// Refresh re-reads the stored account into the cache, lazily creating a
// zero-value account for users seen for the first time.
func (s *LedgerService) Refresh(ctx context.Context, userID uuid.UUID) error {
	const op = "services.LedgerService.Refresh"

	acc, err := s.accounts.GetCoinAccount(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrAccountNotFound) {
			return fmt.Errorf("%s: %w", op, err)
		}
		if err := s.accounts.CreateCoinAccount(ctx, userID); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		acc = models.CoinAccount{UserID: userID}
	}

	s.mu.Lock()
	s.cache[userID] = acc
	s.mu.Unlock()

	return nil
}

func (s *LedgerService) current(ctx context.Context, userID uuid.UUID) (models.CoinAccount, error) {
	s.mu.Lock()
	acc, ok := s.cache[userID]
	s.mu.Unlock()
	if ok {
		return acc, nil
	}

	if err := s.Refresh(ctx, userID); err != nil {
		return models.CoinAccount{}, err
	}

	s.mu.Lock()
	acc = s.cache[userID]
	s.mu.Unlock()
	return acc, nil
}

// Balance returns the cached balance, refreshing it on first access.
func (s *LedgerService) Balance(ctx context.Context, userID uuid.UUID) (int, error) {
	acc, err := s.current(ctx, userID)
	if err != nil {
		return 0, err
	}
	return acc.Balance, nil
}

// EarnFromAd grants the fixed ad reward after simulated playback, subject to
// the per-user cooldown.
func (s *LedgerService) EarnFromAd(ctx context.Context, userID uuid.UUID) (dto.MutationResult, error) {
	const op = "services.LedgerService.EarnFromAd"

	log := s.log.With(slog.String("op", op), slog.String("user_id", userID.String()))

	if userID == uuid.Nil {
		return s.denied(userID, models.TransactionAdReward, dto.ReasonUnauthenticated), nil
	}

	acc, err := s.current(ctx, userID)
	if err != nil {
		return dto.MutationResult{}, fmt.Errorf("%s: %w", op, err)
	}

	if acc.LastAdWatch != nil && time.Since(*acc.LastAdWatch) < catalog.AdRewardCooldown {
		log.Info("ad reward denied, cooldown active", slog.Time("last_ad_watch", *acc.LastAdWatch))
		return s.denied(userID, models.TransactionAdReward, dto.ReasonCooldownActive), nil
	}

	// Simulated ad playback. The real ad SDK lives in the SPA.
	if s.adDelay > 0 {
		select {
		case <-ctx.Done():
			return dto.MutationResult{}, fmt.Errorf("%s: %w", op, ctx.Err())
		case <-time.After(s.adDelay):
		}
	}

	now := time.Now().UTC()
	err = s.accounts.SetCoinAccount(ctx, userID,
		acc.Balance+catalog.AdRewardCoins,
		acc.LifetimeEarned+catalog.AdRewardCoins,
		&now,
		acc.Balance,
	)
	if err != nil {
		if errors.Is(err, repository.ErrBalanceConflict) {
			log.Warn("ad reward lost the balance race, refreshing")
			_ = s.Refresh(ctx, userID)
			return s.denied(userID, models.TransactionAdReward, dto.ReasonBalanceConflict), nil
		}
		metrics.CoinMutations.WithLabelValues(string(models.TransactionAdReward), "error").Inc()
		return dto.MutationResult{}, fmt.Errorf("%s: %w", op, err)
	}

	recorded := s.record(ctx, models.CoinTransaction{
		UserID: userID,
		Amount: catalog.AdRewardCoins,
		Type:   models.TransactionAdReward,
	})

	return s.committed(ctx, userID, models.TransactionAdReward, recorded), nil
}

// Purchase credits a coin package. Payment capture happens in the external
// checkout flow before this is called.
func (s *LedgerService) Purchase(ctx context.Context, userID uuid.UUID, packageID string) (dto.MutationResult, error) {
	const op = "services.LedgerService.Purchase"

	log := s.log.With(slog.String("op", op), slog.String("user_id", userID.String()), slog.String("package_id", packageID))

	if userID == uuid.Nil {
		return s.denied(userID, models.TransactionPurchase, dto.ReasonUnauthenticated), nil
	}

	pkg, ok := catalog.PackageByID(packageID)
	if !ok {
		log.Info("purchase denied, unknown package")
		return s.denied(userID, models.TransactionPurchase, dto.ReasonInvalidPackage), nil
	}
	total := pkg.Coins + pkg.Bonus

	acc, err := s.current(ctx, userID)
	if err != nil {
		return dto.MutationResult{}, fmt.Errorf("%s: %w", op, err)
	}

	err = s.accounts.SetCoinAccount(ctx, userID,
		acc.Balance+total,
		acc.LifetimeEarned+total,
		acc.LastAdWatch,
		acc.Balance,
	)
	if err != nil {
		if errors.Is(err, repository.ErrBalanceConflict) {
			log.Warn("purchase lost the balance race, refreshing")
			_ = s.Refresh(ctx, userID)
			return s.denied(userID, models.TransactionPurchase, dto.ReasonBalanceConflict), nil
		}
		metrics.CoinMutations.WithLabelValues(string(models.TransactionPurchase), "error").Inc()
		return dto.MutationResult{}, fmt.Errorf("%s: %w", op, err)
	}

	recorded := s.record(ctx, models.CoinTransaction{
		UserID: userID,
		Amount: total,
		Type:   models.TransactionPurchase,
		Meta:   models.PurchaseMeta{PackageID: pkg.ID, Price: pkg.Price},
	})

	log.Info("package purchased", slog.Int("coins", total))

	return s.committed(ctx, userID, models.TransactionPurchase, recorded), nil
}

// SpendForTool charges the tool's cost. A tool with no cost entry is allowed
// for free without any mutation; that is deliberate, and loud, because a
// chargeable tool missing from the cost table is an easy way to give it away.
func (s *LedgerService) SpendForTool(ctx context.Context, userID uuid.UUID, toolID string) (dto.MutationResult, error) {
	const op = "services.LedgerService.SpendForTool"

	log := s.log.With(slog.String("op", op), slog.String("user_id", userID.String()), slog.String("tool", toolID))

	if userID == uuid.Nil {
		return s.denied(userID, models.TransactionToolUsage, dto.ReasonUnauthenticated), nil
	}

	cost, ok := catalog.ToolCost(toolID)
	if !ok {
		log.Warn("no cost defined for tool, allowing for free")
		metrics.GateFailOpen.WithLabelValues(toolID).Inc()
		return dto.MutationResult{Allowed: true, Reason: dto.ReasonNoCostDefined}, nil
	}

	acc, err := s.current(ctx, userID)
	if err != nil {
		return dto.MutationResult{}, fmt.Errorf("%s: %w", op, err)
	}

	if acc.Balance < cost {
		log.Info("tool charge denied, insufficient balance", slog.Int("balance", acc.Balance), slog.Int("cost", cost))
		return s.denied(userID, models.TransactionToolUsage, dto.ReasonInsufficientBalance), nil
	}

	return s.debit(ctx, userID, acc, cost, models.CoinTransaction{
		UserID:   userID,
		Amount:   -cost,
		Type:     models.TransactionToolUsage,
		ToolUsed: &toolID,
		Meta:     models.ToolUsageMeta{Tool: toolID},
	})
}

// DebitForPremium deducts the coin cost of a committed premium conversion.
// The profile write has already happened when this runs.
func (s *LedgerService) DebitForPremium(ctx context.Context, userID uuid.UUID, cost, days int, endDate time.Time) (dto.MutationResult, error) {
	const op = "services.LedgerService.DebitForPremium"

	if userID == uuid.Nil {
		return s.denied(userID, models.TransactionPremiumConversion, dto.ReasonUnauthenticated), nil
	}

	acc, err := s.current(ctx, userID)
	if err != nil {
		return dto.MutationResult{}, fmt.Errorf("%s: %w", op, err)
	}

	if acc.Balance < cost {
		return s.denied(userID, models.TransactionPremiumConversion, dto.ReasonInsufficientBalance), nil
	}

	return s.debit(ctx, userID, acc, cost, models.CoinTransaction{
		UserID: userID,
		Amount: -cost,
		Type:   models.TransactionPremiumConversion,
		Meta:   models.PremiumMeta{Days: days, EndDate: endDate},
	})
}

// GetWallet aggregates the account, the premium entitlement and recent ledger
// history into the dashboard view. Premium expiry is computed here, on read.
func (s *LedgerService) GetWallet(ctx context.Context, userID uuid.UUID) (dto.WalletResponse, error) {
	const op = "services.LedgerService.GetWallet"

	if err := s.Refresh(ctx, userID); err != nil {
		return dto.WalletResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	acc, err := s.current(ctx, userID)
	if err != nil {
		return dto.WalletResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrProfileNotFound) {
		return dto.WalletResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	history, err := s.recorder.GetCoinTransactions(ctx, userID, 20)
	if err != nil {
		return dto.WalletResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	resp := dto.WalletResponse{
		Balance:        acc.Balance,
		LifetimeEarned: acc.LifetimeEarned,
		LastAdWatch:    acc.LastAdWatch,
		IsPremium:      profile.PremiumActive(time.Now()),
		PremiumUntil:   profile.PremiumUntil,
		History:        make([]dto.CoinTransactionDTO, 0, len(history)),
	}
	for _, tx := range history {
		entry := dto.CoinTransactionDTO{
			Amount:    tx.Amount,
			Type:      string(tx.Type),
			CreatedAt: tx.CreatedAt,
		}
		if tx.ToolUsed != nil {
			entry.ToolUsed = *tx.ToolUsed
		}
		resp.History = append(resp.History, entry)
	}

	return resp, nil
}

// debit performs the shared write-record-refresh sequence for spend paths.
func (s *LedgerService) debit(ctx context.Context, userID uuid.UUID, acc models.CoinAccount, cost int, tx models.CoinTransaction) (dto.MutationResult, error) {
	const op = "services.LedgerService.debit"

	err := s.accounts.SetCoinAccount(ctx, userID,
		acc.Balance-cost,
		acc.LifetimeEarned,
		acc.LastAdWatch,
		acc.Balance,
	)
	if err != nil {
		if errors.Is(err, repository.ErrBalanceConflict) {
			s.log.Warn("debit lost the balance race, refreshing",
				slog.String("op", op), slog.String("user_id", userID.String()))
			_ = s.Refresh(ctx, userID)
			return s.denied(userID, tx.Type, dto.ReasonBalanceConflict), nil
		}
		metrics.CoinMutations.WithLabelValues(string(tx.Type), "error").Inc()
		return dto.MutationResult{}, fmt.Errorf("%s: %w", op, err)
	}

	recorded := s.record(ctx, tx)

	return s.committed(ctx, userID, tx.Type, recorded), nil
}

// record appends the audit trail entry. The balance write already succeeded,
// so a recorder failure is logged and reported via LedgerRecorded, never
// rolled back.
func (s *LedgerService) record(ctx context.Context, tx models.CoinTransaction) bool {
	if err := s.recorder.InsertCoinTransaction(ctx, tx); err != nil {
		s.log.Warn("coin transaction not recorded",
			slog.String("user_id", tx.UserID.String()),
			slog.String("type", string(tx.Type)),
			slog.Int("amount", tx.Amount),
			slog.String("error", err.Error()))
		return false
	}
	return true
}

func (s *LedgerService) committed(ctx context.Context, userID uuid.UUID, txType models.TransactionType, recorded bool) dto.MutationResult {
	if err := s.Refresh(ctx, userID); err != nil {
		s.log.Warn("cache refresh after mutation failed", slog.String("user_id", userID.String()), slog.String("error", err.Error()))
	}

	s.mu.Lock()
	acc := s.cache[userID]
	s.mu.Unlock()

	metrics.CoinMutations.WithLabelValues(string(txType), "ok").Inc()

	return dto.MutationResult{
		Allowed:        true,
		BalanceUpdated: true,
		LedgerRecorded: recorded,
		Balance:        acc.Balance,
		LifetimeEarned: acc.LifetimeEarned,
	}
}

// denied reports the cached state only; a denial never reaches the backend.
func (s *LedgerService) denied(userID uuid.UUID, txType models.TransactionType, reason string) dto.MutationResult {
	metrics.CoinMutations.WithLabelValues(string(txType), "denied").Inc()

	s.mu.Lock()
	acc := s.cache[userID]
	s.mu.Unlock()

	return dto.MutationResult{
		Reason:         reason,
		Balance:        acc.Balance,
		LifetimeEarned: acc.LifetimeEarned,
	}
}

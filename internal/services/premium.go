package services

import (
	"context"
	"ditoolz-coins/internal/domain/catalog"
	"ditoolz-coins/internal/domain/dto"
	"ditoolz-coins/internal/domain/models"
	"ditoolz-coins/internal/repository"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"log/slog"
	"math"
	"time"
)

// PremiumService converts coins into a time-boxed premium entitlement. The
// conversion is a two-step workflow: StartConversion either commits directly
// or reports NeedsConfirmation when an unexpired entitlement exists, and
// ConfirmConversion performs the additive extension. Cancelling is simply
// never confirming; no state is held between the two calls.
type PremiumService struct {
	log      *slog.Logger
	profiles ProfileRepository
	coins    CoinDebiter
}

type CoinDebiter interface {
	Balance(ctx context.Context, userID uuid.UUID) (int, error)
	DebitForPremium(ctx context.Context, userID uuid.UUID, cost, days int, endDate time.Time) (dto.MutationResult, error)
}

func NewPremiumService(log *slog.Logger, profiles ProfileRepository, coins CoinDebiter) *PremiumService {
	return &PremiumService{
		log:      log,
		profiles: profiles,
		coins:    coins,
	}
}

func (s *PremiumService) StartConversion(ctx context.Context, userID uuid.UUID, days int) (dto.ConversionOutcome, error) {
	const op = "services.PremiumService.StartConversion"

	cost, outcome, err := s.check(ctx, userID, days)
	if err != nil {
		return dto.ConversionOutcome{}, fmt.Errorf("%s: %w", op, err)
	}
	if outcome != nil {
		return *outcome, nil
	}

	profile, err := s.getProfile(ctx, userID)
	if err != nil {
		return dto.ConversionOutcome{}, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	if profile.PremiumActive(now) {
		daysLeft := int(math.Ceil(profile.PremiumUntil.Sub(now).Hours() / 24))
		s.log.Info("conversion needs confirmation, premium already active",
			slog.String("op", op), slog.String("user_id", userID.String()),
			slog.Int("days_left", daysLeft), slog.Int("days_to_add", days))
		return dto.ConversionOutcome{
			State:     dto.ConversionNeedsConfirmation,
			DaysLeft:  daysLeft,
			DaysToAdd: days,
			TotalDays: daysLeft + days,
		}, nil
	}

	return s.commit(ctx, userID, days, cost, now), nil
}

// ConfirmConversion commits an extension the caller has explicitly approved.
// The new entitlement starts where the current one ends, never replacing it.
func (s *PremiumService) ConfirmConversion(ctx context.Context, userID uuid.UUID, days int) (dto.ConversionOutcome, error) {
	const op = "services.PremiumService.ConfirmConversion"

	cost, outcome, err := s.check(ctx, userID, days)
	if err != nil {
		return dto.ConversionOutcome{}, fmt.Errorf("%s: %w", op, err)
	}
	if outcome != nil {
		return *outcome, nil
	}

	profile, err := s.getProfile(ctx, userID)
	if err != nil {
		return dto.ConversionOutcome{}, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	startFrom := now
	if profile.PremiumActive(now) {
		startFrom = *profile.PremiumUntil
	}

	return s.commit(ctx, userID, days, cost, startFrom), nil
}

// check runs the validations shared by both entry points. A non-nil outcome
// is a terminal Failed result.
func (s *PremiumService) check(ctx context.Context, userID uuid.UUID, days int) (int, *dto.ConversionOutcome, error) {
	if userID == uuid.Nil {
		return 0, &dto.ConversionOutcome{State: dto.ConversionFailed, Reason: dto.ReasonUnauthenticated}, nil
	}

	cost, ok := catalog.ConversionCost(days)
	if !ok {
		return 0, &dto.ConversionOutcome{State: dto.ConversionFailed, Reason: dto.ReasonInvalidDuration}, nil
	}

	balance, err := s.coins.Balance(ctx, userID)
	if err != nil {
		return 0, nil, err
	}
	if balance < cost {
		return 0, &dto.ConversionOutcome{State: dto.ConversionFailed, Reason: dto.ReasonInsufficientBalance}, nil
	}

	return cost, nil, nil
}

// getProfile treats a missing profile row as "never premium".
func (s *PremiumService) getProfile(ctx context.Context, userID uuid.UUID) (models.Profile, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return models.Profile{UserID: userID}, nil
		}
		return models.Profile{}, err
	}
	return profile, nil
}

// commit writes the entitlement first, then debits the coins. A debit failure
// after the profile write leaves the entitlement granted; that is surfaced in
// the outcome so monitoring can pick it up.
func (s *PremiumService) commit(ctx context.Context, userID uuid.UUID, days, cost int, startFrom time.Time) dto.ConversionOutcome {
	const op = "services.PremiumService.commit"

	log := s.log.With(slog.String("op", op), slog.String("user_id", userID.String()), slog.Int("days", days))

	endDate := startFrom.Add(time.Duration(days) * 24 * time.Hour)

	if err := s.profiles.UpsertProfile(ctx, userID, true, &endDate); err != nil {
		log.Error("premium profile update failed", slog.String("error", err.Error()))
		return dto.ConversionOutcome{State: dto.ConversionFailed, Reason: dto.ReasonProfileUpdateFailed}
	}

	result, err := s.coins.DebitForPremium(ctx, userID, cost, days, endDate)
	if err != nil {
		log.Error("premium granted but coin debit failed", slog.String("error", err.Error()))
		return dto.ConversionOutcome{State: dto.ConversionFailed, Reason: dto.ReasonCoinDebitFailed, PremiumUntil: &endDate}
	}
	if !result.Allowed {
		log.Error("premium granted but coin debit denied", slog.String("reason", result.Reason))
		return dto.ConversionOutcome{State: dto.ConversionFailed, Reason: dto.ReasonCoinDebitFailed, PremiumUntil: &endDate}
	}

	log.Info("premium conversion committed", slog.Time("premium_until", endDate))

	return dto.ConversionOutcome{
		State:          dto.ConversionCommitted,
		PremiumUntil:   &endDate,
		LedgerRecorded: result.LedgerRecorded,
	}
}

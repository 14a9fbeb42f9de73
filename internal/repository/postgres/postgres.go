package postgres

import (
	"context"
	"ditoolz-coins/internal/domain/models"
	"ditoolz-coins/internal/repository"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"time"
)

type Storage struct {
	db *pgxpool.Pool
}

func NewPostgres(ctx context.Context, conn string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := pgxpool.New(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) SaveUser(ctx context.Context, username string, passHash []byte) error {
	const op = "storage.Postgres.SaveUser"

	sql, args, err := squirrel.Insert("users").
		Columns("username", "password").
		Values(username, passHash).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.db.Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%s: %w", op, repository.ErrUserAlreadyExists)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (string, []byte, error) {
	const op = "storage.Postgres.GetUserByUsername"

	var id string
	var password []byte

	sql, args, err := squirrel.Select("id", "password").
		From("users").
		Where(squirrel.Eq{"username": username}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	err = s.db.QueryRow(ctx, sql, args...).Scan(&id, &password)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil, fmt.Errorf("%s: %w", op, repository.ErrUserNotFound)
		}

		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, password, nil
}

func (s *Storage) GetCoinAccount(ctx context.Context, userID uuid.UUID) (models.CoinAccount, error) {
	const op = "storage.Postgres.GetCoinAccount"

	sql, args, err := squirrel.Select("user_id", "balance", "lifetime_earned", "last_ad_watch").
		From("coin_accounts").
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return models.CoinAccount{}, fmt.Errorf("%s: %w", op, err)
	}

	var acc models.CoinAccount
	err = s.db.QueryRow(ctx, sql, args...).Scan(&acc.UserID, &acc.Balance, &acc.LifetimeEarned, &acc.LastAdWatch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.CoinAccount{}, fmt.Errorf("%s: %w", op, repository.ErrAccountNotFound)
		}
		return models.CoinAccount{}, fmt.Errorf("%s: %w", op, err)
	}

	return acc, nil
}

func (s *Storage) CreateCoinAccount(ctx context.Context, userID uuid.UUID) error {
	const op = "storage.Postgres.CreateCoinAccount"

	sql, args, err := squirrel.Insert("coin_accounts").
		Columns("user_id", "balance", "lifetime_earned").
		Values(userID, 0, 0).
		Suffix("ON CONFLICT (user_id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SetCoinAccount writes an absolute new account state, guarded by a
// compare-and-swap on the previous balance. A concurrent writer that moved
// the balance first makes this call fail with ErrBalanceConflict instead of
// silently dropping their update.
func (s *Storage) SetCoinAccount(ctx context.Context, userID uuid.UUID, balance, lifetimeEarned int, lastAdWatch *time.Time, expectedBalance int) error {
	const op = "storage.Postgres.SetCoinAccount"

	sql, args, err := squirrel.Update("coin_accounts").
		Set("balance", balance).
		Set("lifetime_earned", lifetimeEarned).
		Set("last_ad_watch", lastAdWatch).
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Eq{"balance": expectedBalance}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	cmdTag, err := s.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrBalanceConflict)
	}

	return nil
}

func (s *Storage) InsertCoinTransaction(ctx context.Context, tx models.CoinTransaction) error {
	const op = "storage.Postgres.InsertCoinTransaction"

	meta := []byte("{}")
	if tx.Meta != nil {
		encoded, err := json.Marshal(tx.Meta)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		meta = encoded
	}

	sql, args, err := squirrel.Insert("coin_transactions").
		Columns("user_id", "amount", "transaction_type", "tool_used", "meta", "created_at").
		Values(tx.UserID, tx.Amount, tx.Type, tx.ToolUsed, meta, time.Now()).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) GetCoinTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]models.CoinTransaction, error) {
	const op = "storage.Postgres.GetCoinTransactions"

	if limit <= 0 {
		limit = 50
	}

	sql, args, err := squirrel.Select("id", "user_id", "amount", "transaction_type", "tool_used", "created_at").
		From("coin_transactions").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var txs []models.CoinTransaction
	for rows.Next() {
		var tx models.CoinTransaction
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Amount, &tx.Type, &tx.ToolUsed, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		txs = append(txs, tx)
	}

	return txs, nil
}

func (s *Storage) GetProfile(ctx context.Context, userID uuid.UUID) (models.Profile, error) {
	const op = "storage.Postgres.GetProfile"

	sql, args, err := squirrel.Select("user_id", "is_premium", "premium_until").
		From("profiles").
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return models.Profile{}, fmt.Errorf("%s: %w", op, err)
	}

	var profile models.Profile
	err = s.db.QueryRow(ctx, sql, args...).Scan(&profile.UserID, &profile.IsPremium, &profile.PremiumUntil)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Profile{}, fmt.Errorf("%s: %w", op, repository.ErrProfileNotFound)
		}
		return models.Profile{}, fmt.Errorf("%s: %w", op, err)
	}

	return profile, nil
}

func (s *Storage) UpsertProfile(ctx context.Context, userID uuid.UUID, isPremium bool, premiumUntil *time.Time) error {
	const op = "storage.Postgres.UpsertProfile"

	sql, args, err := squirrel.Insert("profiles").
		Columns("user_id", "is_premium", "premium_until").
		Values(userID, isPremium, premiumUntil).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET is_premium = EXCLUDED.is_premium, premium_until = EXCLUDED.premium_until").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) Close() error {
	s.db.Close()
	return nil
}

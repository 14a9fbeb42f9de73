package services

import (
	"context"
	"ditoolz-coins/internal/lib/jwt"
	"ditoolz-coins/internal/middlewares"
	"ditoolz-coins/internal/repository"
	"errors"
	"fmt"
	"golang.org/x/crypto/bcrypt"
	"log/slog"
)

type AuthService struct {
	log            *slog.Logger
	authRepository AuthRepository
	redis          RedisClient
	jwtGen         *jwt.Generator
}

type AuthRepository interface {
	SaveUser(ctx context.Context, login string, password []byte) error
	GetUserByUsername(ctx context.Context, username string) (string, []byte, error)
}

type RedisClient interface {
	StoreRefreshToken(ctx context.Context, userID, refreshToken string) error
}

var (
	ErrInvalidCredentials        = errors.New("invalid credentials")
	ErrUserAlreadyExists         = errors.New("user already exists")
	ErrFailedToGenerateTokens    = errors.New("failed to generate tokens")
	ErrFailedToStoreRefreshToken = errors.New("failed to store refresh token")
)

func NewAuthService(log *slog.Logger, authRepository AuthRepository, redis RedisClient,
	jwtGen *jwt.Generator) *AuthService {
	return &AuthService{
		log:            log,
		authRepository: authRepository,
		redis:          redis,
		jwtGen:         jwtGen,
	}
}

// Login authenticates a user, registering them on first sight.
func (s *AuthService) Login(ctx context.Context, username, password string) (accessToken string, refreshToken string,
	err error) {
	const op = "services.AuthService.Login"

	log := s.log.With(
		slog.String("op", op),
		slog.String("username", username),
	)

	if err := middlewares.CheckInput(username, password); err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	id, storedHash, err := s.authRepository.GetUserByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			log.Error("failed to look up user", slog.String("error", err.Error()))
			return "", "", fmt.Errorf("%s: %w", op, err)
		}

		log.Info("user not found, registering")

		passHash, hashErr := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if hashErr != nil {
			return "", "", fmt.Errorf("%s: %w", op, hashErr)
		}

		if err := s.authRepository.SaveUser(ctx, username, passHash); err != nil {
			if errors.Is(err, repository.ErrUserAlreadyExists) {
				return "", "", fmt.Errorf("%s: %w", op, ErrUserAlreadyExists)
			}
			return "", "", fmt.Errorf("%s: %w", op, err)
		}

		id, storedHash, err = s.authRepository.GetUserByUsername(ctx, username)
		if err != nil {
			return "", "", fmt.Errorf("%s: %w", op, err)
		}

		log.Info("user registered")
	}

	if err := bcrypt.CompareHashAndPassword(storedHash, []byte(password)); err != nil {
		log.Info("invalid credentials")
		return "", "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	accessToken, refreshToken, err = s.jwtGen.GeneratePair(id)
	if err != nil {
		log.Error("failed to generate tokens", slog.String("error", err.Error()))
		return "", "", fmt.Errorf("%s: %w", op, ErrFailedToGenerateTokens)
	}

	if err := s.redis.StoreRefreshToken(ctx, id, refreshToken); err != nil {
		log.Error("failed to store refresh token", slog.String("error", err.Error()))
		return "", "", fmt.Errorf("%s: %w", op, ErrFailedToStoreRefreshToken)
	}

	log.Info("user logged in")

	return accessToken, refreshToken, nil
}

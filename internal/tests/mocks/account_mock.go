package mocks

import (
	"context"
	"ditoolz-coins/internal/domain/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"time"
)

type AccountRepositoryMock struct {
	mock.Mock
}

func (m *AccountRepositoryMock) GetCoinAccount(ctx context.Context, userID uuid.UUID) (models.CoinAccount, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.CoinAccount), args.Error(1)
}

func (m *AccountRepositoryMock) CreateCoinAccount(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *AccountRepositoryMock) SetCoinAccount(ctx context.Context, userID uuid.UUID, balance, lifetimeEarned int, lastAdWatch *time.Time, expectedBalance int) error {
	args := m.Called(ctx, userID, balance, lifetimeEarned, lastAdWatch, expectedBalance)
	return args.Error(0)
}

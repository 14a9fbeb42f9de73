package mocks

import (
	"context"
	"ditoolz-coins/internal/domain/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"time"
)

type CoinDebiterMock struct {
	mock.Mock
}

func (m *CoinDebiterMock) Balance(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *CoinDebiterMock) DebitForPremium(ctx context.Context, userID uuid.UUID, cost, days int, endDate time.Time) (dto.MutationResult, error) {
	args := m.Called(ctx, userID, cost, days, endDate)
	return args.Get(0).(dto.MutationResult), args.Error(1)
}

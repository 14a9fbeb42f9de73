package mocks

import (
	"context"
	"ditoolz-coins/internal/domain/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type TransactionRecorderMock struct {
	mock.Mock
}

func (m *TransactionRecorderMock) InsertCoinTransaction(ctx context.Context, tx models.CoinTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *TransactionRecorderMock) GetCoinTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]models.CoinTransaction, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]models.CoinTransaction), args.Error(1)
}

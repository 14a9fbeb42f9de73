package mocks

import (
	"context"
	"ditoolz-coins/internal/domain/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"time"
)

type ProfileRepositoryMock struct {
	mock.Mock
}

func (m *ProfileRepositoryMock) GetProfile(ctx context.Context, userID uuid.UUID) (models.Profile, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.Profile), args.Error(1)
}

func (m *ProfileRepositoryMock) UpsertProfile(ctx context.Context, userID uuid.UUID, isPremium bool, premiumUntil *time.Time) error {
	args := m.Called(ctx, userID, isPremium, premiumUntil)
	return args.Error(0)
}

package mocks

import (
	"context"
	"ditoolz-coins/internal/domain/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type ToolSpenderMock struct {
	mock.Mock
}

func (m *ToolSpenderMock) SpendForTool(ctx context.Context, userID uuid.UUID, toolID string) (dto.MutationResult, error) {
	args := m.Called(ctx, userID, toolID)
	return args.Get(0).(dto.MutationResult), args.Error(1)
}

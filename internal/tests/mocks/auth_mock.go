package mocks

import (
	"context"
	"github.com/stretchr/testify/mock"
)

type AuthRepositoryMock struct {
	mock.Mock
}

func (m *AuthRepositoryMock) SaveUser(ctx context.Context, login string, password []byte) error {
	args := m.Called(ctx, login, password)
	return args.Error(0)
}

func (m *AuthRepositoryMock) GetUserByUsername(ctx context.Context, username string) (string, []byte, error) {
	args := m.Called(ctx, username)
	return args.String(0), args.Get(1).([]byte), args.Error(2)
}

package mocks

import (
	"context"

	"foldertoword/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Put(ctx context.Context, key string, rec model.SessionRecord) error {
	args := m.Called(ctx, key, rec)
	return args.Error(0)
}

func (m *MockSessionRepository) Get(ctx context.Context, key string) (*model.SessionRecord, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SessionRecord), args.Error(1)
}

package mocks

import (
	"context"

	"foldertoword/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockConversionService struct {
	mock.Mock
}

func (m *MockConversionService) Convert(ctx context.Context, archive []byte) (*service.ConversionResult, error) {
	args := m.Called(ctx, archive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ConversionResult), args.Error(1)
}

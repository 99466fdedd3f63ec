package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"foldertoword/internal/model"
	"foldertoword/internal/service"
)

type MockDocumentService struct {
	mock.Mock
}

var _ service.DocumentService = (*MockDocumentService)(nil)

func (m *MockDocumentService) Store(ctx context.Context, sessionKey string, res *service.ConversionResult) (*model.Document, error) {
	args := m.Called(ctx, sessionKey, res)
	doc, _ := args.Get(0).(*model.Document)
	return doc, args.Error(1)
}

func (m *MockDocumentService) Open(ctx context.Context, id, sessionKey string) (*service.Download, error) {
	args := m.Called(ctx, id, sessionKey)
	dl, _ := args.Get(0).(*service.Download)
	return dl, args.Error(1)
}

func (m *MockDocumentService) Ready(ctx context.Context, sessionKey string) (*model.SessionRecord, error) {
	args := m.Called(ctx, sessionKey)
	rec, _ := args.Get(0).(*model.SessionRecord)
	return rec, args.Error(1)
}

func (m *MockDocumentService) Reap(ctx context.Context, cutoff time.Time) (int, error) {
	args := m.Called(ctx, cutoff)
	return args.Int(0), args.Error(1)
}

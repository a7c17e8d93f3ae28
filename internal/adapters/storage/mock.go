package storage

import (
	"cloudinary-assets/internal/core/domain"
	"context"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func NewMockStorage() *MockStorage {
	return &MockStorage{}
}

func (m *MockStorage) Upload(ctx context.Context, upload domain.RemoteUpload) (*domain.RemoteAsset, error) {
	args := m.Called(ctx, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RemoteAsset), args.Error(1)
}

func (m *MockStorage) Destroy(ctx context.Context, publicID string) (domain.DestroyResult, error) {
	args := m.Called(ctx, publicID)
	return args.Get(0).(domain.DestroyResult), args.Error(1)
}

func (m *MockStorage) Exists(ctx context.Context, publicID string) (bool, error) {
	args := m.Called(ctx, publicID)
	return args.Bool(0), args.Error(1)
}

package asset

import (
	"cloudinary-assets/internal/core/domain"
	"context"

	"github.com/stretchr/testify/mock"
)

// MockAssetService is a mock implementation of AssetService
type MockAssetService struct {
	mock.Mock
}

// NewMockAssetService creates a new MockAssetService
func NewMockAssetService() *MockAssetService {
	return &MockAssetService{}
}

func (m *MockAssetService) Upload(ctx context.Context, req domain.UploadRequest) domain.UploadResult {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.UploadResult)
}

func (m *MockAssetService) UploadFile(ctx context.Context, req domain.UploadFileRequest) domain.UploadResult {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.UploadResult)
}

func (m *MockAssetService) DeleteAsset(ctx context.Context, publicID string) domain.DeleteResult {
	args := m.Called(ctx, publicID)
	return args.Get(0).(domain.DeleteResult)
}

func (m *MockAssetService) ListAssets(ctx context.Context, filter domain.ListFilter) ([]domain.Asset, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Asset), args.Error(1)
}

func (m *MockAssetService) GetAsset(ctx context.Context, publicID string) (*domain.Asset, error) {
	args := m.Called(ctx, publicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockAssetService) UpdateAsset(ctx context.Context, publicID string, req domain.UpdateAssetRequest) (*domain.Asset, error) {
	args := m.Called(ctx, publicID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockAssetService) Transform(ctx context.Context, publicID string, t domain.Transformation) (*domain.TransformResult, error) {
	args := m.Called(ctx, publicID, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransformResult), args.Error(1)
}

func (m *MockAssetService) GenerateUploadCredentials(ctx context.Context, req domain.CredentialsRequest) (*domain.UploadCredentials, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadCredentials), args.Error(1)
}

func (m *MockAssetService) FinalizeUpload(ctx context.Context, req domain.FinalizeRequest) (*domain.Asset, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockAssetService) UpdateUploadStatus(ctx context.Context, publicID string, status domain.AssetStatus, errorMessage string) (*domain.Asset, error) {
	args := m.Called(ctx, publicID, status, errorMessage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockAssetService) VerifyAsset(ctx context.Context, publicID string) (*domain.VerifyResult, error) {
	args := m.Called(ctx, publicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerifyResult), args.Error(1)
}

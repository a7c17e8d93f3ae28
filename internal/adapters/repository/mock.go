package repository

import (
	"cloudinary-assets/internal/core/domain"
	"cloudinary-assets/internal/core/port"
	"context"

	"github.com/stretchr/testify/mock"
)

type MockAssetRepository struct {
	mock.Mock
}

func NewMockAssetRepository() *MockAssetRepository {
	return &MockAssetRepository{}
}

func (m *MockAssetRepository) Create(ctx context.Context, asset domain.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockAssetRepository) FindByPublicID(ctx context.Context, publicID string) (*domain.Asset, error) {
	args := m.Called(ctx, publicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) FindByPublicIDForUpdate(ctx context.Context, publicID string) (*domain.Asset, error) {
	args := m.Called(ctx, publicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Asset, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) Update(ctx context.Context, asset domain.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockAssetRepository) UpdateStatus(ctx context.Context, publicID string, status domain.AssetStatus, errorMessage *string) error {
	args := m.Called(ctx, publicID, status, errorMessage)
	return args.Error(0)
}

func (m *MockAssetRepository) DeleteByPublicID(ctx context.Context, publicID string) error {
	args := m.Called(ctx, publicID)
	return args.Error(0)
}

type MockUnitOfWork struct {
	mock.Mock
	assetRepo *MockAssetRepository
}

func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		assetRepo: &MockAssetRepository{},
	}
}

func (m *MockUnitOfWork) AssetRepo() port.AssetRepository {
	return m.assetRepo
}

func (m *MockUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	args := m.Called(ctx, fn)

	if err := fn(m); err != nil {
		return err
	}

	return args.Error(0)
}

func (m *MockUnitOfWork) GetAssetRepoMock() *MockAssetRepository {
	return m.assetRepo
}

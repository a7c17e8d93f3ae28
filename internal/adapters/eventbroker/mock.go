package eventbroker

import (
	"cloudinary-assets/internal/core/domain"
	"context"

	"github.com/stretchr/testify/mock"
)

type MockPublisher struct {
	mock.Mock
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, event domain.AssetEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

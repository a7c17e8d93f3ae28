package asset_test

import (
	"cloudinary-assets/internal/core/domain"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAssetService_UpdateUploadStatus(t *testing.T) {
	allowed := []struct {
		from domain.AssetStatus
		to   domain.AssetStatus
	}{
		{from: domain.AssetStatusPending, to: domain.AssetStatusUploading},
		{from: domain.AssetStatusUploading, to: domain.AssetStatusCompleted},
		{from: domain.AssetStatusUploading, to: domain.AssetStatusFailed},
		{from: domain.AssetStatusFailed, to: domain.AssetStatusPending},
	}
	for _, tt := range allowed {
		t.Run(string(tt.from)+" to "+string(tt.to), func(t *testing.T) {
			// Arrange
			f := newFixture(t)
			ctx := context.Background()
			f.repo.On("FindByPublicIDForUpdate", ctx, "sample").Return(&domain.Asset{PublicID: "sample", Status: tt.from}, nil)
			f.repo.On("UpdateStatus", ctx, "sample", tt.to, (*string)(nil)).Return(nil)

			// Act
			updated, err := f.service.UpdateUploadStatus(ctx, "sample", tt.to, "")

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.to, updated.Status)
			f.repo.AssertExpectations(t)
			f.assertPublished(t, domain.AssetEventStatusChanged, "sample")
		})
	}

	rejected := []struct {
		from domain.AssetStatus
		to   domain.AssetStatus
	}{
		{from: domain.AssetStatusCompleted, to: domain.AssetStatusPending},
		{from: domain.AssetStatusCompleted, to: domain.AssetStatusFailed},
		{from: domain.AssetStatusFailed, to: domain.AssetStatusCompleted},
		{from: domain.AssetStatusUploading, to: domain.AssetStatusPending},
	}
	for _, tt := range rejected {
		t.Run("rejects "+string(tt.from)+" to "+string(tt.to), func(t *testing.T) {
			// Arrange
			f := newFixture(t)
			ctx := context.Background()
			f.repo.On("FindByPublicIDForUpdate", ctx, "sample").Return(&domain.Asset{PublicID: "sample", Status: tt.from}, nil)

			// Act
			updated, err := f.service.UpdateUploadStatus(ctx, "sample", tt.to, "")

			// Assert
			assert.Nil(t, updated)
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
			f.repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("failure message is stored", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		ctx := context.Background()
		f.repo.On("FindByPublicIDForUpdate", ctx, "sample").Return(&domain.Asset{PublicID: "sample", Status: domain.AssetStatusUploading}, nil)
		f.repo.On("UpdateStatus", ctx, "sample", domain.AssetStatusFailed, mock.MatchedBy(func(m *string) bool {
			return m != nil && *m == "network error"
		})).Return(nil)

		// Act
		updated, err := f.service.UpdateUploadStatus(ctx, "sample", domain.AssetStatusFailed, "network error")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "network error", *updated.ErrorMessage)
	})

	t.Run("unknown status", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		_, err := f.service.UpdateUploadStatus(context.Background(), "sample", "done", "")

		// Assert
		assert.ErrorIs(t, err, domain.ErrValidation)
		f.uow.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
	})

	t.Run("unknown asset", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		ctx := context.Background()
		f.repo.On("FindByPublicIDForUpdate", ctx, "missing").Return(nil, domain.ErrAssetNotFound)

		// Act
		_, err := f.service.UpdateUploadStatus(ctx, "missing", domain.AssetStatusUploading, "")

		// Assert
		assert.ErrorIs(t, err, domain.ErrAssetNotFound)
	})
}

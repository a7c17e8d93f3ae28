package asset

import (
	"cloudinary-assets/internal/core/domain"
	"cloudinary-assets/internal/core/port"
	"context"
	"fmt"
)

// UpdateUploadStatus advances the upload status of an asset.
// errorMessage is only kept for the failed status.
func (s *assetService) UpdateUploadStatus(ctx context.Context, publicID string, status domain.AssetStatus, errorMessage string) (*domain.Asset, error) {
	if err := validatePublicID(publicID); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, domain.NewValidationError("status", "status must be one of pending, uploading, completed, failed, got %q", status)
	}

	var message *string
	if status == domain.AssetStatusFailed && errorMessage != "" {
		message = &errorMessage
	}

	var updated domain.Asset
	txErr := s.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		asset, err := uow.AssetRepo().FindByPublicIDForUpdate(ctx, publicID)
		if err != nil {
			return err
		}
		if !asset.Status.CanTransitionTo(status) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, asset.Status, status)
		}
		if err := uow.AssetRepo().UpdateStatus(ctx, publicID, status, message); err != nil {
			return err
		}
		updated = *asset
		updated.Status = status
		updated.ErrorMessage = message
		updated.UpdatedAt = s.now().UTC()
		return nil
	})
	if txErr != nil {
		return nil, fmt.Errorf("failed to update status of %s: %w", publicID, txErr)
	}

	s.publish(ctx, domain.AssetEventStatusChanged, updated)
	return &updated, nil
}

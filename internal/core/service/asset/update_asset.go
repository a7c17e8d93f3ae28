package asset

import (
	"cloudinary-assets/internal/core/domain"
	"cloudinary-assets/internal/core/port"
	"context"
	"fmt"
)

// UpdateAsset replaces tags and/or metadata, nothing else is mutable
func (s *assetService) UpdateAsset(ctx context.Context, publicID string, req domain.UpdateAssetRequest) (*domain.Asset, error) {
	if err := validatePublicID(publicID); err != nil {
		return nil, err
	}
	if req.Tags == nil && req.Metadata == nil {
		return nil, domain.NewValidationError("body", "at least one of tags or metadata must be provided")
	}
	if err := validateTags(req.Tags); err != nil {
		return nil, err
	}

	var updated domain.Asset
	txErr := s.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		asset, err := uow.AssetRepo().FindByPublicIDForUpdate(ctx, publicID)
		if err != nil {
			return err
		}
		if req.Tags != nil {
			asset.Tags = req.Tags
		}
		if req.Metadata != nil {
			asset.Metadata = req.Metadata
		}
		asset.UpdatedAt = s.now().UTC()
		if err := uow.AssetRepo().Update(ctx, *asset); err != nil {
			return err
		}
		updated = *asset
		return nil
	})
	if txErr != nil {
		return nil, fmt.Errorf("failed to update asset %s: %w", publicID, txErr)
	}

	s.publish(ctx, domain.AssetEventUpdated, updated)
	return &updated, nil
}

package asset

import (
	"cloudinary-assets/internal/core/domain"
	"context"
	"errors"
	"fmt"
)

// GetAsset returns nil without error when the asset does not exist
func (s *assetService) GetAsset(ctx context.Context, publicID string) (*domain.Asset, error) {
	if err := validatePublicID(publicID); err != nil {
		return nil, err
	}

	asset, err := s.uow.AssetRepo().FindByPublicID(ctx, publicID)
	if errors.Is(err, domain.ErrAssetNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset %s: %w", publicID, err)
	}
	return asset, nil
}

package asset

import (
	"cloudinary-assets/internal/core/domain"
	"context"
	"fmt"
)

// ListAssets lists local asset records, newest first
func (s *assetService) ListAssets(ctx context.Context, filter domain.ListFilter) ([]domain.Asset, error) {
	if filter.Limit < 0 || filter.Limit > maxListLimit {
		return nil, domain.NewValidationError("limit", "limit must be between 1 and %d, got %d", maxListLimit, filter.Limit)
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.NewValidationError("status", "unknown status %q", filter.Status)
	}
	if err := validateFolder(filter.Folder); err != nil {
		return nil, err
	}
	if filter.Tag != "" {
		if err := validateTags([]string{filter.Tag}); err != nil {
			return nil, err
		}
	}

	assets, err := s.uow.AssetRepo().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return assets, nil
}

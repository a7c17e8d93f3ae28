package asset

import (
	"cloudinary-assets/internal/core/domain"
	"context"
	"errors"
	"fmt"
)

// DeleteAsset destroys the remote image, then removes the local record
func (s *assetService) DeleteAsset(ctx context.Context, publicID string) domain.DeleteResult {
	if err := validatePublicID(publicID); err != nil {
		return domain.DeleteFailed(err)
	}

	result, err := s.storage.Destroy(ctx, publicID)
	if err != nil {
		return domain.DeleteFailed(fmt.Errorf("failed to delete asset from cloudinary: %w", err))
	}
	if result == domain.DestroyResultNotFound {
		s.logger.WarnContext(ctx, "asset already missing from cloudinary", "public_id", publicID)
	}

	err = s.uow.AssetRepo().DeleteByPublicID(ctx, publicID)
	switch {
	case errors.Is(err, domain.ErrAssetNotFound) && result == domain.DestroyResultNotFound:
		return domain.DeleteFailed(fmt.Errorf("%w: %s", domain.ErrAssetNotFound, publicID))
	case errors.Is(err, domain.ErrAssetNotFound):
		s.logger.WarnContext(ctx, "deleted remote asset had no local record", "public_id", publicID)
	case err != nil:
		return domain.DeleteFailed(fmt.Errorf("failed to delete asset record: %w", err))
	}

	s.publish(ctx, domain.AssetEventDeleted, domain.Asset{PublicID: publicID})
	return domain.DeleteResult{Success: true}
}

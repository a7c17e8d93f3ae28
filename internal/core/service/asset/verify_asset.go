package asset

import (
	"cloudinary-assets/internal/core/domain"
	"context"
	"fmt"
)

// VerifyAsset checks a completed asset still exists remotely and drops the local record when it does not
func (s *assetService) VerifyAsset(ctx context.Context, publicID string) (*domain.VerifyResult, error) {
	if err := validatePublicID(publicID); err != nil {
		return nil, err
	}

	asset, err := s.uow.AssetRepo().FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify asset %s: %w", publicID, err)
	}

	exists, err := s.storage.Exists(ctx, publicID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify asset %s: %w", publicID, err)
	}

	result := &domain.VerifyResult{PublicID: publicID, Exists: exists}
	if exists || asset.Status != domain.AssetStatusCompleted {
		return result, nil
	}

	if err := s.uow.AssetRepo().DeleteByPublicID(ctx, publicID); err != nil {
		return nil, fmt.Errorf("failed to remove stale asset %s: %w", publicID, err)
	}
	result.Removed = true

	s.logger.InfoContext(ctx, "removed stale asset record", "public_id", publicID)
	s.publish(ctx, domain.AssetEventDeleted, *asset)
	return result, nil
}

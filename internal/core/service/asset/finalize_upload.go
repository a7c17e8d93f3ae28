package asset

import (
	"cloudinary-assets/internal/core/domain"
	"context"
	"fmt"

	"github.com/google/uuid"
)

// FinalizeUpload mirrors a direct browser upload locally once cloudinary accepted it.
// The cloudinary response signature is required unless remote verification is enabled.
func (s *assetService) FinalizeUpload(ctx context.Context, req domain.FinalizeRequest) (*domain.Asset, error) {
	if err := validatePublicID(req.PublicID); err != nil {
		return nil, err
	}
	if req.SecureURL == "" {
		return nil, domain.NewValidationError("secureUrl", "secureUrl is required")
	}
	if err := validateFolder(req.Folder); err != nil {
		return nil, err
	}
	if err := validateTags(req.Tags); err != nil {
		return nil, err
	}

	// an unsigned request is only trusted once the admin api confirmed the asset
	switch {
	case req.Signature != "":
		if !s.signer.VerifyResponse(req.PublicID, req.Version, req.Signature) {
			return nil, fmt.Errorf("%w: finalize request for %s", domain.ErrSignatureMismatch, req.PublicID)
		}
	case !s.cfg.VerifyOnFinalize:
		return nil, fmt.Errorf("%w: finalize request for %s is unsigned", domain.ErrSignatureMismatch, req.PublicID)
	}

	if s.cfg.VerifyOnFinalize {
		exists, err := s.storage.Exists(ctx, req.PublicID)
		if err != nil {
			return nil, fmt.Errorf("failed to verify asset %s: %w", req.PublicID, err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: %s", domain.ErrRemoteAssetMissing, req.PublicID)
		}
	}

	stored, err := s.mirror(ctx, s.assetFromFinalize(req), func(existing domain.Asset) error {
		if existing.Status == domain.AssetStatusCompleted || existing.Status.CanTransitionTo(domain.AssetStatusCompleted) {
			return nil
		}
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, existing.Status, domain.AssetStatusCompleted)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to finalize asset %s: %w", req.PublicID, err)
	}

	s.logger.InfoContext(ctx, "direct upload finalized", "public_id", stored.PublicID)
	s.publish(ctx, domain.AssetEventFinalized, *stored)
	return stored, nil
}

func (s *assetService) assetFromFinalize(req domain.FinalizeRequest) domain.Asset {
	now := s.now().UTC()
	asset := domain.Asset{
		ID:            uuid.New(),
		PublicID:      req.PublicID,
		CloudinaryURL: req.URL,
		SecureURL:     req.SecureURL,
		Format:        req.Format,
		Width:         req.Width,
		Height:        req.Height,
		Bytes:         req.Bytes,
		Folder:        req.Folder,
		Tags:          req.Tags,
		Metadata:      req.Metadata,
		Status:        domain.AssetStatusCompleted,
		UploadedAt:    now,
		UpdatedAt:     now,
	}
	if req.OriginalFilename != "" {
		name := req.OriginalFilename
		asset.OriginalFilename = &name
	}
	if req.UserID != "" {
		user := req.UserID
		asset.UserID = &user
	}
	if req.Version > 0 && asset.CloudinaryURL == "" {
		asset.CloudinaryURL = s.versionedURL(false, req.Version, req.PublicID, req.Format)
	}
	return asset
}

func (s *assetService) versionedURL(secure bool, version int64, publicID string, format string) string {
	url := fmt.Sprintf("%s/%s/image/upload/v%d/%s", s.cfg.DeliveryURL(secure), s.cfg.CloudName, version, publicID)
	if format != "" {
		url += "." + format
	}
	return url
}

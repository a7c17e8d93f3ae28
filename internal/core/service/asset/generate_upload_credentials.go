package asset

import (
	"cloudinary-assets/internal/core/domain"
	"cloudinary-assets/internal/core/port"
	"cloudinary-assets/internal/core/transformation"
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// GenerateUploadCredentials signs the whitelisted parameters of one direct browser upload.
// api_key is never signed but is returned so the browser can submit it with the signature.
// A requested public id is reserved under the folder qualified id cloudinary will answer with.
func (s *assetService) GenerateUploadCredentials(ctx context.Context, req domain.CredentialsRequest) (*domain.UploadCredentials, error) {
	if err := validateFolder(req.Folder); err != nil {
		return nil, err
	}
	if err := validateTags(req.Tags); err != nil {
		return nil, err
	}
	if req.PublicID != "" {
		if err := validatePublicID(req.PublicID); err != nil {
			return nil, err
		}
	}
	if req.Transformation != nil {
		if err := transformation.Validate(*req.Transformation); err != nil {
			return nil, err
		}
	}

	params := s.uploadParams(req.Folder, req.Tags, req.PublicID, req.Transformation)
	signed, err := s.signer.Sign(params)
	if err != nil {
		return nil, err
	}

	publicID := s.effectivePublicID(req.Folder, req.PublicID)
	if publicID != "" {
		if err := s.reservePlaceholder(ctx, publicID, req); err != nil {
			return nil, err
		}
	}

	uploadParams := make(map[string]string, len(params)+3)
	for k, v := range params {
		uploadParams[k] = v
	}
	uploadParams["api_key"] = s.cfg.APIKey
	uploadParams["timestamp"] = strconv.FormatInt(signed.Timestamp, 10)
	uploadParams["signature"] = signed.Signature

	return &domain.UploadCredentials{
		PublicID:     publicID,
		UploadURL:    s.cfg.UploadURL(),
		UploadParams: uploadParams,
	}, nil
}

// reservePlaceholder records a pending asset so the browser can report progress before finalize
func (s *assetService) reservePlaceholder(ctx context.Context, publicID string, req domain.CredentialsRequest) error {
	var placeholder domain.Asset

	txErr := s.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		existing, err := uow.AssetRepo().FindByPublicIDForUpdate(ctx, publicID)
		if errors.Is(err, domain.ErrAssetNotFound) {
			now := s.now().UTC()
			placeholder = domain.Asset{
				ID:         uuid.New(),
				PublicID:   publicID,
				Folder:     s.defaultFolder(req.Folder),
				Tags:       req.Tags,
				Status:     domain.AssetStatusPending,
				UploadedAt: now,
				UpdatedAt:  now,
			}
			if req.UserID != "" {
				user := req.UserID
				placeholder.UserID = &user
			}
			if req.Transformation != nil && !transformation.IsEmpty(*req.Transformation) {
				placeholder.Transformations = []string{transformation.Encode(*req.Transformation)}
			}
			return uow.AssetRepo().Create(ctx, placeholder)
		}
		if err != nil {
			return err
		}

		switch existing.Status {
		case domain.AssetStatusPending:
			placeholder = *existing
			return nil
		case domain.AssetStatusFailed:
			if err := uow.AssetRepo().UpdateStatus(ctx, publicID, domain.AssetStatusPending, nil); err != nil {
				return err
			}
			placeholder = *existing
			placeholder.Status = domain.AssetStatusPending
			placeholder.ErrorMessage = nil
			return nil
		case domain.AssetStatusCompleted:
			return fmt.Errorf("%w: asset %s is already uploaded", domain.ErrAlreadyExists, publicID)
		default:
			return fmt.Errorf("%w: asset %s is %s", domain.ErrInvalidTransition, publicID, existing.Status)
		}
	})
	if txErr != nil {
		return fmt.Errorf("failed to reserve asset %s: %w", publicID, txErr)
	}

	s.publish(ctx, domain.AssetEventStatusChanged, placeholder)
	return nil
}

package asset

import (
	"cloudinary-assets/internal/config"
	"cloudinary-assets/internal/core/domain"
	"cloudinary-assets/internal/core/port"
	"cloudinary-assets/internal/core/signature"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

type assetService struct {
	uow       port.UnitOfWork
	storage   port.AssetStorage
	publisher port.EventPublisher
	signer    *signature.Signer
	cfg       config.CloudinaryConfig
	uploadCfg config.UploadConfig
	logger    *slog.Logger
	now       func() time.Time
}

// NewAssetService creates a new asset service, it fails fast on missing cloudinary credentials
func NewAssetService(
	uow port.UnitOfWork,
	storage port.AssetStorage,
	publisher port.EventPublisher,
	cfg config.CloudinaryConfig,
	uploadCfg config.UploadConfig,
	logger *slog.Logger,
) (port.AssetService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	signer, err := signature.NewSigner(cfg.APISecret, cfg.SignatureAlgorithm)
	if err != nil {
		return nil, err
	}
	if uploadCfg.MaxFileSize <= 0 {
		return nil, fmt.Errorf("upload max file size must be positive, got %d", uploadCfg.MaxFileSize)
	}

	return &assetService{
		uow:       uow,
		storage:   storage,
		publisher: publisher,
		signer:    signer,
		cfg:       cfg,
		uploadCfg: uploadCfg,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// publish is best effort, the mutation already happened
func (s *assetService) publish(ctx context.Context, eventType domain.AssetEventType, asset domain.Asset) {
	event := domain.NewAssetEvent(eventType, asset, s.now().UTC())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish asset event", "type", eventType, "public_id", asset.PublicID, "error", err)
	}
}

// mirror creates the local record or merges remote data into an existing one.
// allow decides whether an existing record may be overwritten.
func (s *assetService) mirror(ctx context.Context, incoming domain.Asset, allow func(existing domain.Asset) error) (*domain.Asset, error) {
	var stored domain.Asset

	txErr := s.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		existing, err := uow.AssetRepo().FindByPublicIDForUpdate(ctx, incoming.PublicID)
		if errors.Is(err, domain.ErrAssetNotFound) {
			stored = incoming
			return uow.AssetRepo().Create(ctx, stored)
		}
		if err != nil {
			return err
		}

		if allow != nil {
			if err := allow(*existing); err != nil {
				return err
			}
		}

		stored = mergeInto(*existing, incoming)
		return uow.AssetRepo().Update(ctx, stored)
	})
	if txErr != nil {
		return nil, txErr
	}
	return &stored, nil
}

// mergeInto keeps the identity of existing and takes everything the remote reported from incoming
func mergeInto(existing domain.Asset, incoming domain.Asset) domain.Asset {
	merged := incoming
	merged.ID = existing.ID
	merged.UploadedAt = existing.UploadedAt
	if merged.Folder == "" {
		merged.Folder = existing.Folder
	}
	if len(merged.Tags) == 0 {
		merged.Tags = existing.Tags
	}
	if merged.Metadata == nil {
		merged.Metadata = existing.Metadata
	}
	if len(merged.Transformations) == 0 {
		merged.Transformations = existing.Transformations
	}
	if merged.UserID == nil {
		merged.UserID = existing.UserID
	}
	return merged
}

func (s *assetService) defaultFolder(folder string) string {
	if folder == "" {
		return s.uploadCfg.DefaultFolder
	}
	return folder
}

// effectivePublicID is the public id cloudinary assigns when both a folder and a public id are signed
func (s *assetService) effectivePublicID(folder, publicID string) string {
	if publicID == "" {
		return ""
	}
	if folder := s.defaultFolder(folder); folder != "" {
		return folder + "/" + publicID
	}
	return publicID
}

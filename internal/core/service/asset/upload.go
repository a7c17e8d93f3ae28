package asset

import (
	"cloudinary-assets/internal/core/domain"
	"cloudinary-assets/internal/core/transformation"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Upload uploads a base64 data URI through the server
func (s *assetService) Upload(ctx context.Context, req domain.UploadRequest) domain.UploadResult {
	mimeType, content, err := parseDataURI(req.FileData)
	if err != nil {
		return domain.UploadFailed(err)
	}
	if err := validateOptions(req.UploadOptions); err != nil {
		return domain.UploadFailed(err)
	}
	if req.Filename != "" {
		if err := validateFilename(req.Filename); err != nil {
			return domain.UploadFailed(err)
		}
	}
	if _, err := s.checkContent(mimeType, content); err != nil {
		return domain.UploadFailed(err)
	}

	return s.upload(ctx, domain.RemoteUpload{
		DataURI:  req.FileData,
		Filename: req.Filename,
	}, req.UploadOptions, req.Filename)
}

// UploadFile uploads raw file bytes through the server
func (s *assetService) UploadFile(ctx context.Context, req domain.UploadFileRequest) domain.UploadResult {
	if len(req.Content) == 0 {
		return domain.UploadFailed(domain.NewValidationError("file", "file is empty").WithKind(domain.ErrInvalidFileData))
	}
	if err := validateFilename(req.Filename); err != nil {
		return domain.UploadFailed(err)
	}
	if err := validateOptions(req.UploadOptions); err != nil {
		return domain.UploadFailed(err)
	}
	if _, err := s.checkContent("", req.Content); err != nil {
		return domain.UploadFailed(err)
	}

	return s.upload(ctx, domain.RemoteUpload{
		Content:  req.Content,
		Filename: req.Filename,
	}, req.UploadOptions, req.Filename)
}

// uploadParams are the whitelisted, signed parameters of a remote upload
func (s *assetService) uploadParams(folder string, tags []string, publicID string, t *domain.Transformation) map[string]string {
	params := map[string]string{}
	if folder := s.defaultFolder(folder); folder != "" {
		params["folder"] = folder
	}
	if len(tags) > 0 {
		params["tags"] = strings.Join(tags, ",")
	}
	if publicID != "" {
		params["public_id"] = publicID
	}
	if t != nil && !transformation.IsEmpty(*t) {
		params["transformation"] = transformation.Encode(*t)
	}
	return params
}

func (s *assetService) upload(ctx context.Context, remoteUpload domain.RemoteUpload, opts domain.UploadOptions, filename string) domain.UploadResult {
	remoteUpload.Params = s.uploadParams(opts.Folder, opts.Tags, opts.PublicID, opts.Transformation)

	remote, err := s.storage.Upload(ctx, remoteUpload)
	if err != nil {
		return domain.UploadFailed(fmt.Errorf("failed to upload asset: %w", err))
	}

	if remote.Signature != "" && !s.signer.VerifyResponse(remote.PublicID, remote.Version, remote.Signature) {
		s.compensate(ctx, remote.PublicID)
		return domain.UploadFailed(fmt.Errorf("%w: upload response for %s", domain.ErrSignatureMismatch, remote.PublicID))
	}

	asset := s.assetFromRemote(remote, opts, filename)
	stored, err := s.mirror(ctx, asset, nil)
	if err != nil {
		s.compensate(ctx, remote.PublicID)
		return domain.UploadFailed(fmt.Errorf("failed to save asset %s: %w", remote.PublicID, err))
	}

	s.logger.InfoContext(ctx, "asset uploaded", "public_id", stored.PublicID, "bytes", remote.Bytes)
	s.publish(ctx, domain.AssetEventUploaded, *stored)

	return domain.UploadResult{Success: true, Asset: stored}
}

// compensate removes a remote image whose local record could not be written
func (s *assetService) compensate(ctx context.Context, publicID string) {
	if _, err := s.storage.Destroy(ctx, publicID); err != nil {
		s.logger.ErrorContext(ctx, "failed to remove orphaned remote asset", "public_id", publicID, "error", err)
	}
}

func (s *assetService) assetFromRemote(remote *domain.RemoteAsset, opts domain.UploadOptions, filename string) domain.Asset {
	now := s.now().UTC()
	asset := domain.Asset{
		ID:            uuid.New(),
		PublicID:      remote.PublicID,
		CloudinaryURL: remote.URL,
		SecureURL:     remote.SecureURL,
		Format:        remote.Format,
		Folder:        s.defaultFolder(opts.Folder),
		Tags:          remote.Tags,
		Metadata:      opts.Metadata,
		Status:        domain.AssetStatusCompleted,
		UploadedAt:    now,
		UpdatedAt:     now,
	}
	if asset.Tags == nil {
		asset.Tags = opts.Tags
	}
	if remote.Width > 0 {
		asset.Width = domain.IntPtr(remote.Width)
	}
	if remote.Height > 0 {
		asset.Height = domain.IntPtr(remote.Height)
	}
	if remote.Bytes > 0 {
		size := remote.Bytes
		asset.Bytes = &size
	}
	switch {
	case filename != "":
		asset.OriginalFilename = &filename
	case remote.OriginalFilename != "":
		name := remote.OriginalFilename
		asset.OriginalFilename = &name
	}
	if opts.UserID != "" {
		user := opts.UserID
		asset.UserID = &user
	}
	if opts.Transformation != nil && !transformation.IsEmpty(*opts.Transformation) {
		asset.Transformations = []string{transformation.Encode(*opts.Transformation)}
	}
	return asset
}

package port

import (
	"cloudinary-assets/internal/core/domain"
	"context"
)

// AssetRepository is an interface to define asset record interactions
type AssetRepository interface {
	Create(ctx context.Context, asset domain.Asset) error
	FindByPublicID(ctx context.Context, publicID string) (*domain.Asset, error)
	FindByPublicIDForUpdate(ctx context.Context, publicID string) (*domain.Asset, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Asset, error)
	Update(ctx context.Context, asset domain.Asset) error
	UpdateStatus(ctx context.Context, publicID string, status domain.AssetStatus, errorMessage *string) error
	DeleteByPublicID(ctx context.Context, publicID string) error
}

// AssetStorage is an interface to define remote image store interactions
type AssetStorage interface {
	Upload(ctx context.Context, upload domain.RemoteUpload) (*domain.RemoteAsset, error)
	Destroy(ctx context.Context, publicID string) (domain.DestroyResult, error)
	Exists(ctx context.Context, publicID string) (bool, error)
}

// AssetService is an interface to define the asset use cases.
// Upload, UploadFile and DeleteAsset report failures in their result, the others return errors.
type AssetService interface {
	Upload(ctx context.Context, req domain.UploadRequest) domain.UploadResult
	UploadFile(ctx context.Context, req domain.UploadFileRequest) domain.UploadResult
	DeleteAsset(ctx context.Context, publicID string) domain.DeleteResult
	ListAssets(ctx context.Context, filter domain.ListFilter) ([]domain.Asset, error)
	GetAsset(ctx context.Context, publicID string) (*domain.Asset, error)
	UpdateAsset(ctx context.Context, publicID string, req domain.UpdateAssetRequest) (*domain.Asset, error)
	Transform(ctx context.Context, publicID string, t domain.Transformation) (*domain.TransformResult, error)
	GenerateUploadCredentials(ctx context.Context, req domain.CredentialsRequest) (*domain.UploadCredentials, error)
	FinalizeUpload(ctx context.Context, req domain.FinalizeRequest) (*domain.Asset, error)
	UpdateUploadStatus(ctx context.Context, publicID string, status domain.AssetStatus, errorMessage string) (*domain.Asset, error)
	VerifyAsset(ctx context.Context, publicID string) (*domain.VerifyResult, error)
}

package asset_test

import (
	"cloudinary-assets/internal/config"
	"cloudinary-assets/internal/core/domain"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleRemoteAsset() *domain.RemoteAsset {
	return &domain.RemoteAsset{
		PublicID:  "sample",
		Version:   sampleVersion,
		Signature: sampleSignature,
		URL:       "http://res.cloudinary.com/demo/image/upload/v1312461204/sample.png",
		SecureURL: "https://res.cloudinary.com/demo/image/upload/v1312461204/sample.png",
		Format:    "png",
		Width:     1,
		Height:    1,
		Bytes:     int64(len(pngBytes)),
		Tags:      []string{"a", "b"},
	}
}

func TestAssetService_Upload_MalformedPayload(t *testing.T) {
	tests := []struct {
		name     string
		fileData string
	}{
		{name: "no prefix", fileData: base64.StdEncoding.EncodeToString(pngBytes)},
		{name: "missing base64 marker", fileData: "data:image/png," + base64.StdEncoding.EncodeToString(pngBytes)},
		{name: "not base64", fileData: "data:image/png;base64,***"},
		{name: "empty", fileData: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := newFixture(t)

			// Act
			result := f.service.Upload(context.Background(), domain.UploadRequest{FileData: tt.fileData})

			// Assert
			assert.False(t, result.Success)
			assert.Nil(t, result.Asset)
			assert.True(t, strings.HasPrefix(result.Error, "Invalid file data format"))
			assert.ErrorIs(t, result.Err, domain.ErrInvalidFileData)
			assert.ErrorIs(t, result.Err, domain.ErrValidation)
			f.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
		})
	}
}

func TestAssetService_Upload_RejectedBeforeNetwork(t *testing.T) {
	tests := []struct {
		name    string
		req     domain.UploadRequest
		kind    error
		message string
	}{
		{
			name:    "mime type not allowed",
			req:     domain.UploadRequest{FileData: "data:application/pdf;base64," + base64.StdEncoding.EncodeToString([]byte("%PDF-1.4"))},
			kind:    domain.ErrUnsupportedMimeType,
			message: "unsupported MIME type",
		},
		{
			name:    "declared type does not match content",
			req:     domain.UploadRequest{FileData: "data:image/png;base64," + base64.StdEncoding.EncodeToString(jpegBytes)},
			kind:    domain.ErrUnsupportedMimeType,
			message: "does not match",
		},
		{
			name:    "too large",
			req:     domain.UploadRequest{FileData: "data:image/png;base64," + base64.StdEncoding.EncodeToString(append(append([]byte{}, pngBytes...), make([]byte, 2048)...))},
			kind:    domain.ErrFileTooLarge,
			message: "exceeds the maximum",
		},
		{
			name: "invalid transformation",
			req: domain.UploadRequest{FileData: pngDataURI(), UploadOptions: domain.UploadOptions{
				Transformation: &domain.Transformation{Width: domain.IntPtr(5000)},
			}},
			kind:    domain.ErrValidation,
			message: "width must be between 1 and 4000",
		},
		{
			name:    "invalid folder",
			req:     domain.UploadRequest{FileData: pngDataURI(), UploadOptions: domain.UploadOptions{Folder: "../etc"}},
			kind:    domain.ErrValidation,
			message: "folder",
		},
		{
			name:    "invalid tag",
			req:     domain.UploadRequest{FileData: pngDataURI(), UploadOptions: domain.UploadOptions{Tags: []string{"ok", "<script>"}}},
			kind:    domain.ErrValidation,
			message: "unsupported characters",
		},
		{
			name:    "invalid filename",
			req:     domain.UploadRequest{FileData: pngDataURI(), Filename: "image.exe"},
			kind:    domain.ErrUnsupportedMimeType,
			message: "extension .exe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := newFixture(t)

			// Act
			result := f.service.Upload(context.Background(), tt.req)

			// Assert
			assert.False(t, result.Success)
			assert.ErrorIs(t, result.Err, tt.kind)
			assert.Contains(t, result.Error, tt.message)
			f.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
			f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestAssetService_Upload_Success(t *testing.T) {
	// Arrange
	f := newFixture(t)
	ctx := context.Background()
	dataURI := pngDataURI()

	f.storage.On("Upload", ctx, mock.MatchedBy(func(u domain.RemoteUpload) bool {
		return u.DataURI == dataURI &&
			u.Params["folder"] == "products" &&
			u.Params["tags"] == "a,b" &&
			u.Params["transformation"] == "w_300,h_300,c_fill" &&
			u.Params["api_key"] == ""
	})).Return(sampleRemoteAsset(), nil)
	f.repo.On("FindByPublicIDForUpdate", ctx, "sample").Return(nil, domain.ErrAssetNotFound)
	f.repo.On("Create", ctx, mock.MatchedBy(func(a domain.Asset) bool {
		return a.PublicID == "sample" && a.Status == domain.AssetStatusCompleted
	})).Return(nil)

	// Act
	result := f.service.Upload(ctx, domain.UploadRequest{
		FileData: dataURI,
		Filename: "sample.png",
		UploadOptions: domain.UploadOptions{
			Folder:         "products",
			Tags:           []string{"a", "b"},
			Transformation: &domain.Transformation{Width: domain.IntPtr(300), Height: domain.IntPtr(300), Crop: "fill"},
			Metadata:       map[string]any{"alt": "sample"},
			UserID:         "user-1",
		},
	})

	// Assert
	require.True(t, result.Success, result.Error)
	require.NotNil(t, result.Asset)
	assert.Empty(t, result.Error)
	assert.Equal(t, "sample", result.Asset.PublicID)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/v1312461204/sample.png", result.Asset.SecureURL)
	assert.Equal(t, "products", result.Asset.Folder)
	assert.Equal(t, []string{"a", "b"}, result.Asset.Tags)
	assert.Equal(t, []string{"w_300,h_300,c_fill"}, result.Asset.Transformations)
	assert.Equal(t, "sample.png", *result.Asset.OriginalFilename)
	assert.Equal(t, "user-1", *result.Asset.UserID)
	assert.Equal(t, 1, *result.Asset.Width)
	assert.Equal(t, "sample", result.Asset.Metadata["alt"])
	f.storage.AssertExpectations(t)
	f.repo.AssertExpectations(t)
	f.assertPublished(t, domain.AssetEventUploaded, "sample")
}

func TestAssetService_Upload_DefaultFolder(t *testing.T) {
	// Arrange
	f := newFixture(t, func(_ *config.CloudinaryConfig, uploadCfg *config.UploadConfig) {
		uploadCfg.DefaultFolder = "uploads"
	})
	ctx := context.Background()

	f.storage.On("Upload", ctx, mock.MatchedBy(func(u domain.RemoteUpload) bool {
		_, hasTransformation := u.Params["transformation"]
		return u.Params["folder"] == "uploads" && !hasTransformation
	})).Return(sampleRemoteAsset(), nil)
	f.repo.On("FindByPublicIDForUpdate", ctx, "sample").Return(nil, domain.ErrAssetNotFound)
	f.repo.On("Create", ctx, mock.Anything).Return(nil)

	// Act
	result := f.service.Upload(ctx, domain.UploadRequest{FileData: pngDataURI()})

	// Assert
	require.True(t, result.Success, result.Error)
	assert.Equal(t, "uploads", result.Asset.Folder)
	assert.Empty(t, result.Asset.Transformations)
}

func TestAssetService_Upload_RemoteFailure(t *testing.T) {
	// Arrange
	f := newFixture(t)
	ctx := context.Background()
	f.storage.On("Upload", ctx, mock.Anything).Return(nil, fmt.Errorf("%w: status 500", domain.ErrRemote))

	// Act
	result := f.service.Upload(ctx, domain.UploadRequest{FileData: pngDataURI()})

	// Assert
	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Err, domain.ErrRemote)
	assert.Contains(t, result.Error, "status 500")
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestAssetService_Upload_SignatureMismatch(t *testing.T) {
	// Arrange
	f := newFixture(t)
	ctx := context.Background()
	remote := sampleRemoteAsset()
	remote.Signature = "0000000000000000000000000000000000000000"
	f.storage.On("Upload", ctx, mock.Anything).Return(remote, nil)
	f.storage.On("Destroy", ctx, "sample").Return(domain.DestroyResultOK, nil)

	// Act
	result := f.service.Upload(ctx, domain.UploadRequest{FileData: pngDataURI()})

	// Assert
	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Err, domain.ErrSignatureMismatch)
	f.storage.AssertCalled(t, "Destroy", ctx, "sample")
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAssetService_Upload_LocalWriteFailureCompensates(t *testing.T) {
	// Arrange
	f := newFixture(t)
	ctx := context.Background()
	f.storage.On("Upload", ctx, mock.Anything).Return(sampleRemoteAsset(), nil)
	f.repo.On("FindByPublicIDForUpdate", ctx, "sample").Return(nil, domain.ErrAssetNotFound)
	f.repo.On("Create", ctx, mock.Anything).Return(assert.AnError)
	f.storage.On("Destroy", ctx, "sample").Return(domain.DestroyResultOK, nil)

	// Act
	result := f.service.Upload(ctx, domain.UploadRequest{FileData: pngDataURI()})

	// Assert
	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Err, assert.AnError)
	f.storage.AssertExpectations(t)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestAssetService_Upload_CompensationFailureStillReportsWriteError(t *testing.T) {
	// Arrange
	f := newFixture(t)
	ctx := context.Background()
	f.storage.On("Upload", ctx, mock.Anything).Return(sampleRemoteAsset(), nil)
	f.repo.On("FindByPublicIDForUpdate", ctx, "sample").Return(nil, domain.ErrAssetNotFound)
	f.repo.On("Create", ctx, mock.Anything).Return(assert.AnError)
	f.storage.On("Destroy", ctx, "sample").Return(domain.DestroyResult(""), errors.New("network down"))

	// Act
	result := f.service.Upload(ctx, domain.UploadRequest{FileData: pngDataURI()})

	// Assert
	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Err, assert.AnError)
	assert.NotContains(t, result.Error, "network down")
}

func TestAssetService_Upload_OverwritesExistingRecord(t *testing.T) {
	// Arrange
	f := newFixture(t)
	ctx := context.Background()
	existing := &domain.Asset{
		ID:       uuid.New(),
		PublicID: "sample",
		Folder:   "old",
		Tags:     []string{"old"},
		Status:   domain.AssetStatusPending,
		Metadata: map[string]any{"kept": true},
	}
	f.storage.On("Upload", ctx, mock.Anything).Return(sampleRemoteAsset(), nil)
	f.repo.On("FindByPublicIDForUpdate", ctx, "sample").Return(existing, nil)
	f.repo.On("Update", ctx, mock.MatchedBy(func(a domain.Asset) bool {
		return a.ID == existing.ID && a.Status == domain.AssetStatusCompleted && a.Folder == "old"
	})).Return(nil)

	// Act
	result := f.service.Upload(ctx, domain.UploadRequest{FileData: pngDataURI()})

	// Assert
	require.True(t, result.Success, result.Error)
	assert.Equal(t, existing.ID, result.Asset.ID)
	assert.Equal(t, true, result.Asset.Metadata["kept"])
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAssetService_UploadFile(t *testing.T) {
	t.Run("raw bytes are uploaded as a file part", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		ctx := context.Background()
		remote := sampleRemoteAsset()
		remote.Format = "jpg"
		f.storage.On("Upload", ctx, mock.MatchedBy(func(u domain.RemoteUpload) bool {
			return u.DataURI == "" && u.Filename == "photo.jpg" && string(u.Content) == string(jpegBytes)
		})).Return(remote, nil)
		f.repo.On("FindByPublicIDForUpdate", ctx, "sample").Return(nil, domain.ErrAssetNotFound)
		f.repo.On("Create", ctx, mock.Anything).Return(nil)

		// Act
		result := f.service.UploadFile(ctx, domain.UploadFileRequest{Content: jpegBytes, Filename: "photo.jpg"})

		// Assert
		require.True(t, result.Success, result.Error)
		assert.Equal(t, "jpg", result.Asset.Format)
		f.storage.AssertExpectations(t)
	})

	tests := []struct {
		name string
		req  domain.UploadFileRequest
		kind error
	}{
		{name: "empty file", req: domain.UploadFileRequest{Filename: "photo.jpg"}, kind: domain.ErrInvalidFileData},
		{name: "missing extension", req: domain.UploadFileRequest{Content: jpegBytes, Filename: "photo"}, kind: domain.ErrValidation},
		{name: "extension not allowed", req: domain.UploadFileRequest{Content: jpegBytes, Filename: "photo.txt"}, kind: domain.ErrUnsupportedMimeType},
		{name: "content is not an image", req: domain.UploadFileRequest{Content: []byte("hello world"), Filename: "photo.png"}, kind: domain.ErrUnsupportedMimeType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := newFixture(t)

			// Act
			result := f.service.UploadFile(context.Background(), tt.req)

			// Assert
			assert.False(t, result.Success)
			assert.ErrorIs(t, result.Err, tt.kind)
			f.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
		})
	}
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// AssetStatus represents the upload status of an asset
type AssetStatus string

const (
	AssetStatusPending   AssetStatus = "pending"
	AssetStatusUploading AssetStatus = "uploading"
	AssetStatusCompleted AssetStatus = "completed"
	AssetStatusFailed    AssetStatus = "failed"
)

// Valid reports whether s is one of the four known statuses
func (s AssetStatus) Valid() bool {
	switch s {
	case AssetStatusPending, AssetStatusUploading, AssetStatusCompleted, AssetStatusFailed:
		return true
	}
	return false
}

var statusTransitions = map[AssetStatus][]AssetStatus{
	AssetStatusPending:   {AssetStatusUploading, AssetStatusCompleted, AssetStatusFailed},
	AssetStatusUploading: {AssetStatusCompleted, AssetStatusFailed},
	AssetStatusFailed:    {AssetStatusPending},
	AssetStatusCompleted: {},
}

// CanTransitionTo reports whether an asset in status s may move to next
func (s AssetStatus) CanTransitionTo(next AssetStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Asset is the local mirror of a remote cloudinary image
type Asset struct {
	ID               uuid.UUID
	PublicID         string
	CloudinaryURL    string
	SecureURL        string
	Format           string
	Width            *int
	Height           *int
	Bytes            *int64
	OriginalFilename *string
	Folder           string
	Tags             []string
	Metadata         map[string]any
	Transformations  []string
	Status           AssetStatus
	ErrorMessage     *string
	UserID           *string
	UploadedAt       time.Time
	UpdatedAt        time.Time
}

// ListFilter narrows ListAssets, only equality and uploaded_at range lookups are supported
type ListFilter struct {
	UserID string
	Folder string
	Tag    string
	Status AssetStatus
	Before *time.Time
	Limit  int
}

// UpdateAssetRequest carries the mutable fields of an asset, nil means unchanged
type UpdateAssetRequest struct {
	Tags     []string
	Metadata map[string]any
}

// VerifyResult reports whether the remote asset still exists
type VerifyResult struct {
	PublicID string
	Exists   bool
	Removed  bool
}

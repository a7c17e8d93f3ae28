package client

import "time"

// Asset is an image tracked by the asset API
type Asset struct {
	ID               string         `json:"id"`
	PublicID         string         `json:"publicId"`
	CloudinaryURL    string         `json:"cloudinaryUrl"`
	SecureURL        string         `json:"secureUrl"`
	Format           string         `json:"format"`
	Width            *int           `json:"width,omitempty"`
	Height           *int           `json:"height,omitempty"`
	Bytes            *int64         `json:"bytes,omitempty"`
	OriginalFilename *string        `json:"originalFilename,omitempty"`
	Folder           string         `json:"folder"`
	Tags             []string       `json:"tags"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	Transformations  []string       `json:"transformations"`
	Status           string         `json:"status"`
	ErrorMessage     *string        `json:"errorMessage,omitempty"`
	UserID           *string        `json:"userId,omitempty"`
	UploadedAt       time.Time      `json:"uploadedAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// Upload statuses
const (
	StatusPending   = "pending"
	StatusUploading = "uploading"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Transformation describes a delivery transformation.
// Numeric parameters that also accept keywords (quality "auto", dpr "auto") are strings.
type Transformation struct {
	Width               *int     `json:"width,omitempty"`
	Height              *int     `json:"height,omitempty"`
	AspectRatio         string   `json:"aspectRatio,omitempty"`
	DPR                 string   `json:"dpr,omitempty"`
	Crop                string   `json:"crop,omitempty"`
	Gravity             string   `json:"gravity,omitempty"`
	X                   *int     `json:"x,omitempty"`
	Y                   *int     `json:"y,omitempty"`
	Zoom                string   `json:"zoom,omitempty"`
	Quality             string   `json:"quality,omitempty"`
	Format              string   `json:"format,omitempty"`
	Effect              string   `json:"effect,omitempty"`
	Opacity             *int     `json:"opacity,omitempty"`
	Border              string   `json:"border,omitempty"`
	Radius              string   `json:"radius,omitempty"`
	Angle               *int     `json:"angle,omitempty"`
	Color               string   `json:"color,omitempty"`
	Background          string   `json:"background,omitempty"`
	Overlay             string   `json:"overlay,omitempty"`
	Underlay            string   `json:"underlay,omitempty"`
	Page                *int     `json:"page,omitempty"`
	Density             *int     `json:"density,omitempty"`
	DefaultImage        string   `json:"defaultImage,omitempty"`
	NamedTransformation string   `json:"namedTransformation,omitempty"`
	Flags               []string `json:"flags,omitempty"`
	RawTransformation   string   `json:"rawTransformation,omitempty"`
}

// UploadOptions are shared by every upload call
type UploadOptions struct {
	Folder         string          `json:"folder,omitempty"`
	Tags           []string        `json:"tags,omitempty"`
	PublicID       string          `json:"publicId,omitempty"`
	Transformation *Transformation `json:"transformation,omitempty"`
	Metadata       map[string]any  `json:"metadata,omitempty"`
	UserID         string          `json:"userId,omitempty"`
}

// UploadInput uploads a base64 data URI
type UploadInput struct {
	FileData string `json:"fileData"`
	Filename string `json:"filename,omitempty"`
	UploadOptions
}

// UploadFileInput uploads raw bytes as a multipart form
type UploadFileInput struct {
	Content  []byte
	Filename string
	UploadOptions
}

// ActionResult is the outcome of upload and delete
type ActionResult struct {
	Success bool   `json:"success"`
	Asset   *Asset `json:"asset,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CredentialsInput are the parameters to sign for a direct upload
type CredentialsInput struct {
	Folder         string          `json:"folder,omitempty"`
	Tags           []string        `json:"tags,omitempty"`
	PublicID       string          `json:"publicId,omitempty"`
	Transformation *Transformation `json:"transformation,omitempty"`
	UserID         string          `json:"userId,omitempty"`
}

// UploadCredentials are posted as is to UploadURL together with the file
type UploadCredentials struct {
	// PublicID is the reserved id cloudinary will store the file under, folder included
	PublicID     string            `json:"publicId,omitempty"`
	UploadURL    string            `json:"uploadUrl"`
	UploadParams map[string]string `json:"uploadParams"`
}

// FinalizeInput relays a cloudinary upload response to the asset API
type FinalizeInput struct {
	PublicID         string         `json:"publicId"`
	Version          int64          `json:"version"`
	Signature        string         `json:"signature,omitempty"`
	URL              string         `json:"url,omitempty"`
	SecureURL        string         `json:"secureUrl"`
	Format           string         `json:"format,omitempty"`
	Width            *int           `json:"width,omitempty"`
	Height           *int           `json:"height,omitempty"`
	Bytes            *int64         `json:"bytes,omitempty"`
	OriginalFilename string         `json:"originalFilename,omitempty"`
	Folder           string         `json:"folder,omitempty"`
	Tags             []string       `json:"tags,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	UserID           string         `json:"userId,omitempty"`
}

// ListFilter narrows ListAssets, zero values are ignored
type ListFilter struct {
	UserID string
	Folder string
	Tag    string
	Status string
	Before *time.Time
	Limit  int
}

// UpdateAssetInput replaces tags and/or metadata, nil fields are left unchanged
type UpdateAssetInput struct {
	Tags     []string       `json:"tags,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// TransformResult carries the delivery URLs of a transformed asset
type TransformResult struct {
	URL            string `json:"url"`
	SecureURL      string `json:"secureUrl"`
	Transformation string `json:"transformation"`
}

// VerifyResult reports whether the remote image still exists
type VerifyResult struct {
	PublicID string `json:"publicId"`
	Exists   bool   `json:"exists"`
	Removed  bool   `json:"removed"`
}

// DirectUploadInput is a file the caller posts straight to cloudinary
type DirectUploadInput struct {
	Content        []byte
	Filename       string
	Folder         string
	Tags           []string
	PublicID       string
	Transformation *Transformation
	Metadata       map[string]any
	UserID         string
}

package domain

import "time"

// UploadOptions are the parameters shared by every upload path
type UploadOptions struct {
	Folder         string
	Tags           []string
	PublicID       string
	Transformation *Transformation
	Metadata       map[string]any
	UserID         string
}

// UploadRequest uploads a base64 data URI (data:<mime>;base64,<payload>)
type UploadRequest struct {
	FileData string
	Filename string
	UploadOptions
}

// UploadFileRequest uploads raw file bytes
type UploadFileRequest struct {
	Content  []byte
	Filename string
	UploadOptions
}

// UploadResult is the outcome of an upload, failures are reported in Error rather than returned
type UploadResult struct {
	Success bool
	Asset   *Asset
	Error   string
	Err     error
}

// DeleteResult is the outcome of a delete, failures are reported in Error rather than returned
type DeleteResult struct {
	Success bool
	Error   string
	Err     error
}

// UploadFailed builds a failed UploadResult from err
func UploadFailed(err error) UploadResult {
	return UploadResult{Success: false, Error: err.Error(), Err: err}
}

// DeleteFailed builds a failed DeleteResult from err
func DeleteFailed(err error) DeleteResult {
	return DeleteResult{Success: false, Error: err.Error(), Err: err}
}

// RemoteUpload is a single signed upload call to cloudinary
type RemoteUpload struct {
	// DataURI is sent verbatim as the file field when set
	DataURI  string
	Content  []byte
	Filename string
	Params   map[string]string
}

// RemoteAsset is the subset of the cloudinary upload response that gets mirrored locally
type RemoteAsset struct {
	PublicID         string
	Version          int64
	Signature        string
	URL              string
	SecureURL        string
	Format           string
	Width            int
	Height           int
	Bytes            int64
	OriginalFilename string
	Tags             []string
	CreatedAt        time.Time
}

// DestroyResult is the result field of a destroy call
type DestroyResult string

const (
	DestroyResultOK       DestroyResult = "ok"
	DestroyResultNotFound DestroyResult = "not found"
)

// CredentialsRequest are the parameters a browser wants signed for a direct upload
type CredentialsRequest struct {
	Folder         string
	Tags           []string
	PublicID       string
	Transformation *Transformation
	UserID         string
}

// UploadCredentials are the signed, single-use parameters for a direct upload
type UploadCredentials struct {
	// PublicID is the reserved id including its folder, empty when cloudinary picks the id
	PublicID     string
	UploadURL    string
	UploadParams map[string]string
}

// SignedParams is the output of the signer
type SignedParams struct {
	Signature string
	Timestamp int64
}

// FinalizeRequest mirrors the cloudinary response a browser received after a direct upload
type FinalizeRequest struct {
	PublicID         string
	Version          int64
	Signature        string
	URL              string
	SecureURL        string
	Format           string
	Width            *int
	Height           *int
	Bytes            *int64
	OriginalFilename string
	Folder           string
	Tags             []string
	Metadata         map[string]any
	UserID           string
}

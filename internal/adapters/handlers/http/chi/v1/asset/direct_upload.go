package asset

import (
	"cloudinary-assets/internal/core/domain"
	"net/http"
)

// V1CredentialsRequest asks for signed direct upload parameters
type V1CredentialsRequest struct {
	Folder         string                 `json:"folder,omitempty" validate:"max=255"`
	Tags           []string               `json:"tags,omitempty" validate:"max=20,dive,max=50"`
	PublicID       string                 `json:"publicId,omitempty" validate:"max=255"`
	Transformation *domain.Transformation `json:"transformation,omitempty"`
	UserID         string                 `json:"userId,omitempty" validate:"max=255"`
}

// V1CredentialsResponse carries everything a browser needs to post the file to cloudinary
type V1CredentialsResponse struct {
	PublicID     string            `json:"publicId,omitempty"`
	UploadURL    string            `json:"uploadUrl"`
	UploadParams map[string]string `json:"uploadParams"`
}

// V1FinalizeRequest relays the cloudinary upload response back to the server
type V1FinalizeRequest struct {
	PublicID         string         `json:"publicId" validate:"required,max=255"`
	Version          int64          `json:"version" validate:"min=0"`
	Signature        string         `json:"signature,omitempty"`
	URL              string         `json:"url,omitempty" validate:"omitempty,url"`
	SecureURL        string         `json:"secureUrl" validate:"required,url"`
	Format           string         `json:"format,omitempty"`
	Width            *int           `json:"width,omitempty"`
	Height           *int           `json:"height,omitempty"`
	Bytes            *int64         `json:"bytes,omitempty"`
	OriginalFilename string         `json:"originalFilename,omitempty" validate:"max=255"`
	Folder           string         `json:"folder,omitempty" validate:"max=255"`
	Tags             []string       `json:"tags,omitempty" validate:"max=20,dive,max=50"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	UserID           string         `json:"userId,omitempty" validate:"max=255"`
}

// V1UpdateStatusRequest moves an asset to another upload status
type V1UpdateStatusRequest struct {
	Status       domain.AssetStatus `json:"status" validate:"required"`
	ErrorMessage string             `json:"errorMessage,omitempty" validate:"max=1000"`
}

// GenerateUploadCredentialsV1 signs a direct browser upload
func (h *HandlerV1) GenerateUploadCredentialsV1(w http.ResponseWriter, r *http.Request) {
	var req V1CredentialsRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	creds, err := h.assetService.GenerateUploadCredentials(r.Context(), domain.CredentialsRequest{
		Folder:         req.Folder,
		Tags:           req.Tags,
		PublicID:       req.PublicID,
		Transformation: req.Transformation,
		UserID:         req.UserID,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, V1CredentialsResponse{
		PublicID:     creds.PublicID,
		UploadURL:    creds.UploadURL,
		UploadParams: creds.UploadParams,
	})
}

// FinalizeUploadV1 records a completed direct upload
func (h *HandlerV1) FinalizeUploadV1(w http.ResponseWriter, r *http.Request) {
	var req V1FinalizeRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	asset, err := h.assetService.FinalizeUpload(r.Context(), domain.FinalizeRequest{
		PublicID:         req.PublicID,
		Version:          req.Version,
		Signature:        req.Signature,
		URL:              req.URL,
		SecureURL:        req.SecureURL,
		Format:           req.Format,
		Width:            req.Width,
		Height:           req.Height,
		Bytes:            req.Bytes,
		OriginalFilename: req.OriginalFilename,
		Folder:           req.Folder,
		Tags:             req.Tags,
		Metadata:         req.Metadata,
		UserID:           req.UserID,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toV1Asset(*asset))
}

// UpdateUploadStatusV1 advances the upload status of an asset
func (h *HandlerV1) UpdateUploadStatusV1(w http.ResponseWriter, r *http.Request) {
	publicID, err := publicIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req V1UpdateStatusRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	asset, err := h.assetService.UpdateUploadStatus(r.Context(), publicID, req.Status, req.ErrorMessage)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toV1Asset(*asset))
}

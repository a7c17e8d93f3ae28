package asset

import (
	"cloudinary-assets/internal/core/domain"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

const multipartMemory = 8 << 20

// V1UploadOptions are the options shared by both upload endpoints
type V1UploadOptions struct {
	Folder         string                 `json:"folder,omitempty" validate:"max=255"`
	Tags           []string               `json:"tags,omitempty" validate:"max=20,dive,max=50"`
	PublicID       string                 `json:"publicId,omitempty" validate:"max=255"`
	Transformation *domain.Transformation `json:"transformation,omitempty"`
	Metadata       map[string]any         `json:"metadata,omitempty"`
	UserID         string                 `json:"userId,omitempty" validate:"max=255"`
}

// V1UploadRequest uploads a base64 data URI
type V1UploadRequest struct {
	FileData string `json:"fileData"`
	Filename string `json:"filename,omitempty" validate:"max=255"`
	V1UploadOptions
}

func (o V1UploadOptions) toDomain() domain.UploadOptions {
	return domain.UploadOptions{
		Folder:         o.Folder,
		Tags:           o.Tags,
		PublicID:       o.PublicID,
		Transformation: o.Transformation,
		Metadata:       o.Metadata,
		UserID:         o.UserID,
	}
}

// UploadV1 uploads a data URI image
func (h *HandlerV1) UploadV1(w http.ResponseWriter, r *http.Request) {
	var req V1UploadRequest
	if err := h.decode(r, &req); err != nil {
		h.writeAction(w, statusFor(err), false, nil, err.Error())
		return
	}

	result := h.assetService.Upload(r.Context(), domain.UploadRequest{
		FileData:      req.FileData,
		Filename:      req.Filename,
		UploadOptions: req.toDomain(),
	})
	h.writeUploadResult(w, r, result)
}

// UploadFileV1 uploads the multipart form file "file".
// Options are sent as form fields, tags comma separated, transformation and metadata as JSON.
func (h *HandlerV1) UploadFileV1(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.writeAction(w, http.StatusBadRequest, false, nil, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeAction(w, http.StatusBadRequest, false, nil, "file is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("error reading uploaded file", "error", err)
		h.writeAction(w, http.StatusBadRequest, false, nil, "unable to read file")
		return
	}

	opts, err := h.formOptions(r)
	if err != nil {
		h.writeAction(w, statusFor(err), false, nil, err.Error())
		return
	}

	result := h.assetService.UploadFile(r.Context(), domain.UploadFileRequest{
		Content:       content,
		Filename:      header.Filename,
		UploadOptions: opts.toDomain(),
	})
	h.writeUploadResult(w, r, result)
}

func (h *HandlerV1) formOptions(r *http.Request) (V1UploadOptions, error) {
	opts := V1UploadOptions{
		Folder:   r.FormValue("folder"),
		PublicID: r.FormValue("publicId"),
		UserID:   r.FormValue("userId"),
	}
	for _, value := range r.MultipartForm.Value["tags"] {
		for _, tag := range strings.Split(value, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				opts.Tags = append(opts.Tags, tag)
			}
		}
	}
	if raw := r.FormValue("transformation"); raw != "" {
		var t domain.Transformation
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			return opts, domain.NewValidationError("transformation", "invalid transformation: %v", err)
		}
		opts.Transformation = &t
	}
	if raw := r.FormValue("metadata"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &opts.Metadata); err != nil {
			return opts, domain.NewValidationError("metadata", "invalid metadata: %v", err)
		}
	}
	return opts, h.check(opts)
}

func (h *HandlerV1) writeUploadResult(w http.ResponseWriter, r *http.Request, result domain.UploadResult) {
	if !result.Success {
		status := statusFor(result.Err)
		if status >= http.StatusInternalServerError {
			h.logger.ErrorContext(r.Context(), "upload failed", "error", result.Error)
		}
		h.writeAction(w, status, false, nil, result.Error)
		return
	}
	h.writeAction(w, http.StatusCreated, true, result.Asset, "")
}

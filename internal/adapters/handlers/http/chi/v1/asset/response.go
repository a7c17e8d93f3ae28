package asset

import (
	"cloudinary-assets/internal/core/domain"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// V1Asset is the JSON representation of an asset
type V1Asset struct {
	ID               uuid.UUID          `json:"id"`
	PublicID         string             `json:"publicId"`
	CloudinaryURL    string             `json:"cloudinaryUrl"`
	SecureURL        string             `json:"secureUrl"`
	Format           string             `json:"format"`
	Width            *int               `json:"width,omitempty"`
	Height           *int               `json:"height,omitempty"`
	Bytes            *int64             `json:"bytes,omitempty"`
	OriginalFilename *string            `json:"originalFilename,omitempty"`
	Folder           string             `json:"folder"`
	Tags             []string           `json:"tags"`
	Metadata         map[string]any     `json:"metadata,omitempty"`
	Transformations  []string           `json:"transformations"`
	Status           domain.AssetStatus `json:"status"`
	ErrorMessage     *string            `json:"errorMessage,omitempty"`
	UserID           *string            `json:"userId,omitempty"`
	UploadedAt       time.Time          `json:"uploadedAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

// V1ActionResponse is the response of upload and delete
type V1ActionResponse struct {
	Success bool     `json:"success"`
	Asset   *V1Asset `json:"asset,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// V1ErrorResponse is the body of every failed non action request
type V1ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func toV1Asset(a domain.Asset) V1Asset {
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	transformations := a.Transformations
	if transformations == nil {
		transformations = []string{}
	}
	return V1Asset{
		ID:               a.ID,
		PublicID:         a.PublicID,
		CloudinaryURL:    a.CloudinaryURL,
		SecureURL:        a.SecureURL,
		Format:           a.Format,
		Width:            a.Width,
		Height:           a.Height,
		Bytes:            a.Bytes,
		OriginalFilename: a.OriginalFilename,
		Folder:           a.Folder,
		Tags:             tags,
		Metadata:         a.Metadata,
		Transformations:  transformations,
		Status:           a.Status,
		ErrorMessage:     a.ErrorMessage,
		UserID:           a.UserID,
		UploadedAt:       a.UploadedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrUnsupportedMimeType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidFileData):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSignatureMismatch):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrAssetNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrRemoteAssetMissing):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrRemote):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *HandlerV1) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}

func (h *HandlerV1) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		if status == http.StatusInternalServerError {
			h.writeJSON(w, status, V1ErrorResponse{Error: "internal server error"})
			return
		}
	}

	resp := V1ErrorResponse{Error: err.Error()}
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		resp.Error = validationErr.Message
		resp.Field = validationErr.Field
	}
	h.writeJSON(w, status, resp)
}

func (h *HandlerV1) writeAction(w http.ResponseWriter, status int, success bool, asset *domain.Asset, errMessage string) {
	resp := V1ActionResponse{Success: success, Error: errMessage}
	if asset != nil {
		v1 := toV1Asset(*asset)
		resp.Asset = &v1
	}
	h.writeJSON(w, status, resp)
}

// decode reads a JSON body into dst and runs its validate tags
func (h *HandlerV1) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.NewValidationError("body", "invalid JSON body: %v", err)
	}
	return h.check(dst)
}

func (h *HandlerV1) check(dst any) error {
	err := h.validate.Struct(dst)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return domain.NewValidationError(fe.Field(), "%s", describe(fe))
	}
	return domain.NewValidationError("body", "%v", err)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", fe.Field())
	default:
		return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
	}
}

// publicIDParam returns the unescaped public id route parameter
func publicIDParam(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "publicID")
	publicID, err := url.PathUnescape(raw)
	if err != nil || publicID == "" {
		return "", domain.NewValidationError("publicId", "invalid public id %q", raw)
	}
	return publicID, nil
}

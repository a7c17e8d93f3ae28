package asset

import (
	"cloudinary-assets/internal/core/port"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// HandlerV1 is the handler for v1 assets routes
type HandlerV1 struct {
	assetService port.AssetService
	validate     *validator.Validate
	logger       *slog.Logger
}

// NewAssetHandlerV1 creates HandlerV1
func NewAssetHandlerV1(service port.AssetService, logger *slog.Logger) *HandlerV1 {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &HandlerV1{
		assetService: service,
		validate:     validate,
		logger:       logger,
	}
}

// Routes exposes handler routes.
// Public ids containing "/" must be path escaped by clients.
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/upload", h.UploadV1)
	router.Post("/upload/file", h.UploadFileV1)
	router.Post("/upload/credentials", h.GenerateUploadCredentialsV1)
	router.Post("/upload/finalize", h.FinalizeUploadV1)
	router.Get("/", h.ListAssetsV1)
	router.Get("/{publicID}", h.GetAssetV1)
	router.Patch("/{publicID}", h.UpdateAssetV1)
	router.Delete("/{publicID}", h.DeleteAssetV1)
	router.Patch("/{publicID}/status", h.UpdateUploadStatusV1)
	router.Post("/{publicID}/transform", h.TransformV1)
	router.Post("/{publicID}/verify", h.VerifyAssetV1)

	return router
}

package asset_test

import (
	"bytes"
	"cloudinary-assets/internal/adapters/handlers/http/chi"
	v1asset "cloudinary-assets/internal/adapters/handlers/http/chi/v1/asset"
	"cloudinary-assets/internal/core/domain"
	assetservice "cloudinary-assets/internal/core/service/asset"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*assetservice.MockAssetService, http.Handler) {
	t.Helper()
	discardLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockService := assetservice.NewMockAssetService()
	handler := v1asset.NewAssetHandlerV1(mockService, discardLogger)
	return mockService, chi.NewRouter(discardLogger, handler, nil, "")
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func sampleAsset(publicID string) *domain.Asset {
	width, height := 640, 480
	size := int64(2048)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Asset{
		ID:            uuid.New(),
		PublicID:      publicID,
		CloudinaryURL: "http://res.cloudinary.com/demo/image/upload/v1/" + publicID + ".jpg",
		SecureURL:     "https://res.cloudinary.com/demo/image/upload/v1/" + publicID + ".jpg",
		Format:        "jpg",
		Width:         &width,
		Height:        &height,
		Bytes:         &size,
		Tags:          []string{"trip"},
		Status:        domain.AssetStatusCompleted,
		UploadedAt:    now,
		UpdatedAt:     now,
	}
}

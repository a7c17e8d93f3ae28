package asset_test

import (
	v1asset "cloudinary-assets/internal/adapters/handlers/http/chi/v1/asset"
	"cloudinary-assets/internal/core/domain"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListAssetsV1(t *testing.T) {
	t.Run("query parameters become the filter", func(t *testing.T) {
		// Arrange
		mockService, h := newTestRouter(t)
		before := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		mockService.On("ListAssets", mock.Anything, mock.MatchedBy(func(f domain.ListFilter) bool {
			return f.UserID == "u1" && f.Folder == "products" && f.Tag == "sale" &&
				f.Status == domain.AssetStatusCompleted && f.Limit == 10 &&
				f.Before != nil && f.Before.Equal(before)
		})).Return([]domain.Asset{*sampleAsset("a"), *sampleAsset("b")}, nil)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet,
			"/api/v1/assets/?user_id=u1&folder=products&tag=sale&status=completed&limit=10&before=2024-05-01T00:00:00Z", nil)

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeBody[v1asset.V1ListAssetsResponse](t, w)
		require.Len(t, resp.Assets, 2)
		assert.Equal(t, "a", resp.Assets[0].PublicID)
		mockService.AssertExpectations(t)
	})

	t.Run("empty list", func(t *testing.T) {
		// Arrange
		mockService, h := newTestRouter(t)
		mockService.On("ListAssets", mock.Anything, domain.ListFilter{}).Return([]domain.Asset{}, nil)
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/assets/", nil))

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"assets":[]}`, w.Body.String())
	})

	badQueries := []struct {
		name  string
		query string
		field string
	}{
		{name: "limit not a number", query: "limit=ten", field: "limit"},
		{name: "before not a timestamp", query: "before=yesterday", field: "before"},
	}
	for _, tt := range badQueries {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			mockService, h := newTestRouter(t)
			w := httptest.NewRecorder()

			// Act
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/assets/?"+tt.query, nil))

			// Assert
			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeBody[v1asset.V1ErrorResponse](t, w)
			assert.Equal(t, tt.field, resp.Field)
			mockService.AssertNotCalled(t, "ListAssets", mock.Anything, mock.Anything)
		})
	}

	t.Run("service validation", func(t *testing.T) {
		// Arrange
		mockService, h := newTestRouter(t)
		mockService.On("ListAssets", mock.Anything, mock.Anything).
			Return(nil, domain.NewValidationError("limit", "limit must be between 0 and 100"))
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/assets/?limit=500", nil))

		// Assert
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetAssetV1(t *testing.T) {
	t.Run("escaped public id", func(t *testing.T) {
		// Arrange
		mockService, h := newTestRouter(t)
		mockService.On("GetAsset", mock.Anything, "products/shoes/red").Return(sampleAsset("products/shoes/red"), nil)
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/assets/products%2Fshoes%2Fred", nil))

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeBody[v1asset.V1Asset](t, w)
		assert.Equal(t, "products/shoes/red", resp.PublicID)
		mockService.AssertExpectations(t)
	})

	t.Run("unknown asset", func(t *testing.T) {
		// Arrange
		mockService, h := newTestRouter(t)
		mockService.On("GetAsset", mock.Anything, "missing").Return(nil, nil)
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/assets/missing", nil))

		// Assert
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("repository failure", func(t *testing.T) {
		// Arrange
		mockService, h := newTestRouter(t)
		mockService.On("GetAsset", mock.Anything, "sample").Return(nil, fmt.Errorf("connection reset"))
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/assets/sample", nil))

		// Assert
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeBody[v1asset.V1ErrorResponse](t, w)
		assert.Equal(t, "internal server error", resp.Error)
	})
}

func TestTransformV1(t *testing.T) {
	t.Run("nominal", func(t *testing.T) {
		// Arrange
		mockService, h := newTestRouter(t)
		mockService.On("Transform", mock.Anything, "sample", mock.MatchedBy(func(tr domain.Transformation) bool {
			return *tr.Width == 300 && tr.Crop == "fill" && tr.Quality == "auto"
		})).Return(&domain.TransformResult{
			URL:            "http://res.cloudinary.com/demo/image/upload/w_300,c_fill,q_auto/sample",
			SecureURL:      "https://res.cloudinary.com/demo/image/upload/w_300,c_fill,q_auto/sample",
			Transformation: "w_300,c_fill,q_auto",
		}, nil)
		w := httptest.NewRecorder()
		req := jsonRequest(t, http.MethodPost, "/api/v1/assets/sample/transform", map[string]any{
			"width": 300, "crop": "fill", "quality": "auto",
		})

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeBody[v1asset.V1TransformResponse](t, w)
		assert.Equal(t, "w_300,c_fill,q_auto", resp.Transformation)
		assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/w_300,c_fill,q_auto/sample", resp.SecureURL)
	})

	t.Run("out of range parameter", func(t *testing.T) {
		// Arrange
		mockService, h := newTestRouter(t)
		mockService.On("Transform", mock.Anything, "sample", mock.Anything).
			Return(nil, domain.NewValidationError("opacity", "opacity must be between 0 and 100"))
		w := httptest.NewRecorder()
		req := jsonRequest(t, http.MethodPost, "/api/v1/assets/sample/transform", map[string]any{"opacity": 150})

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeBody[v1asset.V1ErrorResponse](t, w)
		assert.Equal(t, "opacity", resp.Field)
		assert.Equal(t, "opacity must be between 0 and 100", resp.Error)
	})
}

package cloudinary_test

import (
	"cloudinary-assets/internal/adapters/storage/cloudinary"
	"cloudinary-assets/internal/config"
	"cloudinary-assets/internal/core/domain"
	"cloudinary-assets/internal/core/signature"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCloud     = "demo"
	testAPIKey    = "1234567890"
	testAPISecret = "abcd"
	testTimestamp = int64(1315060510)
)

type recordingObserver struct {
	mu    sync.Mutex
	calls []string
	errs  []error
	bytes int64
}

func (o *recordingObserver) ObserveRemoteCall(operation string, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, operation)
	o.errs = append(o.errs, err)
}

func (o *recordingObserver) ObserveUploadedBytes(n int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.bytes += n
}

func testConfig(baseURL string) config.CloudinaryConfig {
	return config.CloudinaryConfig{
		CloudName:          testCloud,
		APIKey:             testAPIKey,
		APISecret:          testAPISecret,
		APIBaseURL:         baseURL,
		DeliveryBaseURL:    "https://res.cloudinary.com",
		SignatureAlgorithm: "sha1",
		Timeout:            5 * time.Second,
		MaxResponseBytes:   1 << 20,
	}
}

func createAdapter(t *testing.T, baseURL string, observer cloudinary.Observer) *cloudinary.Adapter {
	t.Helper()
	adapter, err := cloudinary.NewAdapter(
		testConfig(baseURL),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		cloudinary.WithClock(func() time.Time { return time.Unix(testTimestamp, 0) }),
		cloudinary.WithObserver(observer),
	)
	require.NoError(t, err)
	return adapter
}

func expectedSignature(t *testing.T, fields map[string]string) string {
	t.Helper()
	signer, err := signature.NewSigner(testAPISecret, "sha1")
	require.NoError(t, err)
	return signer.SignAt(fields, testTimestamp).Signature
}

func TestNewAdapter_MissingCredentials(t *testing.T) {
	// Arrange
	cfg := testConfig("http://localhost")
	cfg.APISecret = ""

	// Act
	adapter, err := cloudinary.NewAdapter(cfg, slog.Default())

	// Assert
	assert.Nil(t, adapter)
	assert.ErrorIs(t, err, domain.ErrMissingCredentials)
	assert.Contains(t, err.Error(), "CLOUDINARY_API_SECRET")
}

func TestAdapter_Upload(t *testing.T) {
	t.Run("data uri is signed and posted as the file field", func(t *testing.T) {
		// Arrange
		var fields map[string]string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1_1/demo/image/upload", r.URL.Path)
			assert.NoError(t, r.ParseMultipartForm(1<<20))
			fields = map[string]string{}
			for k, v := range r.MultipartForm.Value {
				fields[k] = v[0]
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"public_id": "folder/sample",
				"version": 1312461204,
				"signature": "abc",
				"width": 640,
				"height": 480,
				"format": "png",
				"bytes": 1024,
				"url": "http://res.cloudinary.com/demo/image/upload/v1312461204/folder/sample.png",
				"secure_url": "https://res.cloudinary.com/demo/image/upload/v1312461204/folder/sample.png",
				"original_filename": "sample",
				"tags": ["a", "b"],
				"created_at": "2024-01-02T03:04:05Z"
			}`))
		}))
		defer server.Close()
		observer := &recordingObserver{}
		adapter := createAdapter(t, server.URL, observer)

		// Act
		asset, err := adapter.Upload(context.Background(), domain.RemoteUpload{
			DataURI: "data:image/png;base64,iVBORw0KGgo=",
			Params: map[string]string{
				"folder":         "folder",
				"tags":           "a,b",
				"transformation": "",
			},
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "folder/sample", asset.PublicID)
		assert.Equal(t, int64(1312461204), asset.Version)
		assert.Equal(t, 640, asset.Width)
		assert.Equal(t, int64(1024), asset.Bytes)
		assert.Equal(t, []string{"a", "b"}, asset.Tags)
		assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), asset.CreatedAt)

		assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", fields["file"])
		assert.Equal(t, testAPIKey, fields["api_key"])
		assert.Equal(t, "1315060510", fields["timestamp"])
		assert.NotContains(t, fields, "transformation")
		assert.Equal(t, expectedSignature(t, fields), fields["signature"])

		assert.Equal(t, []string{"upload"}, observer.calls)
		assert.Nil(t, observer.errs[0])
		assert.Equal(t, int64(1024), observer.bytes)
	})

	t.Run("raw content is posted as a file part", func(t *testing.T) {
		// Arrange
		var filename, content string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, r.ParseMultipartForm(1<<20))
			file, header, err := r.FormFile("file")
			if !assert.NoError(t, err) {
				return
			}
			defer file.Close()
			data, _ := io.ReadAll(file)
			filename, content = header.Filename, string(data)
			_, _ = w.Write([]byte(`{"public_id":"photo","version":1}`))
		}))
		defer server.Close()
		adapter := createAdapter(t, server.URL, nil)

		// Act
		asset, err := adapter.Upload(context.Background(), domain.RemoteUpload{
			Content:  []byte("raw-bytes"),
			Filename: "photo.jpg",
			Params:   map[string]string{},
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "photo", asset.PublicID)
		assert.Equal(t, "photo.jpg", filename)
		assert.Equal(t, "raw-bytes", content)
	})

	t.Run("error response becomes a remote error", func(t *testing.T) {
		// Arrange
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"Invalid Signature"}}`))
		}))
		defer server.Close()
		observer := &recordingObserver{}
		adapter := createAdapter(t, server.URL, observer)

		// Act
		asset, err := adapter.Upload(context.Background(), domain.RemoteUpload{DataURI: "data:image/png;base64,AA=="})

		// Assert
		assert.Nil(t, asset)
		assert.ErrorIs(t, err, domain.ErrRemote)
		var remoteErr *cloudinary.RemoteError
		require.True(t, errors.As(err, &remoteErr))
		assert.Equal(t, http.StatusUnauthorized, remoteErr.StatusCode)
		assert.Equal(t, "Invalid Signature", remoteErr.Message)
		assert.Error(t, observer.errs[0])
	})

	t.Run("oversized response is rejected", func(t *testing.T) {
		// Arrange
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"public_id":"` + strings.Repeat("x", 2<<20) + `"}`))
		}))
		defer server.Close()
		adapter := createAdapter(t, server.URL, nil)

		// Act
		_, err := adapter.Upload(context.Background(), domain.RemoteUpload{DataURI: "data:image/png;base64,AA=="})

		// Assert
		assert.ErrorIs(t, err, domain.ErrRemote)
		assert.True(t, cloudinary.IsResponseTooLarge(err))
	})
}

func TestAdapter_Destroy(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected domain.DestroyResult
		wantErr  bool
	}{
		{name: "ok", status: http.StatusOK, body: `{"result":"ok"}`, expected: domain.DestroyResultOK},
		{name: "not found", status: http.StatusOK, body: `{"result":"not found"}`, expected: domain.DestroyResultNotFound},
		{name: "unexpected result", status: http.StatusOK, body: `{"result":"pending"}`, wantErr: true},
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":{"message":"boom"}}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			var fields map[string]string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1_1/demo/image/destroy", r.URL.Path)
				assert.NoError(t, r.ParseForm())
				fields = map[string]string{}
				for k, v := range r.PostForm {
					fields[k] = v[0]
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()
			adapter := createAdapter(t, server.URL, nil)

			// Act
			result, err := adapter.Destroy(context.Background(), "folder/sample")

			// Assert
			assert.Equal(t, "folder/sample", fields["public_id"])
			assert.Equal(t, "true", fields["invalidate"])
			assert.Equal(t, expectedSignature(t, fields), fields["signature"])
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrRemote)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestAdapter_Exists(t *testing.T) {
	// Arrange
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, testAPIKey, user)
		assert.Equal(t, testAPISecret, pass)
		assert.Contains(t, r.URL.Path, "/v1_1/demo/resources/image/upload/")

		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/sample") {
			_ = json.NewEncoder(w).Encode(map[string]any{"public_id": "sample", "format": "jpg"})
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{"message": "Resource not found - missing"}})
	}))
	defer server.Close()
	adapter := createAdapter(t, server.URL, nil)

	t.Run("existing image", func(t *testing.T) {
		// Act
		exists, err := adapter.Exists(context.Background(), "sample")

		// Assert
		require.NoError(t, err)
		assert.True(t, exists)
		assert.Equal(t, int32(1), hits.Load(), "admin lookup must use the configured api base url")
	})

	t.Run("missing image", func(t *testing.T) {
		// Act
		exists, err := adapter.Exists(context.Background(), "missing")

		// Assert
		require.NoError(t, err)
		assert.False(t, exists)
		assert.Equal(t, int32(2), hits.Load())
	})
}

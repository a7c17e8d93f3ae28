package cloudinary

import (
	"cloudinary-assets/internal/config"
	"cloudinary-assets/internal/core/signature"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	cld "github.com/cloudinary/cloudinary-go/v2"
	cldconfig "github.com/cloudinary/cloudinary-go/v2/config"
)

// Adapter is an adapter for the cloudinary image API.
// Upload and destroy are signed here, existence checks go through the admin API with basic auth.
type Adapter struct {
	httpClient *http.Client
	admin      *cld.Cloudinary
	signer     *signature.Signer
	config     config.CloudinaryConfig
	observer   Observer
	logger     *slog.Logger
}

// Option customizes an Adapter
type Option func(a *Adapter)

// WithHTTPClient replaces the client used for upload and destroy
func WithHTTPClient(client *http.Client) Option {
	return func(a *Adapter) {
		a.httpClient = client
	}
}

// WithObserver records every remote call
func WithObserver(observer Observer) Option {
	return func(a *Adapter) {
		if observer != nil {
			a.observer = observer
		}
	}
}

// WithClock replaces the clock used to timestamp signatures
func WithClock(now func() time.Time) Option {
	return func(a *Adapter) {
		a.signer.WithClock(now)
	}
}

// NewAdapter returns Adapter
func NewAdapter(cfg config.CloudinaryConfig, logger *slog.Logger, opts ...Option) (*Adapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	signer, err := signature.NewSigner(cfg.APISecret, cfg.SignatureAlgorithm)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	admin, err := newAdminClient(cfg, timeout)
	if err != nil {
		return nil, err
	}

	a := &Adapter{
		httpClient: &http.Client{Timeout: timeout},
		admin:      admin,
		signer:     signer,
		config:     cfg,
		observer:   nopObserver{},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// newAdminClient builds the admin client from a configuration carrying the api base url.
// The client copies its configuration, so the prefix must be set before construction.
func newAdminClient(cfg config.CloudinaryConfig, timeout time.Duration) (*cld.Cloudinary, error) {
	adminCfg, err := cldconfig.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to configure cloudinary admin client: %w", err)
	}
	if base := strings.TrimRight(cfg.APIBaseURL, "/"); base != "" {
		adminCfg.API.UploadPrefix = base
	}
	adminCfg.API.Timeout = max(int64(timeout.Seconds()), 1)

	admin, err := cld.NewFromConfiguration(*adminCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary admin client: %w", err)
	}
	return admin, nil
}

func (a *Adapter) observe(operation string, start time.Time, err error) {
	a.observer.ObserveRemoteCall(operation, time.Since(start), err)
}

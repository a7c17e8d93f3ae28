// Package client is a typed Go client for the asset HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const apiPrefix = "/api/v1/assets"

// AssetAPI is the contract of the asset HTTP API
type AssetAPI interface {
	Upload(ctx context.Context, in UploadInput) (*ActionResult, error)
	UploadFile(ctx context.Context, in UploadFileInput) (*ActionResult, error)
	DeleteAsset(ctx context.Context, publicID string) (*ActionResult, error)
	ListAssets(ctx context.Context, filter ListFilter) ([]Asset, error)
	GetAsset(ctx context.Context, publicID string) (*Asset, error)
	UpdateAsset(ctx context.Context, publicID string, in UpdateAssetInput) (*Asset, error)
	Transform(ctx context.Context, publicID string, t Transformation) (*TransformResult, error)
	GenerateUploadCredentials(ctx context.Context, in CredentialsInput) (*UploadCredentials, error)
	FinalizeUpload(ctx context.Context, in FinalizeInput) (*Asset, error)
	UpdateUploadStatus(ctx context.Context, publicID string, status string, errorMessage string) (*Asset, error)
	VerifyAsset(ctx context.Context, publicID string) (*VerifyResult, error)
	UploadDirect(ctx context.Context, in DirectUploadInput) (*Asset, error)
}

// Client talks to one asset API instance
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Client for the API served at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upload sends a data URI image. A rejected upload is reported in the result, not as an error.
func (c *Client) Upload(ctx context.Context, in UploadInput) (*ActionResult, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, apiPrefix+"/upload", in)
	if err != nil {
		return nil, err
	}
	return c.doAction(req)
}

// UploadFile sends raw bytes as the multipart field "file"
func (c *Client) UploadFile(ctx context.Context, in UploadFileInput) (*ActionResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fields := map[string]string{
		"folder":   in.Folder,
		"publicId": in.PublicID,
		"userId":   in.UserID,
		"tags":     strings.Join(in.Tags, ","),
	}
	if in.Transformation != nil {
		raw, err := json.Marshal(in.Transformation)
		if err != nil {
			return nil, fmt.Errorf("encode transformation: %w", err)
		}
		fields["transformation"] = string(raw)
	}
	if in.Metadata != nil {
		raw, err := json.Marshal(in.Metadata)
		if err != nil {
			return nil, fmt.Errorf("encode metadata: %w", err)
		}
		fields["metadata"] = string(raw)
	}
	if err := writeMultipart(writer, fields, "file", in.Filename, in.Content); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+apiPrefix+"/upload/file", &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.doAction(req)
}

// DeleteAsset removes the remote image and its record
func (c *Client) DeleteAsset(ctx context.Context, publicID string) (*ActionResult, error) {
	req, err := c.newJSONRequest(ctx, http.MethodDelete, assetPath(publicID, ""), nil)
	if err != nil {
		return nil, err
	}
	return c.doAction(req)
}

// ListAssets lists assets newest first
func (c *Client) ListAssets(ctx context.Context, filter ListFilter) ([]Asset, error) {
	params := url.Values{}
	setIf(params, "user_id", filter.UserID)
	setIf(params, "folder", filter.Folder)
	setIf(params, "tag", filter.Tag)
	setIf(params, "status", filter.Status)
	if filter.Before != nil {
		params.Set("before", filter.Before.UTC().Format(time.RFC3339))
	}
	if filter.Limit > 0 {
		params.Set("limit", strconv.Itoa(filter.Limit))
	}

	path := apiPrefix + "/"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var resp struct {
		Assets []Asset `json:"assets"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Assets, nil
}

// GetAsset returns nil, nil when the asset is unknown
func (c *Client) GetAsset(ctx context.Context, publicID string) (*Asset, error) {
	var asset Asset
	err := c.doJSON(ctx, http.MethodGet, assetPath(publicID, ""), nil, &asset)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// UpdateAsset replaces the tags and/or metadata of an asset
func (c *Client) UpdateAsset(ctx context.Context, publicID string, in UpdateAssetInput) (*Asset, error) {
	var asset Asset
	if err := c.doJSON(ctx, http.MethodPatch, assetPath(publicID, ""), in, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

// Transform returns the delivery URLs of publicID under t
func (c *Client) Transform(ctx context.Context, publicID string, t Transformation) (*TransformResult, error) {
	var result TransformResult
	if err := c.doJSON(ctx, http.MethodPost, assetPath(publicID, "/transform"), t, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateUploadCredentials asks the API to sign a direct upload
func (c *Client) GenerateUploadCredentials(ctx context.Context, in CredentialsInput) (*UploadCredentials, error) {
	var creds UploadCredentials
	if err := c.doJSON(ctx, http.MethodPost, apiPrefix+"/upload/credentials", in, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// FinalizeUpload records a direct upload cloudinary accepted
func (c *Client) FinalizeUpload(ctx context.Context, in FinalizeInput) (*Asset, error) {
	var asset Asset
	if err := c.doJSON(ctx, http.MethodPost, apiPrefix+"/upload/finalize", in, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

// UpdateUploadStatus moves an asset to status
func (c *Client) UpdateUploadStatus(ctx context.Context, publicID string, status string, errorMessage string) (*Asset, error) {
	body := map[string]string{"status": status}
	if errorMessage != "" {
		body["errorMessage"] = errorMessage
	}
	var asset Asset
	if err := c.doJSON(ctx, http.MethodPatch, assetPath(publicID, "/status"), body, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

// VerifyAsset checks the remote image of publicID
func (c *Client) VerifyAsset(ctx context.Context, publicID string) (*VerifyResult, error) {
	var result VerifyResult
	if err := c.doJSON(ctx, http.MethodPost, assetPath(publicID, "/verify"), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func assetPath(publicID string, suffix string) string {
	return apiPrefix + "/" + url.PathEscape(publicID) + suffix
}

func setIf(params url.Values, key, value string) {
	if value != "" {
		params.Set(key, value)
	}
}

func writeMultipart(writer *multipart.Writer, fields map[string]string, fileField, filename string, content []byte) error {
	for key, value := range fields {
		if value == "" {
			continue
		}
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("write field %s: %w", key, err)
		}
	}
	if filename == "" {
		filename = "file"
	}
	part, err := writer.CreateFormFile(fileField, filename)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("write file part: %w", err)
	}
	return writer.Close()
}

func (c *Client) newJSONRequest(ctx context.Context, method, path string, in any) (*http.Request, error) {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in any, out any) error {
	req, err := c.newJSONRequest(ctx, method, path, in)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("asset api request failed", "error", err, "method", method, "path", path)
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// doAction decodes {success, asset, error} whatever the status code
func (c *Client) doAction(req *http.Request) (*ActionResult, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("asset api request failed", "error", err, "method", req.Method, "path", req.URL.Path)
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	var result ActionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body struct {
		Error string `json:"error"`
		Field string `json:"field"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.Field = body.Field
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

var _ AssetAPI = (*Client)(nil)

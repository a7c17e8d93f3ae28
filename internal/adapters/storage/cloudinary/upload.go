package cloudinary

import (
	"bytes"
	"cloudinary-assets/internal/core/domain"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"
)

type errorBody struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type uploadResponse struct {
	errorBody
	PublicID         string    `json:"public_id"`
	Version          int64     `json:"version"`
	Signature        string    `json:"signature"`
	Width            int       `json:"width"`
	Height           int       `json:"height"`
	Format           string    `json:"format"`
	Bytes            int64     `json:"bytes"`
	URL              string    `json:"url"`
	SecureURL        string    `json:"secure_url"`
	OriginalFilename string    `json:"original_filename"`
	Tags             []string  `json:"tags"`
	CreatedAt        time.Time `json:"created_at"`
}

// Upload sends one signed upload to cloudinary
func (a *Adapter) Upload(ctx context.Context, upload domain.RemoteUpload) (asset *domain.RemoteAsset, err error) {
	start := time.Now()
	defer func() { a.observe("upload", start, err) }()

	signed, err := a.signer.Sign(upload.Params)
	if err != nil {
		return nil, err
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range upload.Params {
		if v == "" {
			continue
		}
		if err := writer.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("failed to write upload field %s: %w", k, err)
		}
	}
	fields := map[string]string{
		"api_key":   a.config.APIKey,
		"timestamp": strconv.FormatInt(signed.Timestamp, 10),
		"signature": signed.Signature,
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("failed to write upload field %s: %w", k, err)
		}
	}

	if upload.DataURI != "" {
		if err := writer.WriteField("file", upload.DataURI); err != nil {
			return nil, fmt.Errorf("failed to write file field: %w", err)
		}
	} else {
		filename := upload.Filename
		if filename == "" {
			filename = "file"
		}
		part, err := writer.CreateFormFile("file", filename)
		if err != nil {
			return nil, fmt.Errorf("failed to create file part: %w", err)
		}
		if _, err := part.Write(upload.Content); err != nil {
			return nil, fmt.Errorf("failed to write file part: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.UploadURL(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var resp uploadResponse
	if err := a.do(req, "upload", &resp); err != nil {
		return nil, err
	}

	a.observer.ObserveUploadedBytes(resp.Bytes)
	a.logger.DebugContext(ctx, "uploaded asset to cloudinary", "public_id", resp.PublicID, "bytes", resp.Bytes)

	return &domain.RemoteAsset{
		PublicID:         resp.PublicID,
		Version:          resp.Version,
		Signature:        resp.Signature,
		URL:              resp.URL,
		SecureURL:        resp.SecureURL,
		Format:           resp.Format,
		Width:            resp.Width,
		Height:           resp.Height,
		Bytes:            resp.Bytes,
		OriginalFilename: resp.OriginalFilename,
		Tags:             resp.Tags,
		CreatedAt:        resp.CreatedAt,
	}, nil
}

// do sends req and decodes a 2xx JSON body into out
func (a *Adapter) do(req *http.Request, operation string, out any) error {
	res, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s request: %w", domain.ErrRemote, operation, err)
	}
	defer res.Body.Close()

	data, err := readAllWithLimit(res.Body, a.config.MaxResponseBytes)
	if err != nil {
		return fmt.Errorf("%w: reading %s response: %w", domain.ErrRemote, operation, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		remoteErr := &RemoteError{Operation: operation, StatusCode: res.StatusCode, Body: string(data)}
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil && eb.Error != nil {
			remoteErr.Message = eb.Error.Message
		}
		return remoteErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decoding %s response: %w", domain.ErrRemote, operation, err)
	}
	return nil
}

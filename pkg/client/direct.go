package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// cloudinaryUploadResponse is the subset of the cloudinary upload answer relayed to finalize
type cloudinaryUploadResponse struct {
	PublicID         string   `json:"public_id"`
	Version          int64    `json:"version"`
	Signature        string   `json:"signature"`
	URL              string   `json:"url"`
	SecureURL        string   `json:"secure_url"`
	Format           string   `json:"format"`
	Width            *int     `json:"width"`
	Height           *int     `json:"height"`
	Bytes            *int64   `json:"bytes"`
	OriginalFilename string   `json:"original_filename"`
	Folder           string   `json:"folder"`
	Tags             []string `json:"tags"`
	Error            *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// UploadDirect uploads in without streaming the file through the asset API:
// it requests signed credentials, posts the file to cloudinary with every signed parameter
// and finalizes the upload with the cloudinary answer.
// When a public id is given the reserved placeholder is moved to uploading, and to failed if cloudinary rejects the file.
func (c *Client) UploadDirect(ctx context.Context, in DirectUploadInput) (*Asset, error) {
	creds, err := c.GenerateUploadCredentials(ctx, CredentialsInput{
		Folder:         in.Folder,
		Tags:           in.Tags,
		PublicID:       in.PublicID,
		Transformation: in.Transformation,
		UserID:         in.UserID,
	})
	if err != nil {
		return nil, fmt.Errorf("request upload credentials: %w", err)
	}

	reserved := creds.PublicID
	if reserved == "" {
		reserved = in.PublicID
	}
	if reserved != "" {
		if _, err := c.UpdateUploadStatus(ctx, reserved, StatusUploading, ""); err != nil {
			return nil, fmt.Errorf("mark upload started: %w", err)
		}
	}

	uploaded, err := c.postToCloudinary(ctx, creds, in)
	if err != nil {
		if reserved != "" {
			if _, statusErr := c.UpdateUploadStatus(ctx, reserved, StatusFailed, err.Error()); statusErr != nil {
				c.logger.Warn("failed to mark upload failed", "public_id", reserved, "error", statusErr)
			}
		}
		return nil, err
	}

	folder := uploaded.Folder
	if folder == "" {
		folder = in.Folder
	}
	tags := uploaded.Tags
	if len(tags) == 0 {
		tags = in.Tags
	}

	asset, err := c.FinalizeUpload(ctx, FinalizeInput{
		PublicID:         uploaded.PublicID,
		Version:          uploaded.Version,
		Signature:        uploaded.Signature,
		URL:              uploaded.URL,
		SecureURL:        uploaded.SecureURL,
		Format:           uploaded.Format,
		Width:            uploaded.Width,
		Height:           uploaded.Height,
		Bytes:            uploaded.Bytes,
		OriginalFilename: uploaded.OriginalFilename,
		Folder:           folder,
		Tags:             tags,
		Metadata:         in.Metadata,
		UserID:           in.UserID,
	})
	if err != nil {
		return nil, fmt.Errorf("finalize upload %s: %w", uploaded.PublicID, err)
	}
	return asset, nil
}

func (c *Client) postToCloudinary(ctx context.Context, creds *UploadCredentials, in DirectUploadInput) (*cloudinaryUploadResponse, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writeMultipart(writer, creds.UploadParams, "file", in.Filename, in.Content); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, creds.UploadURL, &body)
	if err != nil {
		return nil, fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("cloudinary upload failed", "error", err)
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read upload response: %w", err)
	}

	var uploaded cloudinaryUploadResponse
	decodeErr := json.Unmarshal(raw, &uploaded)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := http.StatusText(resp.StatusCode)
		if decodeErr == nil && uploaded.Error != nil && uploaded.Error.Message != "" {
			message = uploaded.Error.Message
		}
		return nil, &UploadError{StatusCode: resp.StatusCode, Message: message}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode upload response: %w", decodeErr)
	}
	return &uploaded, nil
}

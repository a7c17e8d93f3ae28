package cloudinary

import (
	"cloudinary-assets/internal/core/domain"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type destroyResponse struct {
	errorBody
	Result string `json:"result"`
}

// Destroy removes an image from cloudinary and invalidates its cached derivatives
func (a *Adapter) Destroy(ctx context.Context, publicID string) (result domain.DestroyResult, err error) {
	start := time.Now()
	defer func() { a.observe("destroy", start, err) }()

	params := map[string]string{
		"public_id":  publicID,
		"invalidate": "true",
	}
	signed, err := a.signer.Sign(params)
	if err != nil {
		return "", err
	}

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	form.Set("api_key", a.config.APIKey)
	form.Set("timestamp", strconv.FormatInt(signed.Timestamp, 10))
	form.Set("signature", signed.Signature)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.DestroyURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build destroy request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp destroyResponse
	if err := a.do(req, "destroy", &resp); err != nil {
		return "", err
	}

	switch domain.DestroyResult(resp.Result) {
	case domain.DestroyResultOK, domain.DestroyResultNotFound:
		return domain.DestroyResult(resp.Result), nil
	default:
		return "", &RemoteError{Operation: "destroy", StatusCode: http.StatusOK, Message: fmt.Sprintf("unexpected result %q", resp.Result)}
	}
}

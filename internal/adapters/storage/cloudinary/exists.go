package cloudinary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
)

// Exists asks the admin API whether the image is still stored
func (a *Adapter) Exists(ctx context.Context, publicID string) (exists bool, err error) {
	start := time.Now()
	defer func() { a.observe("exists", start, err) }()

	res, err := a.admin.Admin.Asset(ctx, admin.AssetParams{
		PublicID:     publicID,
		AssetType:    api.Image,
		DeliveryType: api.Upload,
	})
	if err != nil {
		return false, fmt.Errorf("failed to look up %s: %w", publicID, &RemoteError{Operation: "exists", Message: err.Error()})
	}
	if res.Error.Message != "" {
		if strings.Contains(strings.ToLower(res.Error.Message), "not found") {
			return false, nil
		}
		return false, &RemoteError{Operation: "exists", Message: res.Error.Message}
	}
	return res.PublicID != "", nil
}

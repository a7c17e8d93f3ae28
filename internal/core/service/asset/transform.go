package asset

import (
	"cloudinary-assets/internal/core/domain"
	"cloudinary-assets/internal/core/transformation"
	"context"
	"strings"
)

// Transform builds the delivery URLs of a transformed image, no remote call is made
func (s *assetService) Transform(_ context.Context, publicID string, t domain.Transformation) (*domain.TransformResult, error) {
	if err := validatePublicID(publicID); err != nil {
		return nil, err
	}
	if err := transformation.Validate(t); err != nil {
		return nil, err
	}

	encoded := transformation.Encode(t)
	return &domain.TransformResult{
		URL:            s.deliveryURL(false, encoded, publicID),
		SecureURL:      s.deliveryURL(true, encoded, publicID),
		Transformation: encoded,
	}, nil
}

func (s *assetService) deliveryURL(secure bool, encoded string, publicID string) string {
	segments := []string{s.cfg.DeliveryURL(secure), s.cfg.CloudName, "image", "upload"}
	if encoded != "" {
		segments = append(segments, encoded)
	}
	segments = append(segments, publicID)
	return strings.Join(segments, "/")
}

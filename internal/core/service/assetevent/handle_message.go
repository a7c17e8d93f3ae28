package assetevent

import (
	"cloudinary-assets/internal/core/domain"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

func (a *assetEventService) HandleMessage(ctx context.Context, data []byte) error {
	var event domain.AssetEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedEvent, err)
	}
	if event.PublicID == "" {
		return fmt.Errorf("%w: missing public id", domain.ErrMalformedEvent)
	}

	a.logger.Info("handling asset event", "type", event.Type, "public_id", event.PublicID, "status", event.Status, "occurred_at", event.OccurredAt)

	switch event.Type {
	case domain.AssetEventUploaded, domain.AssetEventFinalized, domain.AssetEventUpdated, domain.AssetEventStatusChanged:
		asset, err := a.uow.AssetRepo().FindByPublicID(ctx, event.PublicID)
		if errors.Is(err, domain.ErrAssetNotFound) {
			a.logger.Warn("asset event references a missing record", "type", event.Type, "public_id", event.PublicID)
			return nil
		}
		if err != nil {
			return err
		}
		if asset.Status != event.Status {
			a.logger.Info("asset status moved on since event", "public_id", event.PublicID, "event_status", event.Status, "current_status", asset.Status)
		}
	case domain.AssetEventDeleted:
		_, err := a.uow.AssetRepo().FindByPublicID(ctx, event.PublicID)
		if err == nil {
			a.logger.Warn("deleted asset still has a local record", "public_id", event.PublicID)
			return nil
		}
		if !errors.Is(err, domain.ErrAssetNotFound) {
			return err
		}
	default:
		a.logger.Warn("ignoring unknown asset event type", "type", event.Type)
	}
	return nil
}

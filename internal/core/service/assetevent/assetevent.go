package assetevent

import (
	"cloudinary-assets/internal/core/port"
	"log/slog"
)

type assetEventService struct {
	uow    port.UnitOfWork
	logger *slog.Logger
}

// NewAssetEventService creates a handler that audits asset lifecycle events against the local records
func NewAssetEventService(uow port.UnitOfWork, logger *slog.Logger) port.MessageService {
	return &assetEventService{
		uow:    uow,
		logger: logger,
	}
}

package domain

import "time"

// AssetEventType is the kind of change an AssetEvent describes
type AssetEventType string

const (
	AssetEventUploaded      AssetEventType = "uploaded"
	AssetEventFinalized     AssetEventType = "finalized"
	AssetEventUpdated       AssetEventType = "updated"
	AssetEventDeleted       AssetEventType = "deleted"
	AssetEventStatusChanged AssetEventType = "status_changed"
)

// AssetEvent is published after every asset mutation
type AssetEvent struct {
	Type       AssetEventType `json:"type"`
	PublicID   string         `json:"publicId"`
	Status     AssetStatus    `json:"status,omitempty"`
	Folder     string         `json:"folder,omitempty"`
	UserID     string         `json:"userId,omitempty"`
	SecureURL  string         `json:"secureUrl,omitempty"`
	Tags       []string       `json:"tags,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// NewAssetEvent builds an event from an asset snapshot
func NewAssetEvent(eventType AssetEventType, asset Asset, at time.Time) AssetEvent {
	event := AssetEvent{
		Type:       eventType,
		PublicID:   asset.PublicID,
		Status:     asset.Status,
		Folder:     asset.Folder,
		SecureURL:  asset.SecureURL,
		Tags:       asset.Tags,
		OccurredAt: at,
	}
	if asset.UserID != nil {
		event.UserID = *asset.UserID
	}
	return event
}

package asset

import (
	"cloudinary-assets/internal/core/domain"
	"net/http"
	"strconv"
	"time"
)

// V1ListAssetsResponse is the response to list assets
type V1ListAssetsResponse struct {
	Assets []V1Asset `json:"assets"`
}

// ListAssetsV1 lists assets filtered by user_id, folder, status, tag and before
func (h *HandlerV1) ListAssetsV1(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := domain.ListFilter{
		UserID: query.Get("user_id"),
		Folder: query.Get("folder"),
		Tag:    query.Get("tag"),
		Status: domain.AssetStatus(query.Get("status")),
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, r, domain.NewValidationError("limit", "limit must be an integer"))
			return
		}
		filter.Limit = limit
	}
	if raw := query.Get("before"); raw != "" {
		before, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.writeError(w, r, domain.NewValidationError("before", "before must be an RFC3339 timestamp"))
			return
		}
		filter.Before = &before
	}

	assets, err := h.assetService.ListAssets(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := V1ListAssetsResponse{Assets: make([]V1Asset, 0, len(assets))}
	for _, a := range assets {
		resp.Assets = append(resp.Assets, toV1Asset(a))
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// GetAssetV1 returns one asset, 404 when it is unknown
func (h *HandlerV1) GetAssetV1(w http.ResponseWriter, r *http.Request) {
	publicID, err := publicIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	asset, err := h.assetService.GetAsset(r.Context(), publicID)
	switch {
	case err != nil:
		h.writeError(w, r, err)
	case asset == nil:
		h.writeJSON(w, http.StatusNotFound, V1ErrorResponse{Error: "asset not found"})
	default:
		h.writeJSON(w, http.StatusOK, toV1Asset(*asset))
	}
}

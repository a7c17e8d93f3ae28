package asset

import (
	"cloudinary-assets/internal/core/domain"
	"net/http"
)

// V1UpdateAssetRequest replaces tags and/or metadata, absent fields are left unchanged
type V1UpdateAssetRequest struct {
	Tags     []string       `json:"tags" validate:"max=20,dive,max=50"`
	Metadata map[string]any `json:"metadata"`
}

// UpdateAssetV1 updates the tags and metadata of an asset
func (h *HandlerV1) UpdateAssetV1(w http.ResponseWriter, r *http.Request) {
	publicID, err := publicIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req V1UpdateAssetRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	asset, err := h.assetService.UpdateAsset(r.Context(), publicID, domain.UpdateAssetRequest{
		Tags:     req.Tags,
		Metadata: req.Metadata,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toV1Asset(*asset))
}

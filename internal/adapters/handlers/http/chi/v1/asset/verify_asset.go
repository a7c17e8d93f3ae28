package asset

import (
	"net/http"
)

// V1VerifyResponse reports whether the remote asset exists
type V1VerifyResponse struct {
	PublicID string `json:"publicId"`
	Exists   bool   `json:"exists"`
	Removed  bool   `json:"removed"`
}

// VerifyAssetV1 checks the remote asset and drops a stale local record
func (h *HandlerV1) VerifyAssetV1(w http.ResponseWriter, r *http.Request) {
	publicID, err := publicIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.assetService.VerifyAsset(r.Context(), publicID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, V1VerifyResponse{
		PublicID: result.PublicID,
		Exists:   result.Exists,
		Removed:  result.Removed,
	})
}

package asset

import (
	"net/http"
)

// DeleteAssetV1 destroys the remote image then the local record
func (h *HandlerV1) DeleteAssetV1(w http.ResponseWriter, r *http.Request) {
	publicID, err := publicIDParam(r)
	if err != nil {
		h.writeAction(w, http.StatusBadRequest, false, nil, err.Error())
		return
	}

	result := h.assetService.DeleteAsset(r.Context(), publicID)
	if !result.Success {
		status := statusFor(result.Err)
		if status >= http.StatusInternalServerError {
			h.logger.ErrorContext(r.Context(), "delete failed", "public_id", publicID, "error", result.Error)
		}
		h.writeAction(w, status, false, nil, result.Error)
		return
	}
	h.writeAction(w, http.StatusOK, true, nil, "")
}

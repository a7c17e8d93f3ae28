package asset

import (
	"cloudinary-assets/internal/core/domain"
	"net/http"
)

// V1TransformResponse carries the delivery URLs of a transformed asset
type V1TransformResponse struct {
	URL            string `json:"url"`
	SecureURL      string `json:"secureUrl"`
	Transformation string `json:"transformation"`
}

// TransformV1 builds the delivery URL of an asset, the body is the transformation
func (h *HandlerV1) TransformV1(w http.ResponseWriter, r *http.Request) {
	publicID, err := publicIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var t domain.Transformation
	if err := h.decode(r, &t); err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.assetService.Transform(r.Context(), publicID, t)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, V1TransformResponse{
		URL:            result.URL,
		SecureURL:      result.SecureURL,
		Transformation: result.Transformation,
	})
}

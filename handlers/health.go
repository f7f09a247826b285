// ABOUTME: Health endpoint for the standalone gateway server
// ABOUTME: Reports liveness and the configured upstream without calling it

package handlers

import (
	"net/http"

	"github.com/markalston/classeviva-gateway/config"
	"github.com/markalston/classeviva-gateway/models"
)

// Health reports that the process is serving. It never contacts the upstream.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status:   "ok",
		Upstream: config.DefaultUpstreamURL,
	}
	if h.cfg != nil {
		resp.Upstream = h.cfg.UpstreamURL
	}

	writeJSON(w, http.StatusOK, resp)
}

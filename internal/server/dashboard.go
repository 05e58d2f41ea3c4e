package server

import (
	"net/http"

	"github.com/pocketcrm/go-sync/internal/logger"
)

// getDashboard serves the stored dashboard summary without touching the
// network. 404 means no summary has ever been cached.
func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	summary, err := h.services.Dashboard.Cached(r.Context())
	if err != nil {
		log.Error().Str("func", "*Handler.getDashboard").Err(err).Msg("error loading cached dashboard summary")
		http.Error(w, "error loading cached dashboard summary", statusFromError(err))
		return
	}

	writeJSON(w, summary, http.StatusOK)
}

// refreshDashboard refetches the summary when it has gone stale; ?force=true
// refetches unconditionally.
func (h *Handler) refreshDashboard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	force := r.URL.Query().Get("force") == "true"

	summary, err := h.services.Dashboard.Refresh(r.Context(), force)
	if err != nil {
		log.Error().Str("func", "*Handler.refreshDashboard").Err(err).Msg("error refreshing dashboard summary")
		http.Error(w, "error refreshing dashboard summary", statusFromError(err))
		return
	}

	writeJSON(w, summary, http.StatusOK)
}

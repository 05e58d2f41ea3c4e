package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pocketcrm/go-sync/internal/logger"
)

// setLifecycleState records an app lifecycle transition signalled by the
// host application. The scheduler reacts on its own; the endpoint just
// feeds the observer.
func (h *Handler) setLifecycleState(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	switch state := chi.URLParam(r, "state"); state {
	case "foreground":
		h.observer.SetForeground()
	case "background":
		h.observer.SetBackground()
	default:
		log.Error().Str("func", "*Handler.setLifecycleState").Str("state", state).Msg("unknown lifecycle state")
		http.Error(w, "unknown lifecycle state", http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// setNetworkState records a connectivity transition signalled by the host
// application.
func (h *Handler) setNetworkState(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	switch state := chi.URLParam(r, "state"); state {
	case "online":
		h.probe.SetOnline(true)
	case "offline":
		h.probe.SetOnline(false)
	default:
		log.Error().Str("func", "*Handler.setNetworkState").Str("state", state).Msg("unknown network state")
		http.Error(w, "unknown network state", http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

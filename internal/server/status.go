package server

import (
	"net/http"

	"github.com/pocketcrm/go-sync/internal/auth"
	"github.com/pocketcrm/go-sync/internal/logger"
	"github.com/pocketcrm/go-sync/models"
)

// getStatus reports the engine snapshot: build identity, scheduler state,
// how long the current session token lasts, and per-entity last-sync times.
func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	response := models.StatusResponse{
		Version:     h.build.Version,
		BuildDate:   h.build.Date,
		BuildCommit: h.build.Commit,
		Scheduler:   h.services.Scheduler.Status(ctx),
	}

	// Token problems degrade the field, not the endpoint: status must stay
	// readable while the operator sorts out credentials.
	if token, err := h.tokens.Token(ctx); err != nil {
		log.Warn().Str("func", "*Handler.getStatus").Err(err).Msg("token source unavailable")
	} else if token != "" {
		expiresAt, expErr := auth.TokenExpiry(token)
		if expErr != nil {
			log.Warn().Str("func", "*Handler.getStatus").Err(expErr).Msg("could not read token expiry")
		} else {
			response.TokenExpiresAt = expiresAt
		}
	}

	meta, err := h.records.GetAllMetadata(ctx)
	if err != nil {
		log.Error().Str("func", "*Handler.getStatus").Err(err).Msg("error loading entity sync metadata")
		http.Error(w, "error loading entity sync metadata", statusFromError(err))
		return
	}
	response.Entities = meta

	writeJSON(w, response, http.StatusOK)
}

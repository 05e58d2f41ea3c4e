package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/pocketcrm/go-sync/internal/logger"
	"github.com/pocketcrm/go-sync/internal/store"
	"github.com/pocketcrm/go-sync/models"
)

// getRecords serves one entity's cached records straight from the local
// store. The endpoint never touches the network, so it answers the same
// offline as online; ?status= and ?limit= narrow the result.
func (h *Handler) getRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	entity := r.URL.Query().Get("entity")
	if entity == "" {
		log.Error().Str("func", "*Handler.getRecords").Msg("entity query parameter is required")
		http.Error(w, "entity query parameter is required", http.StatusBadRequest)
		return
	}

	query := store.RecordQuery{Status: r.URL.Query().Get("status")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			log.Error().Str("func", "*Handler.getRecords").Str("limit", raw).Msg("limit must be a non-negative integer")
			http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		query.Limit = limit
	}

	records, err := h.records.GetRecords(ctx, entity, query)
	if err != nil {
		log.Error().Str("func", "*Handler.getRecords").Err(err).Msg("error reading cached records")
		http.Error(w, "error reading cached records", statusFromError(err))
		return
	}

	response := models.RecordsResponse{
		Entity:  entity,
		Records: records,
		Count:   len(records),
	}

	// A missing marker just means the entity was never synced; the rows
	// themselves are still worth returning.
	meta, err := h.records.GetMetadata(ctx, entity)
	switch {
	case err == nil:
		response.LastSyncAt = meta.LastSyncAt
	case !errors.Is(err, store.ErrMetadataNotFound):
		log.Warn().Str("func", "*Handler.getRecords").Err(err).Msg("error reading sync metadata")
	}

	writeJSON(w, response, http.StatusOK)
}

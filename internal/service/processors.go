package service

import (
	"strings"

	"github.com/pocketcrm/go-sync/internal/config"
	"github.com/pocketcrm/go-sync/models"
)

// NormalizeNotificationStatuses maps the server's historical notification
// status labels onto the canonical read/unread pair the app renders.
// Unknown labels pass through lowercased.
func NormalizeNotificationStatuses(records []models.RemoteRecord) []models.RemoteRecord {
	out := make([]models.RemoteRecord, len(records))
	copy(out, records)
	for i := range out {
		switch status := strings.ToLower(out[i].Status); status {
		case "", "new", "unseen":
			out[i].Status = "unread"
		case "seen", "viewed":
			out[i].Status = "read"
		default:
			out[i].Status = status
		}
	}
	return out
}

// processorFor returns the built-in post-fetch processor for an entity,
// nil when it has none.
func processorFor(entity string) models.ProcessorFunc {
	if entity == "notifications" {
		return NormalizeNotificationStatuses
	}
	return nil
}

// buildSyncEntities maps configured entities onto runtime descriptors with
// their built-in processors attached.
func buildSyncEntities(entities []config.Entity) []models.SyncEntity {
	out := make([]models.SyncEntity, 0, len(entities))
	for _, e := range entities {
		out = append(out, models.SyncEntity{
			Name:        e.Name,
			Endpoint:    e.Endpoint,
			MetadataKey: e.MetadataKey,
			PageLimit:   e.PageLimit,
			Processor:   processorFor(e.Name),
		})
	}
	return out
}

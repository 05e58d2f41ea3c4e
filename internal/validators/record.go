package validators

import (
	"context"

	"github.com/pocketcrm/go-sync/models"
)

// Field name constants used to specify which fields should be validated.
// These constants are passed to Validate to restrict validation to a subset
// of fields (field-level scoping).
const (
	// FieldRecordID targets the server-issued unique identifier of a record.
	FieldRecordID = "id"

	// FieldDisplayName targets the human-readable name of a record.
	FieldDisplayName = "display_name"

	// FieldEntityName targets the name of a configured sync entity.
	FieldEntityName = "entity_name"

	// FieldEntityEndpoint targets the fetch endpoint of a sync entity.
	FieldEntityEndpoint = "entity_endpoint"

	// FieldEntityPageLimit targets the per-page fetch size of a sync entity.
	FieldEntityPageLimit = "entity_page_limit"
)

// RecordValidator implements the Validator interface for the sync engine's
// inputs: records fetched from the server (before they are diffed and
// persisted) and sync entity configurations (before an engine accepts them).
//
// It supports both value and pointer receivers for every model type
// and allows optional field-level scoping via variadic field name arguments.
type RecordValidator struct {
}

// NewRecordValidator constructs a new RecordValidator
// and returns it as the Validator interface.
func NewRecordValidator() Validator {
	return &RecordValidator{}
}

// Validate dispatches validation to the appropriate type-specific method
// based on the dynamic type of obj. Both value and pointer forms of each
// supported model are accepted.
//
// Supported types:
//   - models.RemoteRecord / *models.RemoteRecord
//   - models.SyncEntity / *models.SyncEntity
//
// Returns ErrUnsupportedType if obj does not match any known model.
// Optional fields restrict validation to the named subset; when omitted,
// a sensible default set of fields is validated.
func (v *RecordValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.RemoteRecord:
		return v.validateRemoteRecord(ctx, value, fields...)
	case *models.RemoteRecord:
		return v.validateRemoteRecord(ctx, *value, fields...)

	case models.SyncEntity:
		return v.validateSyncEntity(ctx, value, fields...)
	case *models.SyncEntity:
		return v.validateSyncEntity(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// validateRemoteRecord validates a single fetched record.
//
// Default validated fields (when none specified): ID, DisplayName.
// A record failing validation is skipped by the sync pipeline rather than
// aborting the run, so the error names the first offending field.
func (v *RecordValidator) validateRemoteRecord(_ context.Context, record models.RemoteRecord, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldRecordID, FieldDisplayName}
	}

	for _, f := range fields {
		switch f {
		case FieldRecordID:
			if record.ID == "" {
				return ErrMissingRecordID
			}
		case FieldDisplayName:
			if record.DisplayName == "" {
				return ErrMissingDisplayName
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateSyncEntity validates a sync entity configuration.
//
// Default validated fields (when none specified): Name, Endpoint, PageLimit.
// A zero PageLimit is valid (the engine substitutes its default); a negative
// one is not.
func (v *RecordValidator) validateSyncEntity(_ context.Context, entity models.SyncEntity, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEntityName, FieldEntityEndpoint, FieldEntityPageLimit}
	}

	for _, f := range fields {
		switch f {
		case FieldEntityName:
			if entity.Name == "" {
				return ErrMissingEntityName
			}
		case FieldEntityEndpoint:
			if entity.Endpoint == "" {
				return ErrMissingEndpoint
			}
		case FieldEntityPageLimit:
			if entity.PageLimit < 0 {
				return ErrInvalidPageLimit
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

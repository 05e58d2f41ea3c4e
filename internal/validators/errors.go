package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrMissingRecordID    = errors.New("record id is required")
	ErrMissingDisplayName = errors.New("record display name is required")
	ErrMissingEntityName  = errors.New("entity name is required")
	ErrMissingEndpoint    = errors.New("entity endpoint is required")
	ErrInvalidPageLimit   = errors.New("invalid page limit")
)

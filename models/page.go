package models

import "encoding/json"

// Page is one decoded page of a paginated entity fetch.
type Page struct {
	Items  []RemoteRecord `json:"items"`
	Total  int            `json:"total"`
	Offset int            `json:"offset"`
	Limit  int            `json:"limit"`
}

// PageEnvelope is the server's wire format for a paginated list response.
type PageEnvelope struct {
	Success bool     `json:"success"`
	Data    PageData `json:"data"`
	Error   string   `json:"error,omitempty"`
}

// PageData carries the raw items of a page. Items stay raw so the
// original object can be retained next to the decoded tracked fields.
type PageData struct {
	Items  []json.RawMessage `json:"items"`
	Total  int               `json:"total"`
	Offset int               `json:"offset"`
	Limit  int               `json:"limit"`
}

// SummaryEnvelope is the server's wire format for the dashboard summary.
type SummaryEnvelope struct {
	Success bool             `json:"success"`
	Data    DashboardSummary `json:"data"`
	Error   string           `json:"error,omitempty"`
}

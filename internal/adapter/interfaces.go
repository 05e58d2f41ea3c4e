// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

// Package adapter provides the transport layer for talking to the PocketCRM
// server.
//
// The primary abstraction is [ServerAdapter], which decouples the sync
// pipeline from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPServerAdapter]) with bounded exponential-backoff
// retries for transient failures.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrAuthExpired] for 401/403, [ErrServerError] for
// 5xx).
package adapter

import (
	"context"

	"github.com/pocketcrm/go-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the PocketCRM
// server. Implementations are responsible for serialisation, authentication
// header management, retry policy, and mapping transport-level errors to the
// sentinel values defined in this package.
type ServerAdapter interface {
	// FetchPage retrieves one page of an entity's collection starting at
	// offset. Transient failures (5xx, 429, transport errors) are retried
	// with exponential backoff before the last error is surfaced;
	// auth rejections and other 4xx responses fail immediately.
	FetchPage(ctx context.Context, entity models.SyncEntity, offset, limit int) (models.Page, error)

	// FetchSummary retrieves the aggregated dashboard summary. It shares
	// the retry policy of FetchPage.
	FetchSummary(ctx context.Context) (models.DashboardSummary, error)

	// Ping performs a lightweight reachability check. Any completed HTTP
	// exchange counts as reachable; only transport-level failures are
	// reported as errors.
	Ping(ctx context.Context) error
}

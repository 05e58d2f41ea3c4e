// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

package auth

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/auth_mock.go -package=mock

// TokenSource supplies the bearer token for outbound server calls. The
// engine never performs login itself; tokens come from the embedding
// application or an external login flow.
type TokenSource interface {
	// Token returns the current bearer token. An empty token with a nil
	// error means the agent runs unauthenticated.
	Token(ctx context.Context) (string, error)
}

// ReauthNotifier is told when the server rejects the current credentials,
// so the embedding application can route the user through its login flow.
// Sync failure reporting happens separately; this is a side channel.
type ReauthNotifier interface {
	NotifyReauthRequired(ctx context.Context, cause error)
}

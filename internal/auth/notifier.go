package auth

import (
	"context"

	"github.com/pocketcrm/go-sync/internal/logger"
)

// LogNotifier reports re-auth demands to the log only. It is the default
// for headless deployments where no UI can react anyway.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier builds a ReauthNotifier that only logs.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// NotifyReauthRequired implements ReauthNotifier.
func (n *LogNotifier) NotifyReauthRequired(_ context.Context, cause error) {
	n.log.Warn().
		Str("func", "LogNotifier.NotifyReauthRequired").
		Err(cause).
		Msg("server rejected credentials, re-authentication required")
}

// ChannelNotifier forwards re-auth demands to a channel the embedding
// application drains. Notifications are collapsed: while one is pending
// undelivered, further ones are dropped.
type ChannelNotifier struct {
	ch chan error
}

// NewChannelNotifier builds a ReauthNotifier with a buffer of one pending
// notification.
func NewChannelNotifier() *ChannelNotifier {
	return &ChannelNotifier{ch: make(chan error, 1)}
}

// NotifyReauthRequired implements ReauthNotifier.
func (n *ChannelNotifier) NotifyReauthRequired(_ context.Context, cause error) {
	select {
	case n.ch <- cause:
	default:
	}
}

// C returns the channel notifications arrive on.
func (n *ChannelNotifier) C() <-chan error {
	return n.ch
}

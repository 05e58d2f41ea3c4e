package adapter

import "errors"

var (
	// ErrAuthExpired covers 401 and 403 responses. Never retried.
	ErrAuthExpired = errors.New("authentication expired")
	// ErrBadRequest covers 400 and other client-fault responses. Never retried.
	ErrBadRequest = errors.New("bad request rejected by server")
	// ErrNotFound covers 404 responses. Never retried.
	ErrNotFound = errors.New("resource not found")
	// ErrServerError covers 5xx responses. Retried with backoff.
	ErrServerError = errors.New("server error")
	// ErrServerBusy covers 429 responses. Retried with backoff.
	ErrServerBusy = errors.New("server busy")
	// ErrNetwork covers transport-level failures (DNS, refused connection,
	// timeout). Retried with backoff.
	ErrNetwork = errors.New("network error")
	// ErrMalformedPage flags a page whose envelope does not add up
	// (more items than the limit, or accounting past the reported total).
	// Never retried.
	ErrMalformedPage = errors.New("malformed page response")
)

// isRetryable reports whether err belongs to the transient error classes
// the retry loop may attempt again.
func isRetryable(err error) bool {
	return errors.Is(err, ErrServerError) ||
		errors.Is(err, ErrServerBusy) ||
		errors.Is(err, ErrNetwork)
}

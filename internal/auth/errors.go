package auth

import "errors"

var (
	// ErrNoToken signals that no token is available from the source
	// (for example, the token file does not exist yet).
	ErrNoToken = errors.New("no auth token available")
	// ErrMalformedToken signals a token that could not be decoded as JWT.
	ErrMalformedToken = errors.New("malformed auth token")
)

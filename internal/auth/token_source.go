package auth

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// StaticTokenSource returns the same token forever. Useful for tests and
// deployments where the token is injected via configuration.
type StaticTokenSource struct {
	token string
}

// NewStaticTokenSource builds a TokenSource around a fixed token.
func NewStaticTokenSource(token string) *StaticTokenSource {
	return &StaticTokenSource{token: token}
}

// Token implements TokenSource.
func (s *StaticTokenSource) Token(_ context.Context) (string, error) {
	return s.token, nil
}

// FileTokenSource reads the token from a file and caches it until the
// file's modification time changes. An external login flow can rotate the
// token by rewriting the file; the agent picks it up on the next request.
type FileTokenSource struct {
	path string

	mu      sync.Mutex
	cached  string
	modTime time.Time
}

// NewFileTokenSource builds a TokenSource reading from path.
func NewFileTokenSource(path string) *FileTokenSource {
	return &FileTokenSource{path: path}
}

// Token implements TokenSource. A missing file is reported as ErrNoToken.
func (s *FileTokenSource) Token(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNoToken, s.path)
		}
		return "", fmt.Errorf("stat token file: %w", err)
	}

	if !info.ModTime().Equal(s.modTime) || s.cached == "" {
		raw, err := os.ReadFile(s.path)
		if err != nil {
			return "", fmt.Errorf("read token file: %w", err)
		}
		s.cached = strings.TrimSpace(string(raw))
		s.modTime = info.ModTime()
	}

	return s.cached, nil
}

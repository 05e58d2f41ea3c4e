// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

package auth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketcrm/go-sync/internal/logger"
)

func TestStaticTokenSource(t *testing.T) {
	src := NewStaticTokenSource("tok-123")

	got, err := src.Token(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "tok-123", got)
}

func TestFileTokenSource_ReadsAndTrims(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("  tok-from-file\n"), 0o600))
	src := NewFileTokenSource(path)

	// Act
	got, err := src.Token(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "tok-from-file", got)
}

func TestFileTokenSource_PicksUpRotation(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("old-token"), 0o600))
	src := NewFileTokenSource(path)

	first, err := src.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "old-token", first)

	// rewrite with a bumped mtime so the cache is invalidated
	require.NoError(t, os.WriteFile(path, []byte("new-token"), 0o600))
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	// Act
	second, err := src.Token(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "new-token", second)
}

func TestFileTokenSource_MissingFile(t *testing.T) {
	src := NewFileTokenSource(filepath.Join(t.TempDir(), "absent"))

	_, err := src.Token(context.Background())

	require.ErrorIs(t, err, ErrNoToken)
}

func TestTokenExpiry_WithExpClaim(t *testing.T) {
	// Arrange
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "42",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	// Act
	got, err := TokenExpiry(signed)

	// Assert
	require.NoError(t, err)
	assert.True(t, got.Equal(exp), "want %v, got %v", exp, got)
}

func TestTokenExpiry_WithoutExpClaim(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "42"})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	got, err := TokenExpiry(signed)

	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestTokenExpiry_Malformed(t *testing.T) {
	_, err := TokenExpiry("not-a-jwt")

	require.ErrorIs(t, err, ErrMalformedToken)
}

func TestChannelNotifier_CollapsesPending(t *testing.T) {
	n := NewChannelNotifier()
	cause := errors.New("401 unauthorized")

	n.NotifyReauthRequired(context.Background(), cause)
	// second notification while the first is pending is dropped
	n.NotifyReauthRequired(context.Background(), errors.New("another"))

	got := <-n.C()
	assert.Equal(t, cause, got)

	select {
	case extra := <-n.C():
		t.Fatalf("expected collapsed notifications, got %v", extra)
	default:
	}
}

func TestLogNotifier_DoesNotPanic(t *testing.T) {
	n := NewLogNotifier(logger.Nop())

	n.NotifyReauthRequired(context.Background(), errors.New("401"))
}

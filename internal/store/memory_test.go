package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryVersionContract(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	_, err := s.GetFile(ctx, "ws/manifest.json")
	require.Error(t, err)
	assert.True(t, s.IsNotFound(err))

	// Creation requires no token.
	sha, err := s.PutFile(ctx, "ws/manifest.json", []byte("v1"), "create", "")
	require.NoError(t, err)
	require.NotEmpty(t, sha)

	// Creating over an existing file is a conflict.
	_, err = s.PutFile(ctx, "ws/manifest.json", []byte("v2"), "create again", "")
	require.Error(t, err)
	assert.False(t, s.IsNotFound(err))

	// Overwrite with the current token succeeds and moves the token forward.
	sha2, err := s.PutFile(ctx, "ws/manifest.json", []byte("v2"), "update", sha)
	require.NoError(t, err)
	assert.NotEqual(t, sha, sha2)

	// The old token is now stale.
	_, err = s.PutFile(ctx, "ws/manifest.json", []byte("v3"), "stale update", sha)
	require.Error(t, err)

	file, err := s.GetFile(ctx, "ws/manifest.json")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(file.Content))
	assert.Equal(t, sha2, file.SHA)
}

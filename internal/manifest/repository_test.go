package manifest

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whatever-dev-ws/p5-tool-uploader/internal/model"
	"github.com/whatever-dev-ws/p5-tool-uploader/internal/store"
)

func tool(id string) model.Tool {
	return model.Tool{
		ID:         id,
		Author:     "Ada",
		Name:       "Spiral",
		Model:      "gpt-4o",
		URL:        "ws/tools/" + id + ".js",
		UploadedAt: time.Now().UTC(),
	}
}

func read(t *testing.T, s store.Store, workshop string) model.Manifest {
	t.Helper()

	file, err := s.GetFile(context.Background(), workshop+"/"+Filename)
	require.NoError(t, err)

	var m model.Manifest
	require.NoError(t, json.Unmarshal(file.Content, &m))
	return m
}

func TestRepositoryAddToolCreatesManifest(t *testing.T) {
	s := store.NewMemory()
	r := NewRepository(s, "ws")

	require.NoError(t, r.AddTool(context.Background(), tool("ada-spiral-a1b2c3")))

	m := read(t, s, "ws")
	require.Len(t, m.Tools, 1)
	assert.Equal(t, "ada-spiral-a1b2c3", m.Tools[0].ID)
	assert.NotNil(t, m.Outputs)
	assert.Empty(t, m.Outputs)
}

func TestRepositoryAddToolPrepends(t *testing.T) {
	s := store.NewMemory()
	r := NewRepository(s, "ws")

	ctx := context.Background()
	require.NoError(t, r.AddTool(ctx, tool("first-000000")))
	require.NoError(t, r.AddTool(ctx, tool("second-000000")))

	m := read(t, s, "ws")
	require.Len(t, m.Tools, 2)
	assert.Equal(t, "second-000000", m.Tools[0].ID)
	assert.Equal(t, "first-000000", m.Tools[1].ID)
}

func TestRepositoryAddOutputWithoutManifest(t *testing.T) {
	s := store.NewMemory()
	r := NewRepository(s, "ws")

	// An output should never precede a tool, but a missing manifest must be
	// synthesized rather than crash.
	err := r.AddOutput(context.Background(), model.Output{ID: "sketch-a1b2c3", ToolID: "ghost"})
	require.NoError(t, err)

	m := read(t, s, "ws")
	assert.Empty(t, m.Tools)
	require.Len(t, m.Outputs, 1)
	assert.Equal(t, "sketch-a1b2c3", m.Outputs[0].ID)
}

func TestRepositoryFind(t *testing.T) {
	s := store.NewMemory()
	r := NewRepository(s, "ws")
	ctx := context.Background()

	found, exists, err := r.Find(ctx, "ada-spiral-a1b2c3")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Nil(t, found)

	require.NoError(t, r.AddTool(ctx, tool("ada-spiral-a1b2c3")))

	found, exists, err = r.Find(ctx, "ada-spiral-a1b2c3")
	require.NoError(t, err)
	assert.True(t, exists)
	require.NotNil(t, found)
	assert.Equal(t, "ws/tools/ada-spiral-a1b2c3.js", found.URL)

	found, exists, err = r.Find(ctx, "nope")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Nil(t, found)
}

func TestRepositoryStats(t *testing.T) {
	s := store.NewMemory()
	r := NewRepository(s, "ws")
	ctx := context.Background()

	tools, outputs, err := r.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, tools)
	assert.Zero(t, outputs)

	require.NoError(t, r.AddTool(ctx, tool("ada-spiral-a1b2c3")))
	require.NoError(t, r.AddOutput(ctx, model.Output{ID: "sketch-a1b2c3", ToolID: "ada-spiral-a1b2c3"}))

	tools, outputs, err = r.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, tools)
	assert.Equal(t, 1, outputs)
}

// staleStore serves a pinned manifest version on reads while delegating
// writes, simulating a concurrent writer that advanced the version token
// between this writer's read and write.
type staleStore struct {
	store.Store
	stale *store.File
}

func (s *staleStore) GetFile(_ context.Context, _ string) (*store.File, error) {
	return s.stale, nil
}

func TestRepositoryConflictingWrite(t *testing.T) {
	s := store.NewMemory()
	r := NewRepository(s, "ws")
	ctx := context.Background()

	require.NoError(t, r.AddTool(ctx, tool("winner-000000")))

	stale, err := s.GetFile(ctx, "ws/"+Filename)
	require.NoError(t, err)

	// Another upload lands, moving the manifest version forward.
	require.NoError(t, r.AddTool(ctx, tool("racer-000000")))

	// The loser still holds the old version token; its write must fail and
	// must not be retried.
	loser := NewRepository(&staleStore{Store: s, stale: stale}, "ws")
	err = loser.AddTool(ctx, tool("loser-000000"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not write manifest")

	m := read(t, s, "ws")
	require.Len(t, m.Tools, 2)
	assert.Equal(t, "racer-000000", m.Tools[0].ID)
	assert.Equal(t, "winner-000000", m.Tools[1].ID)
}

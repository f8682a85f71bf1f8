package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/pkg/errors"
	"github.com/whatever-dev-ws/p5-tool-uploader/internal/model"
	"github.com/whatever-dev-ws/p5-tool-uploader/internal/store"
)

// Filename of the index document inside the workshop namespace.
const Filename = "manifest.json"

// A Repository performs versioned read-modify-write operations on the
// manifest document of one workshop.
type Repository struct {
	store    store.Store
	workshop string
}

// NewRepository returns a new Repository for the given workshop.
func NewRepository(s store.Store, workshop string) *Repository {
	return &Repository{
		store:    s,
		workshop: workshop,
	}
}

// AddTool prepends the entry to the tools collection, creating the manifest
// on first upload.
func (r *Repository) AddTool(ctx context.Context, tool model.Tool) error {
	return r.update(ctx, fmt.Sprintf("Register tool %s", tool.ID), func(m *model.Manifest) {
		m.Tools = append([]model.Tool{tool}, m.Tools...)
	})
}

// AddOutput prepends the entry to the outputs collection.
func (r *Repository) AddOutput(ctx context.Context, output model.Output) error {
	return r.update(ctx, fmt.Sprintf("Register output %s", output.ID), func(m *model.Manifest) {
		m.Outputs = append([]model.Output{output}, m.Outputs...)
	})
}

// Find returns the tool with the given id, or nil if no entry matches.
// The second return reports whether the manifest document exists at all.
func (r *Repository) Find(ctx context.Context, toolID string) (*model.Tool, bool, error) {
	m, _, ok, err := r.load(ctx)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	for i := range m.Tools {
		if m.Tools[i].ID == toolID {
			return &m.Tools[i], true, nil
		}
	}
	return nil, true, nil
}

// Stats returns the number of registered tools and outputs. An absent
// manifest counts as empty.
func (r *Repository) Stats(ctx context.Context) (tools, outputs int, err error) {
	m, _, _, err := r.load(ctx)
	if err != nil {
		return 0, 0, err
	}
	return len(m.Tools), len(m.Outputs), nil
}

func (r *Repository) path() string {
	return path.Join(r.workshop, Filename)
}

// load fetches and decodes the current manifest. ok reports whether the
// document exists; sha is its version token, empty for a missing document.
func (r *Repository) load(ctx context.Context) (m model.Manifest, sha string, ok bool, err error) {
	file, err := r.store.GetFile(ctx, r.path())
	if err != nil {
		if r.store.IsNotFound(err) {
			m.Normalize()
			return m, "", false, nil
		}
		return m, "", false, errors.Wrap(err, "could not read manifest")
	}

	if err := json.Unmarshal(file.Content, &m); err != nil {
		return m, "", false, errors.Wrap(err, "could not decode manifest")
	}
	m.Normalize()

	return m, file.SHA, true, nil
}

// update runs the read-modify-write cycle: one read, one in-memory mutation,
// one version-checked write. A concurrent write between the read and the
// write makes the put fail; there is deliberately no retry, the loser's
// request fails outright.
func (r *Repository) update(ctx context.Context, message string, mutate func(*model.Manifest)) error {
	m, sha, _, err := r.load(ctx)
	if err != nil {
		return err
	}

	mutate(&m)

	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, "could not encode manifest")
	}

	_, err = r.store.PutFile(ctx, r.path(), raw, message, sha)
	return errors.Wrap(err, "could not write manifest")
}

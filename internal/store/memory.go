package store

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"sync"

	"github.com/pkg/errors"
)

type memory struct {
	mu    sync.Mutex
	files map[string]*File
}

// NewMemory returns an in-memory Store enforcing the same version-token
// contract as the remote one. Used by the tests and the server's dev mode.
func NewMemory() Store {
	return &memory{
		files: map[string]*File{},
	}
}

func (s *memory) Name() string {
	return "memory"
}

func (s *memory) GetFile(_ context.Context, path string) (*File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, ok := s.files[path]
	if !ok {
		return nil, errors.Wrap(errNotFound, path)
	}

	content := make([]byte, len(file.Content))
	copy(content, file.Content)
	return &File{Content: content, SHA: file.SHA}, nil
}

func (s *memory) PutFile(_ context.Context, path string, content []byte, _, sha string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, ok := s.files[path]
	if !ok && sha != "" {
		return "", errors.Errorf("version conflict: %s does not exist", path)
	}
	if ok && file.SHA != sha {
		return "", errors.Errorf("version conflict: stale token for %s", path)
	}

	stored := make([]byte, len(content))
	copy(stored, content)

	h := sha1.Sum(content)
	s.files[path] = &File{Content: stored, SHA: hex.EncodeToString(h[:])}
	return s.files[path].SHA, nil
}

func (s *memory) IsNotFound(err error) bool {
	return errors.Cause(err) == errNotFound
}

package store

import "context"

type (
	// A Config carries the coordinates and credentials of the remote
	// repository holding the workshop files.
	Config struct {
		Token     string
		Owner     string
		Repo      string
		Branch    string
		UserAgent string
	}

	// A File is one version of a stored file.
	File struct {
		Content []byte
		SHA     string
	}

	// Store is the interface that wraps the content-store operations.
	Store interface {
		// Name returns the name of the store implementation.
		Name() string

		// GetFile fetches the current content and version token of the file.
		GetFile(ctx context.Context, path string) (*File, error)
		// PutFile creates or overwrites the file and returns the new version
		// token. A non-empty sha must match the current version of the file,
		// otherwise the store rejects the write. An empty sha means creation.
		PutFile(ctx context.Context, path string, content []byte, message, sha string) (string, error)
		// IsNotFound returns true if err reports a missing file.
		IsNotFound(err error) bool
	}
)

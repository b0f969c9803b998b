package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/Hi-king/dfdrift/pkg/types"
)

// DefaultStoragePath is the default directory for the local registry file.
const DefaultStoragePath = ".dfdrift_schemas"

const registryFileName = "schemas.json"

// LocalFileStorage persists the registry as a single JSON document on the
// local filesystem. Saves are load-merge-write over the whole document with
// no locking: concurrent writers from independent processes can race and the
// last writer wins.
type LocalFileStorage struct {
	dir  string
	file string
}

// NewLocalFileStorage creates a local file backend rooted at dir.
// An empty dir selects DefaultStoragePath. The directory is created lazily
// on first save.
func NewLocalFileStorage(dir string) *LocalFileStorage {
	if dir == "" {
		dir = DefaultStoragePath
	}
	return &LocalFileStorage{
		dir:  dir,
		file: filepath.Join(dir, registryFileName),
	}
}

// SaveSchema persists the fingerprint for a key, preserving all other keys.
func (l *LocalFileStorage) SaveSchema(ctx context.Context, locationKey string, fp types.Fingerprint) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	registry, err := l.LoadSchemas(ctx)
	if err != nil {
		return err
	}
	registry[locationKey] = fp

	data, err := json.MarshalIndent(registry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode registry: %w", err)
	}

	if err := os.WriteFile(l.file, data, 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// LoadSchemas returns the full registry. A missing file is the first-run
// case and yields an empty registry, not an error.
func (l *LocalFileStorage) LoadSchemas(ctx context.Context) (Registry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(l.file)
	if err != nil {
		if os.IsNotExist(err) {
			return Registry{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	var registry Registry
	if err := json.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptRegistry, l.file, err)
	}
	if registry == nil {
		registry = Registry{}
	}
	return registry, nil
}

// Path returns the registry file path.
func (l *LocalFileStorage) Path() string {
	return l.file
}

// Package storage provides schema registry persistence for dfdrift.
// A registry maps location keys ("path:line" call sites) to the fingerprint
// last observed there. Backends include a local file, S3, and SQLite.
package storage

import (
	"context"
	"errors"

	"github.com/Hi-king/dfdrift/pkg/types"
)

// Common errors for registry operations.
var (
	ErrStorageUnavailable = errors.New("schema storage unavailable")
	ErrCorruptRegistry    = errors.New("corrupt schema registry")
)

// Registry is the persisted state: one fingerprint per call site ever
// observed. Entries are overwritten, never deleted.
type Registry map[string]types.Fingerprint

// SchemaStorage abstracts schema registry persistence.
// A missing registry is not an error: first use at any location is expected
// to find no prior entry, and LoadSchemas returns an empty registry.
type SchemaStorage interface {
	// SaveSchema durably persists/overwrites the fingerprint for a key.
	// Safe to call for a key that has never been seen.
	SaveSchema(ctx context.Context, locationKey string, fp types.Fingerprint) error

	// LoadSchemas returns the full current registry.
	LoadSchemas(ctx context.Context) (Registry, error)
}

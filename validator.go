package dfdrift

import (
	"context"
	"fmt"
	"log"

	"github.com/Hi-king/dfdrift/internal/location"
	"github.com/Hi-king/dfdrift/pkg/alert"
	"github.com/Hi-king/dfdrift/pkg/storage"
	"github.com/Hi-king/dfdrift/pkg/types"
)

// Validator orchestrates one validation: resolve the caller's location key,
// extract the dataset's fingerprint, compare it against the registry entry
// for that key, alert on drift, and persist the new baseline.
type Validator struct {
	storage storage.SchemaStorage
	alerter alert.Alerter
}

// Option configures a Validator.
type Option func(*Validator)

// WithStorage selects the schema registry backend.
func WithStorage(s storage.SchemaStorage) Option {
	return func(v *Validator) { v.storage = s }
}

// WithAlerter selects the alert sink.
func WithAlerter(a alert.Alerter) Option {
	return func(v *Validator) { v.alerter = a }
}

// WithStoragePath re-homes the default local file backend.
func WithStoragePath(dir string) Option {
	return func(v *Validator) { v.storage = storage.NewLocalFileStorage(dir) }
}

// New creates a validator. Defaults: local file storage under
// .dfdrift_schemas, warnings to stderr.
func New(opts ...Option) *Validator {
	v := &Validator{
		storage: storage.NewLocalFileStorage(""),
		alerter: alert.NewStderrAlerter(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate fingerprints the dataset under the caller's source location and
// returns the change set against the previous observation at that location.
// Storage failures are logged and do not abort the call: the change set
// computed from the in-memory comparison is still returned. The only error
// is an invalid dataset.
func (v *Validator) Validate(ctx context.Context, ds Dataset) (types.ChangeSet, error) {
	return v.validate(ctx, ds, location.Caller())
}

// ValidateAt is Validate with an explicit location key, for callers that
// manage their own identities (e.g. named jobs instead of source lines).
func (v *Validator) ValidateAt(ctx context.Context, ds Dataset, locationKey string) (types.ChangeSet, error) {
	return v.validate(ctx, ds, locationKey)
}

func (v *Validator) validate(ctx context.Context, ds Dataset, locationKey string) (types.ChangeSet, error) {
	current, err := Extract(ds)
	if err != nil {
		return types.ChangeSet{}, err
	}

	registry, err := v.storage.LoadSchemas(ctx)
	if err != nil {
		// Unreadable registry degrades to a fresh baseline
		log.Printf("dfdrift: failed to load schema registry: %v", err)
		registry = storage.Registry{}
	}

	var previous *types.Fingerprint
	if prev, ok := registry[locationKey]; ok {
		previous = &prev
	}

	changes := Diff(previous, current)
	if !changes.Empty() {
		message := fmt.Sprintf("DataFrame schema changed at %s. Changes: %s", locationKey, changes.Summary())
		v.alerter.Alert(message, locationKey, previous, current)
	}

	// Persist the new baseline regardless of drift
	if err := v.storage.SaveSchema(ctx, locationKey, current); err != nil {
		log.Printf("dfdrift: failed to save schema for %s: %v", locationKey, err)
	}

	return changes, nil
}

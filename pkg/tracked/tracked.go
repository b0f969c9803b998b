// Package tracked is a drop-in substitute for frame construction that
// validates every constructed frame automatically. Importing tracked instead
// of frame is the only change a call site needs: each constructor forwards
// to the real frame package, then routes the result through the process-wide
// validator under the caller's own source location.
package tracked

import (
	"context"
	"io"
	"log"
	"sync"

	"github.com/Hi-king/dfdrift"
	"github.com/Hi-king/dfdrift/pkg/frame"
)

var (
	mu     sync.RWMutex
	active *dfdrift.Validator
)

// Configure installs the validator used by all subsequent constructions.
// The configuration is process-wide and last-writer-wins; calling Configure
// again replaces it for all later calls. With no options this installs the
// defaults (local file storage, stderr alerts).
func Configure(opts ...dfdrift.Option) {
	mu.Lock()
	active = dfdrift.New(opts...)
	mu.Unlock()
}

// validator returns the active validator, installing the default one on
// first use if Configure was never called.
func validator() *dfdrift.Validator {
	mu.RLock()
	v := active
	mu.RUnlock()
	if v != nil {
		return v
	}

	mu.Lock()
	defer mu.Unlock()
	if active == nil {
		active = dfdrift.New()
	}
	return active
}

// validate runs drift validation on a freshly constructed frame. The
// resolver skips this package's frames, so the recorded location is the
// construction call site. Validation problems are logged, never surfaced:
// construction must behave exactly like the frame package.
func validate(f *frame.Frame) {
	if _, err := validator().Validate(context.Background(), f); err != nil {
		log.Printf("dfdrift: auto-validation failed: %v", err)
	}
}

// New constructs a frame and validates it. See frame.New.
func New(cols ...frame.Column) (*frame.Frame, error) {
	f, err := frame.New(cols...)
	if err != nil {
		return nil, err
	}
	validate(f)
	return f, nil
}

// FromRecords constructs a frame from records and validates it.
// See frame.FromRecords.
func FromRecords(records []map[string]any) (*frame.Frame, error) {
	f, err := frame.FromRecords(records)
	if err != nil {
		return nil, err
	}
	validate(f)
	return f, nil
}

// FromCSV reads a CSV document into a frame and validates it.
// See frame.FromCSV.
func FromCSV(r io.Reader, opts ...frame.CSVOption) (*frame.Frame, error) {
	f, err := frame.FromCSV(r, opts...)
	if err != nil {
		return nil, err
	}
	validate(f)
	return f, nil
}

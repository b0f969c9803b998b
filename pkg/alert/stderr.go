package alert

import (
	"fmt"
	"io"
	"os"

	"github.com/Hi-king/dfdrift/pkg/types"
)

// StderrAlerter writes drift warnings to the process's standard error
// stream. It is the default sink.
type StderrAlerter struct {
	out io.Writer
}

// NewStderrAlerter creates the default stderr sink.
func NewStderrAlerter() *StderrAlerter {
	return &StderrAlerter{out: os.Stderr}
}

// Alert writes the warning as two lines:
//
//	WARNING: <message>
//	Location: <locationKey>
func (a *StderrAlerter) Alert(message, locationKey string, old *types.Fingerprint, new types.Fingerprint) {
	fmt.Fprintf(a.out, "WARNING: %s\nLocation: %s\n", message, locationKey)
}

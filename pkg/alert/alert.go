// Package alert provides drift alert sinks for dfdrift.
package alert

import "github.com/Hi-king/dfdrift/pkg/types"

// Alerter receives a rendered drift message together with the location key
// and both fingerprints, and performs a side effect. Implementations must
// not panic on the happy path and are responsible for containing their own
// delivery failures; the validator never retries alert delivery.
type Alerter interface {
	// Alert delivers a drift notification. old is nil on backends that
	// cannot supply the prior fingerprint.
	Alert(message, locationKey string, old *types.Fingerprint, new types.Fingerprint)
}

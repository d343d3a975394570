// SPDX-License-Identifier: EPL-2.0

package dynaudnorm

import "github.com/lordmulder/dynaudnorm-go/engine"

// Config is re-exported from engine for callers that only need the
// high-level NormalizeToInt16 entry point.
type Config = engine.Config

// DefaultConfig returns the library's historical default settings.
func DefaultConfig() Config {
	return engine.DefaultConfig()
}

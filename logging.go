// SPDX-License-Identifier: EPL-2.0

package dynaudnorm

import "github.com/lordmulder/dynaudnorm-go/engine"

// LogLevel and LogFunc are re-exported from engine so callers can install
// a log handler without importing engine directly.
type (
	LogLevel = engine.LogLevel
	LogFunc  = engine.LogFunc
)

const (
	LogDebug   = engine.LogDebug
	LogWarning = engine.LogWarning
	LogError   = engine.LogError
)

// SetLogFunction installs the process-wide log callback every Engine
// reports through, returning whichever one was previously installed.
func SetLogFunction(fn LogFunc) LogFunc {
	return engine.SetLogFunction(fn)
}

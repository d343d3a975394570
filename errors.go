// SPDX-License-Identifier: EPL-2.0

package dynaudnorm

import "github.com/lordmulder/dynaudnorm-go/engine"

// Sentinel errors re-exported from engine so callers of this package
// never need to import engine directly just to use errors.Is.
var (
	ErrConfigurationInvalid = engine.ErrConfigurationInvalid
	ErrInvalidState         = engine.ErrInvalidState
	ErrBufferInsufficient   = engine.ErrBufferInsufficient
)

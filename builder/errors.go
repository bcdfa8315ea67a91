package builder

import "errors"

// ErrConfig marks a missing or contradictory configuration value. Runs
// failing with ErrConfig abort before any output is written.
var ErrConfig = errors.New("invalid configuration")

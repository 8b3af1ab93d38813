package config

import "errors"

// ErrInvalidConfig is returned when a setting is missing or violates an
// invariant the pipeline depends on. It is fatal at startup.
var ErrInvalidConfig = errors.New("invalid configuration")

// Package utils provides bespoke, one off helpers that don't make sense as
// their own package
package utils

// Build information, overridden at release time via -ldflags.
var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)

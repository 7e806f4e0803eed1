// Package readiness validates that a project is ready for release: version
// control state, required files, citation metadata, secret exposure, and
// repository size, accumulated into one report.
package readiness

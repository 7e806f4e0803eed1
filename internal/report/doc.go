// Package report defines the shared result vocabulary written by every
// readiness validator: classified results, the append-only Report they
// accumulate into, and the text rendering with the final readiness verdict.
package report

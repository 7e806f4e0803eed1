// Package cli assembles the shelfmark command hierarchy, configuration
// loading, and structured logging.
package cli

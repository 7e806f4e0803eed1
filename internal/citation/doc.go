// Package citation parses CITATION.cff metadata and validates identifier
// formats used by downstream publication tooling.
package citation

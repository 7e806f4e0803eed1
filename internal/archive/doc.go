// Package archive packages a tagged release tree into a distributable bundle
// with checksums and deposit metadata.
package archive

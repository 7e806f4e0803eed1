// Package scaffold writes starter citation metadata and tool configuration
// into a new project.
package scaffold

// Package gitrepo provides read-only access to repository state by shelling
// out to git through the execshell layer.
package gitrepo

// Package mirror configures push mirrors from a Codeberg repository to the
// GitHub and GitLab forges through the Codeberg API.
package mirror

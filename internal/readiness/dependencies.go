package readiness

import (
	"context"

	"github.com/shelfmark/shelfmark/internal/gitrepo"
)

// RepositoryReader exposes the read-only repository operations the validators
// depend on.
type RepositoryReader interface {
	IsRepository(executionContext context.Context, repositoryPath string) bool
	WorkingTreeStatus(executionContext context.Context, repositoryPath string) ([]gitrepo.StatusEntry, error)
	ListTags(executionContext context.Context, repositoryPath string) ([]string, error)
	HeadCommit(executionContext context.Context, repositoryPath string) (string, error)
	ResolveTagCommit(executionContext context.Context, repositoryPath string, tagName string) (string, error)
	ListTrackedFiles(executionContext context.Context, repositoryPath string) ([]string, error)
	RecentCommits(executionContext context.Context, repositoryPath string, commitLimit int) ([]string, error)
	CommitDiffLines(executionContext context.Context, repositoryPath string, commitIdentifier string) ([]gitrepo.DiffLine, error)
}

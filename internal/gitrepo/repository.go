package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shelfmark/shelfmark/internal/execshell"
)

const (
	gitStatusSubcommandConstant        = "status"
	gitStatusPorcelainFlagConstant     = "--porcelain"
	gitTagSubcommandConstant           = "tag"
	gitTagListFlagConstant             = "--list"
	gitRevParseSubcommandConstant      = "rev-parse"
	gitIsInsideWorkTreeFlagConstant    = "--is-inside-work-tree"
	gitHeadReferenceConstant           = "HEAD"
	gitLSFilesSubcommandConstant       = "ls-files"
	gitLSFilesCachedFlagConstant       = "--cached"
	gitRevListSubcommandConstant       = "rev-list"
	gitRevListMaxCountFlagConstant     = "--max-count"
	gitDiffTreeSubcommandConstant      = "diff-tree"
	gitPatchFlagConstant               = "-p"
	gitRootFlagConstant                = "--root"
	gitShowAllParentsFlagConstant      = "-m"
	gitFirstParentFlagConstant         = "--first-parent"
	gitNoCommitIDFlagConstant          = "--no-commit-id"
	gitCommitPeelSuffixConstant        = "^{commit}"
	gitArchiveSubcommandConstant       = "archive"
	gitArchiveFormatFlagConstant       = "--format=tar.gz"
	gitArchivePrefixFlagConstant       = "--prefix="
	gitArchiveOutputFlagConstant       = "--output="
	gitTrueOutputConstant              = "true"
	statusIgnoredMarkerConstant        = "!!"
	statusRenameSeparatorConstant      = " -> "
	statusEntryMinimumLengthConstant   = 4
	diffAddedPrefixConstant            = "+"
	diffRemovedPrefixConstant          = "-"
	diffContextPrefixConstant          = " "
	diffFileAddedHeaderPrefixConstant  = "+++"
	diffFileRemovedHeaderPrefixConstant = "---"
	diffHunkHeaderPrefixConstant       = "@@"
	emptyHeadMessageConstant           = "repository head did not resolve to a commit"
	revisionNotResolvedTemplateConstant = "reference %s did not resolve to a revision"
)

// ErrExecutorNotConfigured reports a RepositoryReader constructed without a git executor.
var ErrExecutorNotConfigured = errors.New("repository reader requires a git executor")

// GitExecutor exposes the subset of shell execution used to inspect repositories.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// StatusEntry describes one working-tree status line.
type StatusEntry struct {
	Path    string
	Ignored bool
}

// DiffLineOrigin classifies a line within a commit diff.
type DiffLineOrigin string

// Supported diff line origins.
const (
	DiffLineAdded   DiffLineOrigin = "added"
	DiffLineRemoved DiffLineOrigin = "removed"
	DiffLineContext DiffLineOrigin = "context"
)

// DiffLine pairs a diff line origin with its text content.
type DiffLine struct {
	Origin DiffLineOrigin
	Text   string
}

// RepositoryReader provides read-only access to version-controlled project state
// by driving the git executable.
type RepositoryReader struct {
	gitExecutor GitExecutor
}

// NewRepositoryReader constructs a RepositoryReader from the provided executor.
func NewRepositoryReader(gitExecutor GitExecutor) (*RepositoryReader, error) {
	if gitExecutor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &RepositoryReader{gitExecutor: gitExecutor}, nil
}

// IsRepository reports whether the provided directory is inside a git work tree.
func (reader *RepositoryReader) IsRepository(executionContext context.Context, repositoryPath string) bool {
	executionResult, executionError := reader.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitIsInsideWorkTreeFlagConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return false
	}
	return strings.TrimSpace(executionResult.StandardOutput) == gitTrueOutputConstant
}

// WorkingTreeStatus returns the porcelain status entries for the repository.
func (reader *RepositoryReader) WorkingTreeStatus(executionContext context.Context, repositoryPath string) ([]StatusEntry, error) {
	executionResult, executionError := reader.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitStatusSubcommandConstant, gitStatusPorcelainFlagConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return nil, executionError
	}

	var entries []StatusEntry
	for _, statusLine := range splitNonEmptyLines(executionResult.StandardOutput) {
		if len(statusLine) < statusEntryMinimumLengthConstant {
			continue
		}
		statusMarker := statusLine[:2]
		entryPath := strings.TrimSpace(statusLine[3:])
		if renameIndex := strings.LastIndex(entryPath, statusRenameSeparatorConstant); renameIndex >= 0 {
			entryPath = entryPath[renameIndex+len(statusRenameSeparatorConstant):]
		}
		entryPath = strings.Trim(entryPath, `"`)
		entries = append(entries, StatusEntry{
			Path:    entryPath,
			Ignored: statusMarker == statusIgnoredMarkerConstant,
		})
	}
	return entries, nil
}

// ListTags returns all tag names in the order git enumerates them.
func (reader *RepositoryReader) ListTags(executionContext context.Context, repositoryPath string) ([]string, error) {
	executionResult, executionError := reader.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitTagSubcommandConstant, gitTagListFlagConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return nil, executionError
	}
	return splitNonEmptyLines(executionResult.StandardOutput), nil
}

// HeadCommit resolves the commit identifier of the checked-out head.
func (reader *RepositoryReader) HeadCommit(executionContext context.Context, repositoryPath string) (string, error) {
	return reader.resolveRevision(executionContext, repositoryPath, gitHeadReferenceConstant)
}

// ResolveTagCommit resolves a tag to the commit it ultimately points at, peeling
// annotated tags along the way.
func (reader *RepositoryReader) ResolveTagCommit(executionContext context.Context, repositoryPath string, tagName string) (string, error) {
	return reader.resolveRevision(executionContext, repositoryPath, tagName+gitCommitPeelSuffixConstant)
}

func (reader *RepositoryReader) resolveRevision(executionContext context.Context, repositoryPath string, reference string) (string, error) {
	executionResult, executionError := reader.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, reference},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return "", executionError
	}
	resolvedRevision := strings.TrimSpace(executionResult.StandardOutput)
	if len(resolvedRevision) == 0 {
		return "", fmt.Errorf(revisionNotResolvedTemplateConstant, reference)
	}
	return resolvedRevision, nil
}

// ListTrackedFiles returns the relative paths recorded in the index snapshot,
// independent of working-tree edits.
func (reader *RepositoryReader) ListTrackedFiles(executionContext context.Context, repositoryPath string) ([]string, error) {
	executionResult, executionError := reader.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitLSFilesSubcommandConstant, gitLSFilesCachedFlagConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return nil, executionError
	}
	return splitNonEmptyLines(executionResult.StandardOutput), nil
}

// RecentCommits walks ancestors of head in reverse-chronological order, returning
// at most commitLimit commit identifiers.
func (reader *RepositoryReader) RecentCommits(executionContext context.Context, repositoryPath string, commitLimit int) ([]string, error) {
	executionResult, executionError := reader.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments: []string{
			gitRevListSubcommandConstant,
			fmt.Sprintf("%s=%s", gitRevListMaxCountFlagConstant, strconv.Itoa(commitLimit)),
			gitHeadReferenceConstant,
		},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return nil, executionError
	}
	return splitNonEmptyLines(executionResult.StandardOutput), nil
}

// CommitDiffLines computes the line-level diff of a commit against its first
// parent, or against the empty tree when the commit has no parent.
func (reader *RepositoryReader) CommitDiffLines(executionContext context.Context, repositoryPath string, commitIdentifier string) ([]DiffLine, error) {
	executionResult, executionError := reader.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments: []string{
			gitDiffTreeSubcommandConstant,
			gitPatchFlagConstant,
			gitRootFlagConstant,
			gitShowAllParentsFlagConstant,
			gitFirstParentFlagConstant,
			gitNoCommitIDFlagConstant,
			commitIdentifier,
		},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return nil, executionError
	}
	return ParseUnifiedDiff(executionResult.StandardOutput), nil
}

// WriteArchive produces a gzipped tarball of the named tag's tree, nesting
// entries under archivePrefix, and writes it to outputPath.
func (reader *RepositoryReader) WriteArchive(executionContext context.Context, repositoryPath string, tagName string, archivePrefix string, outputPath string) error {
	_, executionError := reader.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments: []string{
			gitArchiveSubcommandConstant,
			gitArchiveFormatFlagConstant,
			gitArchivePrefixFlagConstant + archivePrefix,
			gitArchiveOutputFlagConstant + outputPath,
			tagName,
		},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// ParseUnifiedDiff classifies the payload lines of a unified diff, skipping file
// and hunk headers.
func ParseUnifiedDiff(diffOutput string) []DiffLine {
	var diffLines []DiffLine
	for _, rawLine := range strings.Split(diffOutput, "\n") {
		switch {
		case strings.HasPrefix(rawLine, diffFileAddedHeaderPrefixConstant):
		case strings.HasPrefix(rawLine, diffFileRemovedHeaderPrefixConstant):
		case strings.HasPrefix(rawLine, diffHunkHeaderPrefixConstant):
		case strings.HasPrefix(rawLine, diffAddedPrefixConstant):
			diffLines = append(diffLines, DiffLine{Origin: DiffLineAdded, Text: rawLine[1:]})
		case strings.HasPrefix(rawLine, diffRemovedPrefixConstant):
			diffLines = append(diffLines, DiffLine{Origin: DiffLineRemoved, Text: rawLine[1:]})
		case strings.HasPrefix(rawLine, diffContextPrefixConstant):
			diffLines = append(diffLines, DiffLine{Origin: DiffLineContext, Text: rawLine[1:]})
		}
	}
	return diffLines
}

func splitNonEmptyLines(commandOutput string) []string {
	var nonEmptyLines []string
	for _, rawLine := range strings.Split(commandOutput, "\n") {
		trimmedLine := strings.TrimRight(rawLine, "\r")
		if len(strings.TrimSpace(trimmedLine)) == 0 {
			continue
		}
		nonEmptyLines = append(nonEmptyLines, trimmedLine)
	}
	return nonEmptyLines
}

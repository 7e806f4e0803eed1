package readiness

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shelfmark/shelfmark/internal/report"
)

const (
	gitCategoryConstant = "Git"

	semanticTagPatternConstant          = `^v(\d+\.\d+\.\d+)$`
	dirtyPathDisplayLimitConstant       = 5
	notRepositoryMessageConstant        = "Not a git repository"
	cleanWorkingTreeMessageConstant     = "Working directory is clean"
	dirtyWorkingTreeTemplateConstant    = "Working directory has %d uncommitted change(s): %s"
	statusFailureTemplateConstant       = "Unable to inspect working tree: %v"
	tagListFailureTemplateConstant      = "Unable to list tags: %v"
	headFailureTemplateConstant         = "Unable to resolve the current commit: %v"
	noSemanticTagsMessageConstant       = "No semantic version tags found (expected vMAJOR.MINOR.PATCH)"
	noTagAtHeadTemplateConstant         = "No version tag points at the current commit (found: %s)"
	tagAtHeadTemplateConstant           = "Tag %s points at the current commit"
	truncatedPathListSuffixConstant     = ", ..."
)

var semanticTagExpression = regexp.MustCompile(semanticTagPatternConstant)

// ErrNoReleaseTag reports that no semantic version tag points at the current commit.
var ErrNoReleaseTag = errors.New("no semantic version tag points at the current commit; run check for details")

// TagResolver is the subset of repository operations needed to resolve the release tag.
type TagResolver interface {
	ListTags(executionContext context.Context, repositoryPath string) ([]string, error)
	HeadCommit(executionContext context.Context, repositoryPath string) (string, error)
	ResolveTagCommit(executionContext context.Context, repositoryPath string, tagName string) (string, error)
}

// ResolveReleaseTag resolves the semantic version tag pointing at the current
// commit without reporting, for commands that require an existing release tag.
func ResolveReleaseTag(executionContext context.Context, repository TagResolver, repositoryPath string) (*TagInfo, error) {
	tagNames, tagListError := repository.ListTags(executionContext, repositoryPath)
	if tagListError != nil {
		return nil, tagListError
	}
	headCommit, headError := repository.HeadCommit(executionContext, repositoryPath)
	if headError != nil {
		return nil, headError
	}
	for _, tagName := range tagNames {
		patternMatch := semanticTagExpression.FindStringSubmatch(tagName)
		if patternMatch == nil {
			continue
		}
		tagCommit, resolutionError := repository.ResolveTagCommit(executionContext, repositoryPath, tagName)
		if resolutionError != nil {
			continue
		}
		if tagCommit == headCommit {
			return &TagInfo{Version: patternMatch[1], Tag: tagName}, nil
		}
	}
	return nil, ErrNoReleaseTag
}

// TagInfo describes the release tag resolved against the current commit.
type TagInfo struct {
	Version string
	Tag     string
}

// GitInspector validates version-control readiness: working-tree cleanliness
// and the presence of a semantic version tag on the current commit.
type GitInspector struct {
	repository RepositoryReader
}

// NewGitInspector constructs a GitInspector over the provided repository reader.
func NewGitInspector(repository RepositoryReader) *GitInspector {
	return &GitInspector{repository: repository}
}

// Inspect appends version-control results to the report and returns the
// resolved release tag when one points at the current commit.
func (inspector *GitInspector) Inspect(executionContext context.Context, repositoryPath string, readinessReport *report.Report) *TagInfo {
	if !inspector.repository.IsRepository(executionContext, repositoryPath) {
		readinessReport.Fail(gitCategoryConstant, notRepositoryMessageConstant)
		return nil
	}

	inspector.inspectWorkingTree(executionContext, repositoryPath, readinessReport)
	return inspector.resolveReleaseTag(executionContext, repositoryPath, readinessReport)
}

func (inspector *GitInspector) inspectWorkingTree(executionContext context.Context, repositoryPath string, readinessReport *report.Report) {
	statusEntries, statusError := inspector.repository.WorkingTreeStatus(executionContext, repositoryPath)
	if statusError != nil {
		readinessReport.Fail(gitCategoryConstant, fmt.Sprintf(statusFailureTemplateConstant, statusError))
		return
	}

	var dirtyPaths []string
	for _, statusEntry := range statusEntries {
		if statusEntry.Ignored {
			continue
		}
		dirtyPaths = append(dirtyPaths, statusEntry.Path)
	}

	if len(dirtyPaths) == 0 {
		readinessReport.Pass(gitCategoryConstant, cleanWorkingTreeMessageConstant)
		return
	}

	displayedPaths := dirtyPaths
	pathListSuffix := ""
	if len(displayedPaths) > dirtyPathDisplayLimitConstant {
		displayedPaths = displayedPaths[:dirtyPathDisplayLimitConstant]
		pathListSuffix = truncatedPathListSuffixConstant
	}
	readinessReport.Warn(gitCategoryConstant, fmt.Sprintf(
		dirtyWorkingTreeTemplateConstant,
		len(dirtyPaths),
		strings.Join(displayedPaths, ", ")+pathListSuffix,
	))
}

func (inspector *GitInspector) resolveReleaseTag(executionContext context.Context, repositoryPath string, readinessReport *report.Report) *TagInfo {
	tagNames, tagListError := inspector.repository.ListTags(executionContext, repositoryPath)
	if tagListError != nil {
		readinessReport.Fail(gitCategoryConstant, fmt.Sprintf(tagListFailureTemplateConstant, tagListError))
		return nil
	}

	var semanticTags []TagInfo
	for _, tagName := range tagNames {
		patternMatch := semanticTagExpression.FindStringSubmatch(tagName)
		if patternMatch == nil {
			continue
		}
		semanticTags = append(semanticTags, TagInfo{Version: patternMatch[1], Tag: tagName})
	}
	if len(semanticTags) == 0 {
		readinessReport.Fail(gitCategoryConstant, noSemanticTagsMessageConstant)
		return nil
	}

	headCommit, headError := inspector.repository.HeadCommit(executionContext, repositoryPath)
	if headError != nil {
		readinessReport.Fail(gitCategoryConstant, fmt.Sprintf(headFailureTemplateConstant, headError))
		return nil
	}

	var candidateNames []string
	for _, semanticTag := range semanticTags {
		candidateNames = append(candidateNames, semanticTag.Tag)
		tagCommit, resolutionError := inspector.repository.ResolveTagCommit(executionContext, repositoryPath, semanticTag.Tag)
		if resolutionError != nil {
			continue
		}
		if tagCommit == headCommit {
			readinessReport.Pass(gitCategoryConstant, fmt.Sprintf(tagAtHeadTemplateConstant, semanticTag.Tag))
			resolvedTag := semanticTag
			return &resolvedTag
		}
	}

	readinessReport.Fail(gitCategoryConstant, fmt.Sprintf(noTagAtHeadTemplateConstant, strings.Join(candidateNames, ", ")))
	return nil
}

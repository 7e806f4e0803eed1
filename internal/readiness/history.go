package readiness

import (
	"context"
	"fmt"

	"github.com/shelfmark/shelfmark/internal/gitrepo"
	"github.com/shelfmark/shelfmark/internal/report"
)

const (
	historyCommitLimitConstant = 100

	historySkippedTemplateConstant = "Commit history scan skipped: %v"
	historyFlaggedMessageConstant  = "Potential secrets found in commit history; manual review recommended"
	historyCleanTemplateConstant   = "No secrets detected in %d recent commit(s)"
)

// HistoryScanner looks for high-confidence credential patterns in the line
// diffs of recent commits.
type HistoryScanner struct {
	repository RepositoryReader
}

// NewHistoryScanner constructs a HistoryScanner over the provided repository reader.
func NewHistoryScanner(repository RepositoryReader) *HistoryScanner {
	return &HistoryScanner{repository: repository}
}

// Scan examines up to 100 ancestor commits of the current head. Any match
// raises a single warning; individual findings are not enumerated.
func (scanner *HistoryScanner) Scan(executionContext context.Context, repositoryPath string, readinessReport *report.Report) {
	commitIdentifiers, listError := scanner.repository.RecentCommits(executionContext, repositoryPath, historyCommitLimitConstant)
	if listError != nil {
		readinessReport.Warn(securityCategoryConstant, fmt.Sprintf(historySkippedTemplateConstant, listError))
		return
	}

	for _, commitIdentifier := range commitIdentifiers {
		diffLines, diffError := scanner.repository.CommitDiffLines(executionContext, repositoryPath, commitIdentifier)
		if diffError != nil {
			continue
		}
		if containsHighConfidenceSecret(diffLines) {
			readinessReport.Warn(securityCategoryConstant, historyFlaggedMessageConstant)
			return
		}
	}
	readinessReport.Pass(securityCategoryConstant, fmt.Sprintf(historyCleanTemplateConstant, len(commitIdentifiers)))
}

func containsHighConfidenceSecret(diffLines []gitrepo.DiffLine) bool {
	for _, diffLine := range diffLines {
		if diffLine.Origin == gitrepo.DiffLineRemoved {
			continue
		}
		for _, secretRule := range SecretRules {
			if secretRule.Confidence != HighConfidence {
				continue
			}
			if secretRule.Expression.MatchString(diffLine.Text) {
				return true
			}
		}
	}
	return false
}

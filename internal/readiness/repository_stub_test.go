package readiness_test

import (
	"context"

	"github.com/shelfmark/shelfmark/internal/gitrepo"
	"github.com/shelfmark/shelfmark/internal/report"
)

type stubRepository struct {
	insideRepository    bool
	statusEntries       []gitrepo.StatusEntry
	statusError         error
	tagNames            []string
	tagListError        error
	headCommit          string
	headError           error
	tagCommits          map[string]string
	trackedFiles        []string
	trackedFilesError   error
	commitIdentifiers   []string
	commitDiffs         map[string][]gitrepo.DiffLine
	recordedCommitLimit int
}

func (repository *stubRepository) IsRepository(context.Context, string) bool {
	return repository.insideRepository
}

func (repository *stubRepository) WorkingTreeStatus(context.Context, string) ([]gitrepo.StatusEntry, error) {
	return repository.statusEntries, repository.statusError
}

func (repository *stubRepository) ListTags(context.Context, string) ([]string, error) {
	return repository.tagNames, repository.tagListError
}

func (repository *stubRepository) HeadCommit(context.Context, string) (string, error) {
	return repository.headCommit, repository.headError
}

func (repository *stubRepository) ResolveTagCommit(_ context.Context, _ string, tagName string) (string, error) {
	tagCommit, commitFound := repository.tagCommits[tagName]
	if !commitFound {
		return "", gitrepo.ErrExecutorNotConfigured
	}
	return tagCommit, nil
}

func (repository *stubRepository) ListTrackedFiles(context.Context, string) ([]string, error) {
	return repository.trackedFiles, repository.trackedFilesError
}

func (repository *stubRepository) RecentCommits(_ context.Context, _ string, commitLimit int) ([]string, error) {
	repository.recordedCommitLimit = commitLimit
	if len(repository.commitIdentifiers) > commitLimit {
		return repository.commitIdentifiers[:commitLimit], nil
	}
	return repository.commitIdentifiers, nil
}

func (repository *stubRepository) CommitDiffLines(_ context.Context, _ string, commitIdentifier string) ([]gitrepo.DiffLine, error) {
	return repository.commitDiffs[commitIdentifier], nil
}

func resultsWithSeverity(readinessReport *report.Report, severity report.Severity) []report.Result {
	var matchingResults []report.Result
	for _, reportResult := range readinessReport.Results() {
		if reportResult.Severity == severity {
			matchingResults = append(matchingResults, reportResult)
		}
	}
	return matchingResults
}

func resultMessages(reportResults []report.Result) []string {
	var messages []string
	for _, reportResult := range reportResults {
		messages = append(messages, reportResult.Message)
	}
	return messages
}

package readiness_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark/internal/readiness"
	"github.com/shelfmark/shelfmark/internal/report"
)

const (
	allFilesPresentCaseNameConstant = "all_required_files_present"
	missingFileCaseNameConstant     = "missing_file_fails"
	configuredOrderCaseNameConstant = "results_follow_configured_order"
)

func TestFileChecker(testInstance *testing.T) {
	testInstance.Run(allFilesPresentCaseNameConstant, func(subtestInstance *testing.T) {
		projectPath := subtestInstance.TempDir()
		for _, fileName := range []string{"LICENSE", "README.md"} {
			require.NoError(subtestInstance, os.WriteFile(filepath.Join(projectPath, fileName), []byte("content\n"), 0o644))
		}
		readinessReport := report.NewReport()

		readiness.NewFileChecker([]string{"LICENSE", "README.md"}).Check(projectPath, readinessReport)

		require.False(subtestInstance, readinessReport.HasFailures())
		require.Len(subtestInstance, readinessReport.Results(), 2)
	})

	testInstance.Run(missingFileCaseNameConstant, func(subtestInstance *testing.T) {
		projectPath := subtestInstance.TempDir()
		require.NoError(subtestInstance, os.WriteFile(filepath.Join(projectPath, "LICENSE"), []byte("content\n"), 0o644))
		readinessReport := report.NewReport()

		readiness.NewFileChecker([]string{"LICENSE", "CHANGELOG.md"}).Check(projectPath, readinessReport)

		require.True(subtestInstance, readinessReport.HasFailures())
		failureMessages := resultMessages(resultsWithSeverity(readinessReport, report.SeverityFail))
		require.Equal(subtestInstance, []string{"CHANGELOG.md is missing"}, failureMessages)
	})

	testInstance.Run(configuredOrderCaseNameConstant, func(subtestInstance *testing.T) {
		projectPath := subtestInstance.TempDir()
		readinessReport := report.NewReport()

		readiness.NewFileChecker([]string{"zeta.txt", "alpha.txt"}).Check(projectPath, readinessReport)

		require.Equal(subtestInstance, []string{"zeta.txt is missing", "alpha.txt is missing"}, resultMessages(readinessReport.Results()))
	})
}

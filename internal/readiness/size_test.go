package readiness_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark/internal/readiness"
	"github.com/shelfmark/shelfmark/internal/report"
)

const (
	smallFilesCaseNameConstant        = "small_files_pass"
	belowThresholdCaseNameConstant    = "one_byte_below_threshold_passes"
	atWarnThresholdCaseNameConstant   = "file_at_warn_threshold_warns"
	atFailThresholdCaseNameConstant   = "file_at_fail_threshold_fails"
	binaryExtensionCaseNameConstant   = "large_binary_warns_independently"
	unreadableFileCaseNameConstant    = "unreadable_files_are_skipped"
)

func auditSizes(testInstance *testing.T, projectPath string, trackedFiles []string) *report.Report {
	testInstance.Helper()
	repository := &stubRepository{trackedFiles: trackedFiles}
	readinessReport := report.NewReport()
	readiness.NewSizeAuditor(repository).Audit(context.Background(), projectPath, readinessReport)
	return readinessReport
}

func TestSizeAuditor(testInstance *testing.T) {
	testInstance.Run(smallFilesCaseNameConstant, func(subtestInstance *testing.T) {
		projectPath := subtestInstance.TempDir()
		writeProjectFile(subtestInstance, projectPath, "README.md", []byte("# Example\n"))

		readinessReport := auditSizes(subtestInstance, projectPath, []string{"README.md"})

		require.False(subtestInstance, readinessReport.HasFailures())
		passMessages := resultMessages(resultsWithSeverity(readinessReport, report.SeverityPass))
		require.Contains(subtestInstance, passMessages, "No oversized files detected")
		require.Contains(subtestInstance, passMessages, "Total tracked size 0.0 MB across 1 file(s)")
	})

	testInstance.Run(belowThresholdCaseNameConstant, func(subtestInstance *testing.T) {
		projectPath := subtestInstance.TempDir()
		writeProjectFile(subtestInstance, projectPath, "data.txt", bytes.Repeat([]byte{'a'}, 999_999))

		readinessReport := auditSizes(subtestInstance, projectPath, []string{"data.txt"})

		require.Empty(subtestInstance, resultsWithSeverity(readinessReport, report.SeverityWarn))
		require.False(subtestInstance, readinessReport.HasFailures())
	})

	testInstance.Run(atWarnThresholdCaseNameConstant, func(subtestInstance *testing.T) {
		projectPath := subtestInstance.TempDir()
		writeProjectFile(subtestInstance, projectPath, "data.txt", bytes.Repeat([]byte{'a'}, 1_000_000))

		readinessReport := auditSizes(subtestInstance, projectPath, []string{"data.txt"})

		require.False(subtestInstance, readinessReport.HasFailures())
		warningMessages := resultMessages(resultsWithSeverity(readinessReport, report.SeverityWarn))
		require.Contains(subtestInstance, warningMessages, "data.txt is 1.0 MB (large file)")
	})

	testInstance.Run(atFailThresholdCaseNameConstant, func(subtestInstance *testing.T) {
		projectPath := subtestInstance.TempDir()
		writeProjectFile(subtestInstance, projectPath, "data.txt", bytes.Repeat([]byte{'a'}, 10_000_000))

		readinessReport := auditSizes(subtestInstance, projectPath, []string{"data.txt"})

		failureMessages := resultMessages(resultsWithSeverity(readinessReport, report.SeverityFail))
		require.Contains(subtestInstance, failureMessages, "data.txt is 10.0 MB (exceeds the 10.0 MB per-file limit)")
	})

	testInstance.Run(binaryExtensionCaseNameConstant, func(subtestInstance *testing.T) {
		projectPath := subtestInstance.TempDir()
		writeProjectFile(subtestInstance, projectPath, "bundle.tar.gz", bytes.Repeat([]byte{'a'}, 2_000_000))

		readinessReport := auditSizes(subtestInstance, projectPath, []string{"bundle.tar.gz"})

		warningMessages := resultMessages(resultsWithSeverity(readinessReport, report.SeverityWarn))
		require.Contains(subtestInstance, warningMessages, "bundle.tar.gz is 2.0 MB (large file)")
		require.Contains(subtestInstance, warningMessages, "bundle.tar.gz is a 2.0 MB binary artifact; consider external large-file storage")
	})

	testInstance.Run(unreadableFileCaseNameConstant, func(subtestInstance *testing.T) {
		projectPath := subtestInstance.TempDir()
		writeProjectFile(subtestInstance, projectPath, "present.txt", []byte("content\n"))

		readinessReport := auditSizes(subtestInstance, projectPath, []string{"present.txt", "absent.txt"})

		require.False(subtestInstance, readinessReport.HasFailures())
		passMessages := resultMessages(resultsWithSeverity(readinessReport, report.SeverityPass))
		require.Contains(subtestInstance, passMessages, "Total tracked size 0.0 MB across 1 file(s)")
	})
}

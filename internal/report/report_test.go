package report_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark/internal/report"
)

const (
	testCategoryConstant             = "Git"
	testMessageConstant              = "message"
	testCaseNoResultsNameConstant    = "no_results"
	testCaseOnlyPassesNameConstant   = "only_passes"
	testCaseWithWarningNameConstant  = "pass_and_warning"
	testCaseWithFailureNameConstant  = "pass_warning_failure"
	testVerdictReadyConstant         = "Release is ready!"
	testVerdictReadyWarningsConstant = "Release is ready (with warnings)."
	testVerdictNotReadyConstant      = "Release is NOT ready."
)

func TestReportHasFailures(testInstance *testing.T) {
	testCases := []struct {
		name            string
		populate        func(reportInstance *report.Report)
		expectedOutcome bool
	}{
		{
			name:            testCaseNoResultsNameConstant,
			populate:        func(reportInstance *report.Report) {},
			expectedOutcome: false,
		},
		{
			name: testCaseOnlyPassesNameConstant,
			populate: func(reportInstance *report.Report) {
				reportInstance.Pass(testCategoryConstant, testMessageConstant)
				reportInstance.Warn(testCategoryConstant, testMessageConstant)
			},
			expectedOutcome: false,
		},
		{
			name: testCaseWithFailureNameConstant,
			populate: func(reportInstance *report.Report) {
				reportInstance.Pass(testCategoryConstant, testMessageConstant)
				reportInstance.Fail(testCategoryConstant, testMessageConstant)
			},
			expectedOutcome: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			reportInstance := report.NewReport()
			testCase.populate(reportInstance)
			require.Equal(testInstance, testCase.expectedOutcome, reportInstance.HasFailures())
		})
	}
}

func TestReportPreservesInsertionOrder(testInstance *testing.T) {
	reportInstance := report.NewReport()
	reportInstance.Pass("Git", "first")
	reportInstance.Warn("Files", "second")
	reportInstance.Fail("Citation", "third")

	results := reportInstance.Results()
	require.Len(testInstance, results, 3)
	require.Equal(testInstance, "first", results[0].Message)
	require.Equal(testInstance, report.SeverityWarn, results[1].Severity)
	require.Equal(testInstance, "Citation", results[2].Category)
}

func TestReportRenderVerdicts(testInstance *testing.T) {
	testCases := []struct {
		name            string
		populate        func(reportInstance *report.Report)
		expectedVerdict string
	}{
		{
			name: testCaseOnlyPassesNameConstant,
			populate: func(reportInstance *report.Report) {
				reportInstance.Pass(testCategoryConstant, testMessageConstant)
			},
			expectedVerdict: testVerdictReadyConstant,
		},
		{
			name: testCaseWithWarningNameConstant,
			populate: func(reportInstance *report.Report) {
				reportInstance.Pass(testCategoryConstant, testMessageConstant)
				reportInstance.Warn(testCategoryConstant, testMessageConstant)
			},
			expectedVerdict: testVerdictReadyWarningsConstant,
		},
		{
			name: testCaseWithFailureNameConstant,
			populate: func(reportInstance *report.Report) {
				reportInstance.Pass(testCategoryConstant, testMessageConstant)
				reportInstance.Warn(testCategoryConstant, testMessageConstant)
				reportInstance.Fail(testCategoryConstant, testMessageConstant)
			},
			expectedVerdict: testVerdictNotReadyConstant,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			reportInstance := report.NewReport()
			testCase.populate(reportInstance)

			renderBuffer := &bytes.Buffer{}
			require.NoError(testInstance, reportInstance.Render(renderBuffer))
			require.Contains(testInstance, renderBuffer.String(), testCase.expectedVerdict)
		})
	}
}

func TestReportRenderCountsLine(testInstance *testing.T) {
	reportInstance := report.NewReport()
	reportInstance.Pass(testCategoryConstant, "a")
	reportInstance.Pass(testCategoryConstant, "b")
	reportInstance.Fail(testCategoryConstant, "c")
	reportInstance.Warn(testCategoryConstant, "d")

	renderBuffer := &bytes.Buffer{}
	require.NoError(testInstance, reportInstance.Render(renderBuffer))
	require.Contains(testInstance, renderBuffer.String(), "2 passed, 1 failed, 1 warning(s)")
	require.Contains(testInstance, renderBuffer.String(), "[FAIL] Git: c")
}

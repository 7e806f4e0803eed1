package report

import (
	"fmt"
	"io"
)

const (
	resultLineTemplateConstant    = "  [%s] %s: %s\n"
	summaryLineTemplateConstant   = "  %d passed, %d failed, %d warning(s)\n"
	reportHeaderConstant          = "\n=== Release Readiness Report ===\n\n"
	verdictNotReadyConstant       = "\n  Release is NOT ready.\n\n"
	verdictReadyWarningsConstant  = "\n  Release is ready (with warnings).\n\n"
	verdictReadyConstant          = "\n  Release is ready!\n\n"
	severityPassDisplayConstant   = "PASS"
	severityFailDisplayConstant   = "FAIL"
	severityWarnDisplayConstant   = "WARN"
	severityUnknownDisplayConstant = "????"
)

// Severity classifies the outcome of a single readiness check.
type Severity string

// Supported severity values.
const (
	SeverityPass Severity = "pass"
	SeverityFail Severity = "fail"
	SeverityWarn Severity = "warn"
)

// Result captures one classified finding produced by a validator. Results are
// immutable once appended to a Report.
type Result struct {
	Category string
	Message  string
	Severity Severity
}

// Report is an ordered, append-only sequence of Results shared by all validators
// of a single run. Insertion order is preserved for rendering.
type Report struct {
	results []Result
}

// NewReport constructs an empty Report.
func NewReport() *Report {
	return &Report{}
}

// Pass appends a passing Result for the provided category.
func (reportInstance *Report) Pass(category string, message string) {
	reportInstance.append(category, message, SeverityPass)
}

// Fail appends a failing Result for the provided category.
func (reportInstance *Report) Fail(category string, message string) {
	reportInstance.append(category, message, SeverityFail)
}

// Warn appends a warning Result for the provided category.
func (reportInstance *Report) Warn(category string, message string) {
	reportInstance.append(category, message, SeverityWarn)
}

func (reportInstance *Report) append(category string, message string, severity Severity) {
	reportInstance.results = append(reportInstance.results, Result{
		Category: category,
		Message:  message,
		Severity: severity,
	})
}

// Results returns a copy of the accumulated results in insertion order.
func (reportInstance *Report) Results() []Result {
	duplicated := make([]Result, len(reportInstance.results))
	copy(duplicated, reportInstance.results)
	return duplicated
}

// HasFailures reports whether at least one Result carries SeverityFail.
func (reportInstance *Report) HasFailures() bool {
	for _, result := range reportInstance.results {
		if result.Severity == SeverityFail {
			return true
		}
	}
	return false
}

// Render writes the formatted report, per-severity counts, and the readiness
// verdict to the provided writer.
func (reportInstance *Report) Render(outputWriter io.Writer) error {
	if _, writeError := io.WriteString(outputWriter, reportHeaderConstant); writeError != nil {
		return writeError
	}

	passCount := 0
	failCount := 0
	warnCount := 0
	for _, result := range reportInstance.results {
		if _, writeError := fmt.Fprintf(outputWriter, resultLineTemplateConstant, displaySeverity(result.Severity), result.Category, result.Message); writeError != nil {
			return writeError
		}
		switch result.Severity {
		case SeverityPass:
			passCount++
		case SeverityFail:
			failCount++
		case SeverityWarn:
			warnCount++
		}
	}

	if _, writeError := io.WriteString(outputWriter, "\n"); writeError != nil {
		return writeError
	}
	if _, writeError := fmt.Fprintf(outputWriter, summaryLineTemplateConstant, passCount, failCount, warnCount); writeError != nil {
		return writeError
	}

	verdict := verdictReadyConstant
	switch {
	case failCount > 0:
		verdict = verdictNotReadyConstant
	case warnCount > 0:
		verdict = verdictReadyWarningsConstant
	}
	_, writeError := io.WriteString(outputWriter, verdict)
	return writeError
}

func displaySeverity(severity Severity) string {
	switch severity {
	case SeverityPass:
		return severityPassDisplayConstant
	case SeverityFail:
		return severityFailDisplayConstant
	case SeverityWarn:
		return severityWarnDisplayConstant
	default:
		return severityUnknownDisplayConstant
	}
}

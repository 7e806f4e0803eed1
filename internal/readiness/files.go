package readiness

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shelfmark/shelfmark/internal/report"
)

const (
	filesCategoryConstant       = "Files"
	filePresentTemplateConstant = "%s is present"
	fileMissingTemplateConstant = "%s is missing"
)

// FileChecker verifies that the configured required files exist in the project root.
type FileChecker struct {
	requiredFiles []string
}

// NewFileChecker constructs a FileChecker for the provided required file names.
func NewFileChecker(requiredFiles []string) *FileChecker {
	return &FileChecker{requiredFiles: requiredFiles}
}

// Check appends one result per required file, in configured order.
func (checker *FileChecker) Check(projectPath string, readinessReport *report.Report) {
	for _, requiredFile := range checker.requiredFiles {
		if _, statError := os.Stat(filepath.Join(projectPath, requiredFile)); statError != nil {
			readinessReport.Fail(filesCategoryConstant, fmt.Sprintf(fileMissingTemplateConstant, requiredFile))
			continue
		}
		readinessReport.Pass(filesCategoryConstant, fmt.Sprintf(filePresentTemplateConstant, requiredFile))
	}
}

package readiness

import (
	"context"
	"errors"

	"github.com/shelfmark/shelfmark/internal/report"
)

// ErrRepositoryReaderNotConfigured reports a Service constructed without a repository reader.
var ErrRepositoryReaderNotConfigured = errors.New("readiness service requires a repository reader")

// Service runs every validator in a fixed order against one shared report.
type Service struct {
	gitInspector      *GitInspector
	fileChecker       *FileChecker
	citationValidator *CitationValidator
	securityAuditor   *SecurityAuditor
	historyScanner    *HistoryScanner
	sizeAuditor       *SizeAuditor
}

// NewService constructs a Service from the provided repository reader and configuration.
func NewService(repository RepositoryReader, configuration Configuration) (*Service, error) {
	if repository == nil {
		return nil, ErrRepositoryReaderNotConfigured
	}
	effectiveConfiguration := configuration.WithDefaults()
	return &Service{
		gitInspector:      NewGitInspector(repository),
		fileChecker:       NewFileChecker(effectiveConfiguration.RequiredFiles),
		citationValidator: NewCitationValidator(),
		securityAuditor:   NewSecurityAuditor(repository),
		historyScanner:    NewHistoryScanner(repository),
		sizeAuditor:       NewSizeAuditor(repository),
	}, nil
}

// Run executes the validators sequentially and returns the accumulated report.
// Individual validator failures land in the report; Run itself does not error.
func (service *Service) Run(executionContext context.Context, projectPath string) *report.Report {
	readinessReport := report.NewReport()

	tagInfo := service.gitInspector.Inspect(executionContext, projectPath, readinessReport)
	service.fileChecker.Check(projectPath, readinessReport)
	service.citationValidator.Validate(projectPath, tagInfo, readinessReport)
	service.securityAuditor.Audit(executionContext, projectPath, readinessReport)
	service.historyScanner.Scan(executionContext, projectPath, readinessReport)
	service.sizeAuditor.Audit(executionContext, projectPath, readinessReport)

	return readinessReport
}

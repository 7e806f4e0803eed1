package readiness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shelfmark/shelfmark/internal/report"
)

const (
	sizeCategoryConstant = "Size"

	perFileWarnThresholdConstant   = 1_000_000
	perFileFailThresholdConstant   = 10_000_000
	aggregateWarnThresholdConstant = 50_000_000
	aggregateFailThresholdConstant = 200_000_000

	oversizedFileTemplateConstant       = "%s is %s (exceeds the %s per-file limit)"
	largeFileTemplateConstant           = "%s is %s (large file)"
	binaryArtifactTemplateConstant      = "%s is a %s binary artifact; consider external large-file storage"
	noOversizedFilesMessageConstant     = "No oversized files detected"
	aggregateFailTemplateConstant       = "Total tracked size %s exceeds the %s repository limit"
	aggregateWarnTemplateConstant       = "Total tracked size %s approaches the repository limit"
	aggregateSummaryTemplateConstant    = "Total tracked size %s across %d file(s)"
	sizeListFailureTemplateConstant     = "Unable to list tracked files: %v"
)

// Extensions treated as binary, archive, or media payloads.
var binaryFileExtensions = map[string]bool{
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".a": true, ".o": true,
	".bin": true, ".dat": true, ".zip": true, ".tar": true, ".gz": true, ".tgz": true,
	".bz2": true, ".xz": true, ".7z": true, ".rar": true, ".jar": true, ".war": true,
	".iso": true, ".img": true, ".mp4": true, ".mov": true, ".avi": true, ".mkv": true,
	".mp3": true, ".wav": true, ".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".tiff": true, ".psd": true,
}

// SizeAuditor reports files and aggregate footprints that would bloat a
// published release.
type SizeAuditor struct {
	repository RepositoryReader
}

// NewSizeAuditor constructs a SizeAuditor over the provided repository reader.
func NewSizeAuditor(repository RepositoryReader) *SizeAuditor {
	return &SizeAuditor{repository: repository}
}

// Audit measures every tracked file on disk and appends per-file and aggregate
// findings. Files that cannot be measured are skipped.
func (auditor *SizeAuditor) Audit(executionContext context.Context, projectPath string, readinessReport *report.Report) {
	trackedFiles, listError := auditor.repository.ListTrackedFiles(executionContext, projectPath)
	if listError != nil {
		readinessReport.Fail(sizeCategoryConstant, fmt.Sprintf(sizeListFailureTemplateConstant, listError))
		return
	}

	var aggregateSize int64
	measuredFiles := 0
	flaggedFiles := 0
	for _, trackedFile := range trackedFiles {
		fileInformation, statError := os.Stat(filepath.Join(projectPath, trackedFile))
		if statError != nil {
			continue
		}
		fileSize := fileInformation.Size()
		aggregateSize += fileSize
		measuredFiles++

		switch {
		case fileSize >= perFileFailThresholdConstant:
			flaggedFiles++
			readinessReport.Fail(sizeCategoryConstant, fmt.Sprintf(
				oversizedFileTemplateConstant, trackedFile, formatByteSize(fileSize), formatByteSize(perFileFailThresholdConstant)))
		case fileSize >= perFileWarnThresholdConstant:
			flaggedFiles++
			readinessReport.Warn(sizeCategoryConstant, fmt.Sprintf(
				largeFileTemplateConstant, trackedFile, formatByteSize(fileSize)))
		}

		if fileSize >= perFileWarnThresholdConstant && binaryFileExtensions[strings.ToLower(filepath.Ext(trackedFile))] {
			readinessReport.Warn(sizeCategoryConstant, fmt.Sprintf(
				binaryArtifactTemplateConstant, trackedFile, formatByteSize(fileSize)))
		}
	}

	if flaggedFiles == 0 {
		readinessReport.Pass(sizeCategoryConstant, noOversizedFilesMessageConstant)
	}

	switch {
	case aggregateSize >= aggregateFailThresholdConstant:
		readinessReport.Fail(sizeCategoryConstant, fmt.Sprintf(
			aggregateFailTemplateConstant, formatByteSize(aggregateSize), formatByteSize(aggregateFailThresholdConstant)))
	case aggregateSize >= aggregateWarnThresholdConstant:
		readinessReport.Warn(sizeCategoryConstant, fmt.Sprintf(
			aggregateWarnTemplateConstant, formatByteSize(aggregateSize)))
	default:
		readinessReport.Pass(sizeCategoryConstant, fmt.Sprintf(
			aggregateSummaryTemplateConstant, formatByteSize(aggregateSize), measuredFiles))
	}
}

func formatByteSize(byteCount int64) string {
	return fmt.Sprintf("%.1f MB", float64(byteCount)/1_000_000)
}

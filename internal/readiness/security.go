package readiness

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shelfmark/shelfmark/internal/report"
)

const (
	securityCategoryConstant = "Security"

	trackedFilesFailureTemplateConstant = "Unable to list tracked files: %v"
	noSecretsMessageConstant            = "No secrets detected in tracked files"
	secretDetectedTemplateConstant      = "%s detected in %s"
	sensitiveFileTemplateConstant       = "Sensitive file tracked: %s"
	noSensitiveFilesMessageConstant     = "No sensitive file names tracked"
	ignoreFileNameConstant              = ".gitignore"
	ignoreFileMissingMessageConstant    = "No .gitignore file found"
	ignoreSecurityMissingTemplateConstant = "Missing recommended .gitignore patterns: %s"
	ignoreSecurityCompleteMessageConstant = ".gitignore covers the recommended security patterns"
	ignoreArtifactMissingTemplateConstant = ".gitignore is missing artifact pattern %q"
	ignoreArtifactCompleteMessageConstant = ".gitignore covers the expected build artifacts"
	commentLinePrefixConstant             = "#"
)

// SecretConfidence grades how likely a rule match is an actual credential.
type SecretConfidence string

// Supported confidence grades.
const (
	HighConfidence SecretConfidence = "high"
	LowConfidence  SecretConfidence = "low"
)

// SecretRule pairs a credential pattern with its confidence grade.
type SecretRule struct {
	Description string
	Expression  *regexp.Regexp
	Confidence  SecretConfidence
}

// SecretRules is the fixed credential detection table applied to tracked
// content and commit history.
var SecretRules = []SecretRule{
	{Description: "Private key block", Expression: regexp.MustCompile(`-----BEGIN\s+(RSA |DSA |EC |OPENSSH )?PRIVATE KEY-----`), Confidence: HighConfidence},
	{Description: "API credential assignment", Expression: regexp.MustCompile(`(?i)(api[_-]?key|api[_-]?secret|access[_-]?token)\s*[:=]\s*['"]?\w{16,}`), Confidence: HighConfidence},
	{Description: "Password assignment", Expression: regexp.MustCompile(`(?i)(password|passwd|pwd)\s*[:=]\s*['"]?.{8,}`), Confidence: LowConfidence},
	{Description: "AWS access key", Expression: regexp.MustCompile(`AKIA[0-9A-Z]{16}`), Confidence: HighConfidence},
	{Description: "GitHub personal access token", Expression: regexp.MustCompile(`ghp_[A-Za-z0-9_]{36}`), Confidence: HighConfidence},
	{Description: "GitLab personal access token", Expression: regexp.MustCompile(`glpat-[A-Za-z0-9_\-]{20}`), Confidence: HighConfidence},
}

// Sensitive basenames matched exactly or as a suffix.
var sensitiveFileNames = []string{
	".env", ".pem", ".key", "id_rsa", "id_dsa", "id_ed25519",
	"credentials.json", ".sqlite", ".DS_Store", ".p12", ".pfx",
}

// Security-motivated patterns every ignore file should carry.
var recommendedIgnorePatterns = []string{".env", ".DS_Store", "*.pem", "*.key", "id_rsa"}

type ecosystemProfile struct {
	markerFiles     []string
	markerExtension string
	ignorePatterns  []string
}

var ecosystemProfiles = []ecosystemProfile{
	{markerFiles: []string{"pom.xml", "build.gradle"}, ignorePatterns: []string{"target/", "*.class"}},
	{markerFiles: []string{"setup.py", "pyproject.toml", "requirements.txt"}, markerExtension: ".py", ignorePatterns: []string{"__pycache__/", "*.pyc", "*.egg-info", "dist/"}},
	{markerFiles: []string{"Cargo.toml"}, ignorePatterns: []string{"target/"}},
	{markerFiles: []string{"package.json"}, ignorePatterns: []string{"node_modules/"}},
}

// Patterns expected regardless of ecosystem: the archive output directory and
// operating-system litter.
var alwaysExpectedIgnorePatterns = []string{"release/", ".DS_Store"}

// SecurityAuditor scans tracked content, file names, and the ignore file for
// credential leaks and risky configuration.
type SecurityAuditor struct {
	repository RepositoryReader
}

// NewSecurityAuditor constructs a SecurityAuditor over the provided repository reader.
func NewSecurityAuditor(repository RepositoryReader) *SecurityAuditor {
	return &SecurityAuditor{repository: repository}
}

// Audit runs the tracked-content scan, the sensitive-filename scan, and the
// ignore-file audit, appending every finding to the report.
func (auditor *SecurityAuditor) Audit(executionContext context.Context, projectPath string, readinessReport *report.Report) {
	trackedFiles, listError := auditor.repository.ListTrackedFiles(executionContext, projectPath)
	if listError != nil {
		readinessReport.Fail(securityCategoryConstant, fmt.Sprintf(trackedFilesFailureTemplateConstant, listError))
		return
	}

	auditor.scanTrackedContent(projectPath, trackedFiles, readinessReport)
	auditor.scanSensitiveFileNames(trackedFiles, readinessReport)
	auditor.auditIgnoreFile(projectPath, trackedFiles, readinessReport)
}

func (auditor *SecurityAuditor) scanTrackedContent(projectPath string, trackedFiles []string, readinessReport *report.Report) {
	secretFindings := 0
	for _, trackedFile := range trackedFiles {
		fileContent, readError := os.ReadFile(filepath.Join(projectPath, trackedFile))
		if readError != nil {
			continue
		}
		if !decodesAsText(fileContent) {
			continue
		}
		for _, secretRule := range SecretRules {
			if !secretRule.Expression.Match(fileContent) {
				continue
			}
			secretFindings++
			findingMessage := fmt.Sprintf(secretDetectedTemplateConstant, secretRule.Description, trackedFile)
			if secretRule.Confidence == HighConfidence {
				readinessReport.Fail(securityCategoryConstant, findingMessage)
				continue
			}
			readinessReport.Warn(securityCategoryConstant, findingMessage)
		}
	}
	if secretFindings == 0 {
		readinessReport.Pass(securityCategoryConstant, noSecretsMessageConstant)
	}
}

func (auditor *SecurityAuditor) scanSensitiveFileNames(trackedFiles []string, readinessReport *report.Report) {
	sensitiveFindings := 0
	for _, trackedFile := range trackedFiles {
		fileBaseName := filepath.Base(trackedFile)
		for _, sensitiveName := range sensitiveFileNames {
			if fileBaseName != sensitiveName && !strings.HasSuffix(fileBaseName, sensitiveName) {
				continue
			}
			sensitiveFindings++
			readinessReport.Warn(securityCategoryConstant, fmt.Sprintf(sensitiveFileTemplateConstant, trackedFile))
			break
		}
	}
	if sensitiveFindings == 0 {
		readinessReport.Pass(securityCategoryConstant, noSensitiveFilesMessageConstant)
	}
}

func (auditor *SecurityAuditor) auditIgnoreFile(projectPath string, trackedFiles []string, readinessReport *report.Report) {
	ignoreContent, readError := os.ReadFile(filepath.Join(projectPath, ignoreFileNameConstant))
	if readError != nil {
		readinessReport.Warn(securityCategoryConstant, ignoreFileMissingMessageConstant)
		return
	}

	ignoreLines := parseIgnoreLines(string(ignoreContent))

	var missingSecurityPatterns []string
	for _, recommendedPattern := range recommendedIgnorePatterns {
		if !ignoreLinesCover(ignoreLines, recommendedPattern) {
			missingSecurityPatterns = append(missingSecurityPatterns, recommendedPattern)
		}
	}
	if len(missingSecurityPatterns) > 0 {
		readinessReport.Warn(securityCategoryConstant, fmt.Sprintf(ignoreSecurityMissingTemplateConstant, strings.Join(missingSecurityPatterns, ", ")))
	} else {
		readinessReport.Pass(securityCategoryConstant, ignoreSecurityCompleteMessageConstant)
	}

	missingArtifactPatterns := 0
	for _, artifactPattern := range expectedArtifactPatterns(projectPath, trackedFiles) {
		if ignoreLinesCover(ignoreLines, artifactPattern) {
			continue
		}
		missingArtifactPatterns++
		readinessReport.Warn(securityCategoryConstant, fmt.Sprintf(ignoreArtifactMissingTemplateConstant, artifactPattern))
	}
	if missingArtifactPatterns == 0 {
		readinessReport.Pass(securityCategoryConstant, ignoreArtifactCompleteMessageConstant)
	}
}

// expectedArtifactPatterns derives the build-artifact patterns for the
// ecosystems detected in the project, deduplicated in detection order.
func expectedArtifactPatterns(projectPath string, trackedFiles []string) []string {
	var expectedPatterns []string
	seenPatterns := map[string]bool{}
	appendPattern := func(ignorePattern string) {
		if seenPatterns[ignorePattern] {
			return
		}
		seenPatterns[ignorePattern] = true
		expectedPatterns = append(expectedPatterns, ignorePattern)
	}

	for _, ecosystem := range ecosystemProfiles {
		if !ecosystemDetected(projectPath, trackedFiles, ecosystem) {
			continue
		}
		for _, ignorePattern := range ecosystem.ignorePatterns {
			appendPattern(ignorePattern)
		}
	}
	for _, ignorePattern := range alwaysExpectedIgnorePatterns {
		appendPattern(ignorePattern)
	}
	return expectedPatterns
}

func ecosystemDetected(projectPath string, trackedFiles []string, ecosystem ecosystemProfile) bool {
	for _, markerFile := range ecosystem.markerFiles {
		if _, statError := os.Stat(filepath.Join(projectPath, markerFile)); statError == nil {
			return true
		}
	}
	if len(ecosystem.markerExtension) == 0 {
		return false
	}
	for _, trackedFile := range trackedFiles {
		if filepath.Ext(trackedFile) == ecosystem.markerExtension {
			return true
		}
	}
	return false
}

func parseIgnoreLines(ignoreContent string) []string {
	var ignoreLines []string
	for _, rawLine := range strings.Split(ignoreContent, "\n") {
		trimmedLine := strings.TrimSpace(rawLine)
		if len(trimmedLine) == 0 || strings.HasPrefix(trimmedLine, commentLinePrefixConstant) {
			continue
		}
		ignoreLines = append(ignoreLines, trimmedLine)
	}
	return ignoreLines
}

func ignoreLinesCover(ignoreLines []string, ignorePattern string) bool {
	for _, ignoreLine := range ignoreLines {
		if ignoreLine == ignorePattern || strings.HasSuffix(ignoreLine, ignorePattern) {
			return true
		}
	}
	return false
}

func decodesAsText(fileContent []byte) bool {
	return utf8.Valid(fileContent) && !bytes.ContainsRune(fileContent, 0)
}

package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shelfmark/shelfmark/internal/citation"
)

const (
	configurationFileNameConstant = "config.yaml"
	scaffoldFilePermissions       = 0o644
	fileExistsTemplateConstant    = "%s already exists; refusing to overwrite"
	releaseDateLayoutConstant     = "2006-01-02"
	initialVersionConstant        = "0.1.0"

	citationTemplateConstant = `cff-version: 1.2.0
message: "If you use this software, please cite it as below."
type: software
title: %q
version: %s
date-released: "%s"
authors:
  - family-names: %q
%s`
	citationGivenNamesTemplateConstant = "    given-names: %q\n"
	citationORCIDTemplateConstant      = "    orcid: %q\n"
	citationEmailTemplateConstant      = "    email: %q\n"

	configurationTemplateConstant = `common:
  log_level: info
  log_format: structured
tools:
  check:
    required_files: [LICENSE, README.md, CHANGELOG.md, CITATION.cff]
  build:
    archive_dir: release
  publish:
    language: eng
`
)

// Configuration captures the author defaults used when scaffolding.
type Configuration struct {
	AuthorName  string `mapstructure:"author_name"`
	AuthorORCID string `mapstructure:"author_orcid"`
	AuthorEmail string `mapstructure:"author_email"`
}

// Scaffolder writes starter citation metadata and tool configuration into a project.
type Scaffolder struct {
	configuration Configuration
	releaseDate   func() time.Time
}

// NewScaffolder constructs a Scaffolder from the provided author defaults.
func NewScaffolder(configuration Configuration) *Scaffolder {
	return &Scaffolder{configuration: configuration, releaseDate: time.Now}
}

// Scaffold writes CITATION.cff and config.yaml into the project root,
// refusing to overwrite files that already exist. It returns the paths written.
func (scaffolder *Scaffolder) Scaffold(projectPath string) ([]string, error) {
	scaffoldTargets := map[string]string{
		citation.FileName:             scaffolder.renderCitation(filepath.Base(projectPath)),
		configurationFileNameConstant: configurationTemplateConstant,
	}

	for targetName := range scaffoldTargets {
		if _, statError := os.Stat(filepath.Join(projectPath, targetName)); statError == nil {
			return nil, fmt.Errorf(fileExistsTemplateConstant, targetName)
		}
	}

	writtenPaths := []string{}
	for _, targetName := range []string{citation.FileName, configurationFileNameConstant} {
		targetPath := filepath.Join(projectPath, targetName)
		if writeError := os.WriteFile(targetPath, []byte(scaffoldTargets[targetName]), scaffoldFilePermissions); writeError != nil {
			return writtenPaths, writeError
		}
		writtenPaths = append(writtenPaths, targetPath)
	}
	return writtenPaths, nil
}

// renderCitation builds starter citation metadata, splitting the configured
// author name on "Family, Given" when a comma is present.
func (scaffolder *Scaffolder) renderCitation(projectTitle string) string {
	familyNames := strings.TrimSpace(scaffolder.configuration.AuthorName)
	givenNames := ""
	if commaIndex := strings.Index(familyNames, ","); commaIndex >= 0 {
		givenNames = strings.TrimSpace(familyNames[commaIndex+1:])
		familyNames = strings.TrimSpace(familyNames[:commaIndex])
	}

	optionalAuthorFields := ""
	if len(givenNames) > 0 {
		optionalAuthorFields += fmt.Sprintf(citationGivenNamesTemplateConstant, givenNames)
	}
	if len(scaffolder.configuration.AuthorORCID) > 0 {
		optionalAuthorFields += fmt.Sprintf(citationORCIDTemplateConstant, scaffolder.configuration.AuthorORCID)
	}
	if len(scaffolder.configuration.AuthorEmail) > 0 {
		optionalAuthorFields += fmt.Sprintf(citationEmailTemplateConstant, scaffolder.configuration.AuthorEmail)
	}

	return fmt.Sprintf(
		citationTemplateConstant,
		projectTitle,
		initialVersionConstant,
		scaffolder.releaseDate().Format(releaseDateLayoutConstant),
		familyNames,
		optionalAuthorFields,
	)
}

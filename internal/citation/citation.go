package citation

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

const (
	// FileName is the canonical citation metadata file name.
	FileName = "CITATION.cff"

	defaultWorkTypeConstant        = "software"
	parseFailureTemplateConstant   = "unable to parse %s: %w"
	readFailureTemplateConstant    = "unable to read %s: %w"
	orcidPatternConstant           = `^https://orcid\.org/\d{4}-\d{4}-\d{4}-\d{3}[\dX]$`
)

var orcidExpression = regexp.MustCompile(orcidPatternConstant)

// Author describes one entry of the authors list.
type Author struct {
	FamilyNames string `yaml:"family-names"`
	GivenNames  string `yaml:"given-names"`
	ORCID       string `yaml:"orcid"`
	Email       string `yaml:"email"`
	Affiliation string `yaml:"affiliation"`
}

// Document models the citation metadata fields the toolchain consumes.
type Document struct {
	CFFVersion     string   `yaml:"cff-version"`
	Title          string   `yaml:"title"`
	WorkType       string   `yaml:"type"`
	Authors        []Author `yaml:"authors"`
	Version        string   `yaml:"version"`
	License        string   `yaml:"license"`
	DateReleased   string   `yaml:"date-released"`
	RepositoryCode string   `yaml:"repository-code"`
	Abstract       string   `yaml:"abstract"`
	Keywords       []string `yaml:"keywords"`
}

// Parse decodes citation metadata from YAML content. Unknown keys are
// tolerated so community extensions of the format do not break validation.
func Parse(documentContent []byte) (*Document, error) {
	var document Document
	if unmarshalError := yaml.Unmarshal(documentContent, &document); unmarshalError != nil {
		return nil, fmt.Errorf(parseFailureTemplateConstant, FileName, unmarshalError)
	}
	if len(document.WorkType) == 0 {
		document.WorkType = defaultWorkTypeConstant
	}
	return &document, nil
}

// Load reads and parses the citation file found in the provided directory.
func Load(repositoryPath string) (*Document, error) {
	documentContent, readError := os.ReadFile(filepath.Join(repositoryPath, FileName))
	if readError != nil {
		return nil, fmt.Errorf(readFailureTemplateConstant, FileName, readError)
	}
	return Parse(documentContent)
}

// ValidORCID reports whether the identifier matches the canonical ORCID URL
// form, including the X checksum variant in the final position.
func ValidORCID(identifier string) bool {
	return orcidExpression.MatchString(identifier)
}

// DisplayName renders an author as "Family, Given", falling back to whichever
// name component is present.
func (author Author) DisplayName() string {
	switch {
	case len(author.FamilyNames) > 0 && len(author.GivenNames) > 0:
		return fmt.Sprintf("%s, %s", author.FamilyNames, author.GivenNames)
	case len(author.FamilyNames) > 0:
		return author.FamilyNames
	default:
		return author.GivenNames
	}
}

package readiness

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/shelfmark/shelfmark/internal/citation"
	"github.com/shelfmark/shelfmark/internal/report"
)

const (
	citationCategoryConstant = "Citation"

	citationMissingMessageConstant        = "CITATION.cff not found"
	citationParseFailureTemplateConstant  = "Unable to parse CITATION.cff: %v"
	fieldPresentTemplateConstant          = "%s is set"
	fieldMissingTemplateConstant          = "%s is missing"
	authorsListedTemplateConstant         = "%d author(s) listed"
	authorsMissingMessageConstant         = "No authors listed"
	authorFamilyMissingTemplateConstant   = "Author %d is missing family-names"
	authorORCIDValidTemplateConstant      = "Author %d has a valid ORCID"
	authorORCIDInvalidTemplateConstant    = "Author %d has an invalid ORCID: %q"
	versionMatchesTagTemplateConstant     = "version matches release tag (%s)"
	versionMismatchTemplateConstant       = "version %q does not match release tag version %q"
	citationVersionFieldNameConstant      = "version"
	citationCFFVersionFieldNameConstant   = "cff-version"
	citationTitleFieldNameConstant        = "title"
	citationAuthorsFieldNameConstant      = "authors"
	citationFamilyNamesFieldNameConstant  = "family-names"
	citationORCIDFieldNameConstant        = "orcid"
	citationLicenseFieldNameConstant      = "license"
	citationDateReleasedFieldNameConstant = "date-released"
)

// CitationValidator checks the citation metadata file for completeness and
// consistency with the resolved release tag.
type CitationValidator struct{}

// NewCitationValidator constructs a CitationValidator.
func NewCitationValidator() *CitationValidator {
	return &CitationValidator{}
}

// Validate parses CITATION.cff from the project root and appends one result per
// field check. A nil tagInfo skips the version consistency check.
func (validator *CitationValidator) Validate(projectPath string, tagInfo *TagInfo, readinessReport *report.Report) {
	documentContent, readError := os.ReadFile(filepath.Join(projectPath, citation.FileName))
	if readError != nil {
		readinessReport.Fail(citationCategoryConstant, citationMissingMessageConstant)
		return
	}

	var documentTree map[string]any
	if unmarshalError := yaml.Unmarshal(documentContent, &documentTree); unmarshalError != nil {
		readinessReport.Fail(citationCategoryConstant, fmt.Sprintf(citationParseFailureTemplateConstant, unmarshalError))
		return
	}

	validator.checkScalarField(documentTree, citationCFFVersionFieldNameConstant, readinessReport)
	validator.checkScalarField(documentTree, citationTitleFieldNameConstant, readinessReport)
	validator.checkAuthors(documentTree, readinessReport)
	validator.checkVersion(documentTree, tagInfo, readinessReport)
	validator.checkScalarField(documentTree, citationLicenseFieldNameConstant, readinessReport)
	validator.checkScalarField(documentTree, citationDateReleasedFieldNameConstant, readinessReport)
}

func (validator *CitationValidator) checkScalarField(documentTree map[string]any, fieldName string, readinessReport *report.Report) {
	if len(scalarFieldValue(documentTree, fieldName)) == 0 {
		readinessReport.Fail(citationCategoryConstant, fmt.Sprintf(fieldMissingTemplateConstant, fieldName))
		return
	}
	readinessReport.Pass(citationCategoryConstant, fmt.Sprintf(fieldPresentTemplateConstant, fieldName))
}

func (validator *CitationValidator) checkAuthors(documentTree map[string]any, readinessReport *report.Report) {
	authorEntries, entriesFound := documentTree[citationAuthorsFieldNameConstant].([]any)
	if !entriesFound || len(authorEntries) == 0 {
		readinessReport.Fail(citationCategoryConstant, authorsMissingMessageConstant)
		return
	}
	readinessReport.Pass(citationCategoryConstant, fmt.Sprintf(authorsListedTemplateConstant, len(authorEntries)))

	for entryIndex, authorEntry := range authorEntries {
		authorPosition := entryIndex + 1
		authorTree, treeFound := authorEntry.(map[string]any)
		if !treeFound {
			readinessReport.Fail(citationCategoryConstant, fmt.Sprintf(authorFamilyMissingTemplateConstant, authorPosition))
			continue
		}
		if len(scalarFieldValue(authorTree, citationFamilyNamesFieldNameConstant)) == 0 {
			readinessReport.Fail(citationCategoryConstant, fmt.Sprintf(authorFamilyMissingTemplateConstant, authorPosition))
		}
		orcidValue := scalarFieldValue(authorTree, citationORCIDFieldNameConstant)
		if len(orcidValue) == 0 {
			continue
		}
		if citation.ValidORCID(orcidValue) {
			readinessReport.Pass(citationCategoryConstant, fmt.Sprintf(authorORCIDValidTemplateConstant, authorPosition))
			continue
		}
		readinessReport.Fail(citationCategoryConstant, fmt.Sprintf(authorORCIDInvalidTemplateConstant, authorPosition, orcidValue))
	}
}

func (validator *CitationValidator) checkVersion(documentTree map[string]any, tagInfo *TagInfo, readinessReport *report.Report) {
	if tagInfo == nil {
		return
	}
	versionValue := scalarFieldValue(documentTree, citationVersionFieldNameConstant)
	if len(versionValue) == 0 {
		readinessReport.Fail(citationCategoryConstant, fmt.Sprintf(fieldMissingTemplateConstant, citationVersionFieldNameConstant))
		return
	}
	if versionValue != tagInfo.Version {
		readinessReport.Fail(citationCategoryConstant, fmt.Sprintf(versionMismatchTemplateConstant, versionValue, tagInfo.Version))
		return
	}
	readinessReport.Pass(citationCategoryConstant, fmt.Sprintf(versionMatchesTagTemplateConstant, versionValue))
}

func scalarFieldValue(documentTree map[string]any, fieldName string) string {
	fieldValue, fieldFound := documentTree[fieldName]
	if !fieldFound || fieldValue == nil {
		return ""
	}
	switch typedValue := fieldValue.(type) {
	case string:
		return typedValue
	case map[string]any, []any:
		return ""
	default:
		return fmt.Sprint(typedValue)
	}
}

package citation_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark/internal/citation"
)

const (
	completeDocumentCaseNameConstant   = "complete_document"
	defaultWorkTypeCaseNameConstant    = "missing_type_defaults_to_software"
	unknownKeysCaseNameConstant        = "unknown_keys_tolerated"
	malformedDocumentCaseNameConstant  = "malformed_document_rejected"
	missingFileCaseNameConstant        = "missing_file_reported"
	completeDocumentContentConstant    = "cff-version: 1.2.0\ntitle: Example Project\nversion: 1.2.3\nlicense: MIT\ndate-released: \"2026-08-01\"\nrepository-code: https://github.com/example/project\nauthors:\n  - family-names: Curie\n    given-names: Marie\n    orcid: https://orcid.org/0000-0002-1825-0097\nkeywords:\n  - research\n"
)

func TestParse(testInstance *testing.T) {
	testInstance.Run(completeDocumentCaseNameConstant, func(subtestInstance *testing.T) {
		document, parseError := citation.Parse([]byte(completeDocumentContentConstant))
		require.NoError(subtestInstance, parseError)
		require.Equal(subtestInstance, "Example Project", document.Title)
		require.Equal(subtestInstance, "1.2.3", document.Version)
		require.Equal(subtestInstance, "MIT", document.License)
		require.Equal(subtestInstance, "https://github.com/example/project", document.RepositoryCode)
		require.Len(subtestInstance, document.Authors, 1)
		require.Equal(subtestInstance, "Curie", document.Authors[0].FamilyNames)
		require.Equal(subtestInstance, "https://orcid.org/0000-0002-1825-0097", document.Authors[0].ORCID)
	})

	testInstance.Run(defaultWorkTypeCaseNameConstant, func(subtestInstance *testing.T) {
		document, parseError := citation.Parse([]byte("title: Minimal\n"))
		require.NoError(subtestInstance, parseError)
		require.Equal(subtestInstance, "software", document.WorkType)
	})

	testInstance.Run(unknownKeysCaseNameConstant, func(subtestInstance *testing.T) {
		document, parseError := citation.Parse([]byte("title: Extended\npreferred-citation:\n  title: Paper\n"))
		require.NoError(subtestInstance, parseError)
		require.Equal(subtestInstance, "Extended", document.Title)
	})

	testInstance.Run(malformedDocumentCaseNameConstant, func(subtestInstance *testing.T) {
		document, parseError := citation.Parse([]byte("title: [unclosed\n"))
		require.Nil(subtestInstance, document)
		require.Error(subtestInstance, parseError)
	})
}

func TestLoad(testInstance *testing.T) {
	testInstance.Run(completeDocumentCaseNameConstant, func(subtestInstance *testing.T) {
		repositoryPath := subtestInstance.TempDir()
		writeError := os.WriteFile(filepath.Join(repositoryPath, citation.FileName), []byte(completeDocumentContentConstant), 0o644)
		require.NoError(subtestInstance, writeError)

		document, loadError := citation.Load(repositoryPath)
		require.NoError(subtestInstance, loadError)
		require.Equal(subtestInstance, "Example Project", document.Title)
	})

	testInstance.Run(missingFileCaseNameConstant, func(subtestInstance *testing.T) {
		document, loadError := citation.Load(subtestInstance.TempDir())
		require.Nil(subtestInstance, document)
		require.Error(subtestInstance, loadError)
	})
}

func TestValidORCID(testInstance *testing.T) {
	testCases := []struct {
		name           string
		identifier     string
		expectedResult bool
	}{
		{name: "canonical_identifier", identifier: "https://orcid.org/0000-0002-1825-0097", expectedResult: true},
		{name: "checksum_x_identifier", identifier: "https://orcid.org/0000-0002-1825-009X", expectedResult: true},
		{name: "too_short_identifier", identifier: "https://orcid.org/0000-0002-1825", expectedResult: false},
		{name: "missing_scheme_identifier", identifier: "orcid.org/0000-0002-1825-0097", expectedResult: false},
		{name: "empty_identifier", identifier: "", expectedResult: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			require.Equal(subtestInstance, testCase.expectedResult, citation.ValidORCID(testCase.identifier))
		})
	}
}

func TestDisplayName(testInstance *testing.T) {
	testCases := []struct {
		name         string
		author       citation.Author
		expectedName string
	}{
		{name: "family_and_given", author: citation.Author{FamilyNames: "Curie", GivenNames: "Marie"}, expectedName: "Curie, Marie"},
		{name: "family_only", author: citation.Author{FamilyNames: "Curie"}, expectedName: "Curie"},
		{name: "given_only", author: citation.Author{GivenNames: "Marie"}, expectedName: "Marie"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			require.Equal(subtestInstance, testCase.expectedName, testCase.author.DisplayName())
		})
	}
}

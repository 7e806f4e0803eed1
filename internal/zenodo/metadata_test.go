package zenodo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark/internal/citation"
	"github.com/shelfmark/shelfmark/internal/zenodo"
)

const (
	completeMappingCaseNameConstant   = "complete_document_mapping"
	orcidStrippingCaseNameConstant    = "orcid_url_prefix_stripped"
	abstractFallbackCaseNameConstant  = "missing_abstract_falls_back_to_title"
	defaultLanguageCaseNameConstant   = "empty_language_defaults_to_eng"
	noRepositoryCodeCaseNameConstant  = "missing_repository_code_omits_related_identifier"
)

func TestBuildDepositMetadata(testInstance *testing.T) {
	completeDocument := &citation.Document{
		Title:          "Example Project",
		Version:        "1.2.3",
		License:        "MIT",
		DateReleased:   "2026-08-01",
		RepositoryCode: "https://github.com/example/project",
		Abstract:       "A project used in tests.",
		Keywords:       []string{"research"},
		Authors: []citation.Author{
			{FamilyNames: "Curie", GivenNames: "Marie", ORCID: "https://orcid.org/0000-0002-1825-0097", Affiliation: "Sorbonne"},
		},
	}

	testInstance.Run(completeMappingCaseNameConstant, func(subtestInstance *testing.T) {
		depositMetadata := zenodo.BuildDepositMetadata(completeDocument, "eng")

		require.Equal(subtestInstance, "Example Project", depositMetadata.Title)
		require.Equal(subtestInstance, "software", depositMetadata.UploadType)
		require.Equal(subtestInstance, "A project used in tests.", depositMetadata.Description)
		require.Equal(subtestInstance, "1.2.3", depositMetadata.Version)
		require.Equal(subtestInstance, "MIT", depositMetadata.License)
		require.Equal(subtestInstance, "2026-08-01", depositMetadata.PublicationDate)
		require.Equal(subtestInstance, []string{"research"}, depositMetadata.Keywords)
		require.Len(subtestInstance, depositMetadata.RelatedIdentifiers, 1)
		require.Equal(subtestInstance, "https://github.com/example/project", depositMetadata.RelatedIdentifiers[0].Identifier)
		require.Equal(subtestInstance, "isSupplementTo", depositMetadata.RelatedIdentifiers[0].Relation)
	})

	testInstance.Run(orcidStrippingCaseNameConstant, func(subtestInstance *testing.T) {
		depositMetadata := zenodo.BuildDepositMetadata(completeDocument, "eng")

		require.Len(subtestInstance, depositMetadata.Creators, 1)
		require.Equal(subtestInstance, "Curie, Marie", depositMetadata.Creators[0].Name)
		require.Equal(subtestInstance, "0000-0002-1825-0097", depositMetadata.Creators[0].ORCID)
		require.Equal(subtestInstance, "Sorbonne", depositMetadata.Creators[0].Affiliation)
	})

	testInstance.Run(abstractFallbackCaseNameConstant, func(subtestInstance *testing.T) {
		depositMetadata := zenodo.BuildDepositMetadata(&citation.Document{Title: "Bare Project"}, "eng")

		require.Equal(subtestInstance, "Bare Project", depositMetadata.Description)
	})

	testInstance.Run(defaultLanguageCaseNameConstant, func(subtestInstance *testing.T) {
		depositMetadata := zenodo.BuildDepositMetadata(completeDocument, "")

		require.Equal(subtestInstance, "eng", depositMetadata.Language)
	})

	testInstance.Run(noRepositoryCodeCaseNameConstant, func(subtestInstance *testing.T) {
		depositMetadata := zenodo.BuildDepositMetadata(&citation.Document{Title: "Bare Project"}, "eng")

		require.Empty(subtestInstance, depositMetadata.RelatedIdentifiers)
	})
}

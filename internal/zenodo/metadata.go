package zenodo

import (
	"strings"

	"github.com/shelfmark/shelfmark/internal/citation"
)

const (
	uploadTypeSoftwareConstant          = "software"
	defaultDepositLanguageConstant      = "eng"
	orcidURLPrefixConstant              = "https://orcid.org/"
	supplementRelationConstant          = "isSupplementTo"
	softwareResourceTypeConstant        = "software"
)

// Creator identifies one deposit author.
type Creator struct {
	Name        string `json:"name"`
	ORCID       string `json:"orcid,omitempty"`
	Affiliation string `json:"affiliation,omitempty"`
}

// RelatedIdentifier links the deposit to an external resource.
type RelatedIdentifier struct {
	Identifier   string `json:"identifier"`
	Relation     string `json:"relation"`
	ResourceType string `json:"resource_type,omitempty"`
}

// DepositMetadata is the metadata document accepted by the deposit API.
type DepositMetadata struct {
	Title              string              `json:"title"`
	UploadType         string              `json:"upload_type"`
	Description        string              `json:"description"`
	Version            string              `json:"version,omitempty"`
	License            string              `json:"license,omitempty"`
	PublicationDate    string              `json:"publication_date,omitempty"`
	Language           string              `json:"language,omitempty"`
	Creators           []Creator           `json:"creators"`
	Keywords           []string            `json:"keywords,omitempty"`
	RelatedIdentifiers []RelatedIdentifier `json:"related_identifiers,omitempty"`
}

// BuildDepositMetadata maps citation metadata onto a deposit document.
// Creator names follow the "Family, Given" convention and ORCID identifiers
// are stripped of their URL prefix.
func BuildDepositMetadata(document *citation.Document, depositLanguage string) DepositMetadata {
	if len(depositLanguage) == 0 {
		depositLanguage = defaultDepositLanguageConstant
	}

	depositDescription := document.Abstract
	if len(depositDescription) == 0 {
		depositDescription = document.Title
	}

	var depositCreators []Creator
	for _, documentAuthor := range document.Authors {
		depositCreators = append(depositCreators, Creator{
			Name:        documentAuthor.DisplayName(),
			ORCID:       strings.TrimPrefix(documentAuthor.ORCID, orcidURLPrefixConstant),
			Affiliation: documentAuthor.Affiliation,
		})
	}

	var relatedIdentifiers []RelatedIdentifier
	if len(document.RepositoryCode) > 0 {
		relatedIdentifiers = append(relatedIdentifiers, RelatedIdentifier{
			Identifier:   document.RepositoryCode,
			Relation:     supplementRelationConstant,
			ResourceType: softwareResourceTypeConstant,
		})
	}

	return DepositMetadata{
		Title:              document.Title,
		UploadType:         uploadTypeSoftwareConstant,
		Description:        depositDescription,
		Version:            document.Version,
		License:            document.License,
		PublicationDate:    document.DateReleased,
		Language:           depositLanguage,
		Creators:           depositCreators,
		Keywords:           document.Keywords,
		RelatedIdentifiers: relatedIdentifiers,
	}
}

package zenodo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/shelfmark/shelfmark/internal/execshell"
)

const (
	// ProductionBaseURL is the deposit API root of the production service.
	ProductionBaseURL = "https://zenodo.org/api"
	// SandboxBaseURL is the deposit API root of the sandbox service.
	SandboxBaseURL = "https://sandbox.zenodo.org/api"

	depositionsEndpointConstant       = "/deposit/depositions"
	publishActionTemplateConstant     = "/deposit/depositions/%d/actions/publish"
	depositionEndpointTemplateConstant = "/deposit/depositions/%d"

	curlSilentFlagConstant       = "--silent"
	curlShowErrorFlagConstant    = "--show-error"
	curlFailFlagConstant         = "--fail-with-body"
	curlRequestFlagConstant      = "--request"
	curlHeaderFlagConstant       = "--header"
	curlDataFlagConstant         = "--data"
	curlUploadFileFlagConstant   = "--upload-file"
	curlConfigFlagConstant       = "--config"
	curlConfigStdinConstant      = "-"
	jsonContentTypeHeaderConstant = "Content-Type: application/json"
	authorizationConfigTemplateConstant = "header = \"Authorization: Bearer %s\"\n"

	responseDecodeFailureTemplateConstant = "unable to decode deposit API response: %w"
	metadataEncodeFailureTemplateConstant = "unable to encode deposit metadata: %w"
)

// ErrAccessTokenNotConfigured reports a Client constructed without an access token.
var ErrAccessTokenNotConfigured = errors.New("deposit client requires an access token")

// CurlExecutor exposes the subset of shell execution used for HTTP requests.
type CurlExecutor interface {
	ExecuteCurl(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// DepositionLinks carries the hypermedia links returned with a deposition.
type DepositionLinks struct {
	Bucket string `json:"bucket"`
	HTML   string `json:"html"`
	DOI    string `json:"doi,omitempty"`
}

// Deposition is the deposit API's record of an upload in progress.
type Deposition struct {
	Identifier int             `json:"id"`
	State      string          `json:"state"`
	Links      DepositionLinks `json:"links"`
}

// Client drives the Zenodo deposit API through curl.
type Client struct {
	curlExecutor CurlExecutor
	baseURL      string
	accessToken  string
}

// NewClient constructs a Client for the provided API root and access token.
func NewClient(curlExecutor CurlExecutor, baseURL string, accessToken string) (*Client, error) {
	if len(accessToken) == 0 {
		return nil, ErrAccessTokenNotConfigured
	}
	return &Client{curlExecutor: curlExecutor, baseURL: baseURL, accessToken: accessToken}, nil
}

// CreateDeposition opens an empty deposition and returns its identifiers.
func (client *Client) CreateDeposition(executionContext context.Context) (Deposition, error) {
	return client.requestDeposition(executionContext, "POST", client.baseURL+depositionsEndpointConstant, []byte("{}"))
}

// UpdateMetadata replaces the deposition's metadata document.
func (client *Client) UpdateMetadata(executionContext context.Context, depositionIdentifier int, depositMetadata DepositMetadata) error {
	requestPayload, encodeError := json.Marshal(map[string]DepositMetadata{"metadata": depositMetadata})
	if encodeError != nil {
		return fmt.Errorf(metadataEncodeFailureTemplateConstant, encodeError)
	}
	requestURL := client.baseURL + fmt.Sprintf(depositionEndpointTemplateConstant, depositionIdentifier)
	_, requestError := client.requestDeposition(executionContext, "PUT", requestURL, requestPayload)
	return requestError
}

// UploadFile streams a bundle file into the deposition's bucket.
func (client *Client) UploadFile(executionContext context.Context, bucketURL string, filePath string) error {
	uploadURL := bucketURL + "/" + filepath.Base(filePath)
	_, executionError := client.curlExecutor.ExecuteCurl(executionContext, execshell.CommandDetails{
		Arguments: []string{
			curlSilentFlagConstant, curlShowErrorFlagConstant, curlFailFlagConstant,
			curlUploadFileFlagConstant, filePath,
			curlConfigFlagConstant, curlConfigStdinConstant,
			uploadURL,
		},
		StandardInput: client.authorizationConfig(),
	})
	return executionError
}

// Publish finalizes the deposition, making it public and minting its DOI.
func (client *Client) Publish(executionContext context.Context, depositionIdentifier int) (Deposition, error) {
	requestURL := client.baseURL + fmt.Sprintf(publishActionTemplateConstant, depositionIdentifier)
	return client.requestDeposition(executionContext, "POST", requestURL, nil)
}

func (client *Client) requestDeposition(executionContext context.Context, requestMethod string, requestURL string, requestPayload []byte) (Deposition, error) {
	requestArguments := []string{
		curlSilentFlagConstant, curlShowErrorFlagConstant, curlFailFlagConstant,
		curlRequestFlagConstant, requestMethod,
		curlHeaderFlagConstant, jsonContentTypeHeaderConstant,
	}
	if requestPayload != nil {
		requestArguments = append(requestArguments, curlDataFlagConstant, string(requestPayload))
	}
	requestArguments = append(requestArguments, curlConfigFlagConstant, curlConfigStdinConstant, requestURL)

	executionResult, executionError := client.curlExecutor.ExecuteCurl(executionContext, execshell.CommandDetails{
		Arguments:     requestArguments,
		StandardInput: client.authorizationConfig(),
	})
	if executionError != nil {
		return Deposition{}, executionError
	}

	var responseDeposition Deposition
	if decodeError := json.Unmarshal([]byte(executionResult.StandardOutput), &responseDeposition); decodeError != nil {
		return Deposition{}, fmt.Errorf(responseDecodeFailureTemplateConstant, decodeError)
	}
	return responseDeposition, nil
}

// authorizationConfig renders the bearer token as a curl config document so it
// never appears in the process argument list.
func (client *Client) authorizationConfig() []byte {
	return []byte(fmt.Sprintf(authorizationConfigTemplateConstant, client.accessToken))
}

// DepositionURL renders the human-facing address of a deposition.
func (client *Client) DepositionURL(depositionIdentifier int) string {
	return client.baseURL + depositionsEndpointConstant + "/" + strconv.Itoa(depositionIdentifier)
}

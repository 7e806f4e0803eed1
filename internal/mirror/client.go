package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shelfmark/shelfmark/internal/execshell"
)

const (
	codebergAPIBaseURLConstant            = "https://codeberg.org/api/v1"
	pushMirrorsEndpointTemplateConstant   = "%s/repos/%s/%s/push_mirrors"
	curlSilentFlagConstant                = "--silent"
	curlShowErrorFlagConstant             = "--show-error"
	curlFailFlagConstant                  = "--fail-with-body"
	curlRequestFlagConstant               = "--request"
	curlHeaderFlagConstant                = "--header"
	curlDataFlagConstant                  = "--data"
	curlConfigFlagConstant                = "--config"
	curlConfigStdinConstant               = "-"
	jsonContentTypeHeaderConstant         = "Content-Type: application/json"
	authorizationConfigTemplateConstant   = "header = \"Authorization: token %s\"\n"
	mirrorListDecodeFailureTemplateConstant = "unable to decode push mirror list: %w"
	mirrorEncodeFailureTemplateConstant     = "unable to encode push mirror request: %w"
)

// ErrForgeTokenNotConfigured reports a Client constructed without a forge token.
var ErrForgeTokenNotConfigured = errors.New("mirror client requires a Codeberg token")

// CurlExecutor exposes the subset of shell execution used for HTTP requests.
type CurlExecutor interface {
	ExecuteCurl(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// PushMirror is the forge's record of one configured push mirror.
type PushMirror struct {
	RemoteAddress string `json:"remote_address"`
	Interval      string `json:"interval"`
	SyncOnCommit  bool   `json:"sync_on_commit"`
}

// PushMirrorRequest configures one new push mirror.
type PushMirrorRequest struct {
	RemoteAddress  string `json:"remote_address"`
	RemoteUsername string `json:"remote_username"`
	RemotePassword string `json:"remote_password"`
	Interval       string `json:"interval"`
	SyncOnCommit   bool   `json:"sync_on_commit"`
}

// Client drives the Codeberg push mirror API through curl.
type Client struct {
	curlExecutor CurlExecutor
	baseURL      string
	forgeToken   string
}

// NewClient constructs a Client for the Codeberg API with the provided token.
func NewClient(curlExecutor CurlExecutor, forgeToken string) (*Client, error) {
	if len(forgeToken) == 0 {
		return nil, ErrForgeTokenNotConfigured
	}
	return &Client{curlExecutor: curlExecutor, baseURL: codebergAPIBaseURLConstant, forgeToken: forgeToken}, nil
}

// ListPushMirrors returns the push mirrors configured on the repository.
func (client *Client) ListPushMirrors(executionContext context.Context, ownerName string, repositoryName string) ([]PushMirror, error) {
	requestURL := fmt.Sprintf(pushMirrorsEndpointTemplateConstant, client.baseURL, ownerName, repositoryName)
	executionResult, executionError := client.curlExecutor.ExecuteCurl(executionContext, execshell.CommandDetails{
		Arguments: []string{
			curlSilentFlagConstant, curlShowErrorFlagConstant, curlFailFlagConstant,
			curlConfigFlagConstant, curlConfigStdinConstant,
			requestURL,
		},
		StandardInput: client.authorizationConfig(),
	})
	if executionError != nil {
		return nil, executionError
	}

	var pushMirrors []PushMirror
	if decodeError := json.Unmarshal([]byte(executionResult.StandardOutput), &pushMirrors); decodeError != nil {
		return nil, fmt.Errorf(mirrorListDecodeFailureTemplateConstant, decodeError)
	}
	return pushMirrors, nil
}

// AddPushMirror configures a new push mirror on the repository.
func (client *Client) AddPushMirror(executionContext context.Context, ownerName string, repositoryName string, mirrorRequest PushMirrorRequest) error {
	requestPayload, encodeError := json.Marshal(mirrorRequest)
	if encodeError != nil {
		return fmt.Errorf(mirrorEncodeFailureTemplateConstant, encodeError)
	}

	requestURL := fmt.Sprintf(pushMirrorsEndpointTemplateConstant, client.baseURL, ownerName, repositoryName)
	_, executionError := client.curlExecutor.ExecuteCurl(executionContext, execshell.CommandDetails{
		Arguments: []string{
			curlSilentFlagConstant, curlShowErrorFlagConstant, curlFailFlagConstant,
			curlRequestFlagConstant, "POST",
			curlHeaderFlagConstant, jsonContentTypeHeaderConstant,
			curlDataFlagConstant, string(requestPayload),
			curlConfigFlagConstant, curlConfigStdinConstant,
			requestURL,
		},
		StandardInput: client.authorizationConfig(),
	})
	return executionError
}

func (client *Client) authorizationConfig() []byte {
	return []byte(fmt.Sprintf(authorizationConfigTemplateConstant, client.forgeToken))
}

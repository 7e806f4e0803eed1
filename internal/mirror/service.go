package mirror

import (
	"context"
	"errors"
	"fmt"
)

const (
	mirrorIntervalConstant            = "8h0m0s"
	remoteAddressTemplateConstant     = "https://%s/%s/%s.git"
	githubHostConstant                = "github.com"
	gitlabHostConstant                = "gitlab.com"
	outcomeConfiguredConstant         = "configured"
	outcomeAlreadyPresentConstant     = "already configured"
	outcomeSkippedConstant            = "skipped (no credentials)"
)

// ErrCodebergUserNotConfigured reports a Service constructed without a Codeberg owner.
var ErrCodebergUserNotConfigured = errors.New("mirror service requires a Codeberg user")

// Configuration captures the forge accounts and tokens of the mirror command.
type Configuration struct {
	CodebergUser  string `mapstructure:"codeberg_user"`
	CodebergToken string `mapstructure:"codeberg_token"`
	GithubUser    string `mapstructure:"github_user"`
	GithubToken   string `mapstructure:"github_token"`
	GitlabUser    string `mapstructure:"gitlab_user"`
	GitlabToken   string `mapstructure:"gitlab_token"`
}

// MirrorOutcome reports what happened for one mirror target host.
type MirrorOutcome struct {
	Host          string
	RemoteAddress string
	Outcome       string
}

type mirrorTarget struct {
	hostName   string
	userName   string
	userToken  string
}

// Service ensures push mirrors to the configured target forges exist.
type Service struct {
	client        *Client
	configuration Configuration
}

// NewService constructs a Service from the provided client and configuration.
func NewService(client *Client, configuration Configuration) (*Service, error) {
	if len(configuration.CodebergUser) == 0 {
		return nil, ErrCodebergUserNotConfigured
	}
	return &Service{client: client, configuration: configuration}, nil
}

// EnsureMirrors lists the repository's push mirrors and adds one per target
// forge with credentials configured, skipping hosts that already have one.
func (service *Service) EnsureMirrors(executionContext context.Context, repositoryName string) ([]MirrorOutcome, error) {
	existingMirrors, listError := service.client.ListPushMirrors(executionContext, service.configuration.CodebergUser, repositoryName)
	if listError != nil {
		return nil, listError
	}

	existingAddresses := map[string]bool{}
	for _, existingMirror := range existingMirrors {
		existingAddresses[existingMirror.RemoteAddress] = true
	}

	mirrorTargets := []mirrorTarget{
		{hostName: githubHostConstant, userName: service.configuration.GithubUser, userToken: service.configuration.GithubToken},
		{hostName: gitlabHostConstant, userName: service.configuration.GitlabUser, userToken: service.configuration.GitlabToken},
	}

	var mirrorOutcomes []MirrorOutcome
	for _, target := range mirrorTargets {
		if len(target.userName) == 0 || len(target.userToken) == 0 {
			mirrorOutcomes = append(mirrorOutcomes, MirrorOutcome{Host: target.hostName, Outcome: outcomeSkippedConstant})
			continue
		}

		remoteAddress := fmt.Sprintf(remoteAddressTemplateConstant, target.hostName, target.userName, repositoryName)
		if existingAddresses[remoteAddress] {
			mirrorOutcomes = append(mirrorOutcomes, MirrorOutcome{Host: target.hostName, RemoteAddress: remoteAddress, Outcome: outcomeAlreadyPresentConstant})
			continue
		}

		mirrorRequest := PushMirrorRequest{
			RemoteAddress:  remoteAddress,
			RemoteUsername: target.userName,
			RemotePassword: target.userToken,
			Interval:       mirrorIntervalConstant,
			SyncOnCommit:   true,
		}
		if addError := service.client.AddPushMirror(executionContext, service.configuration.CodebergUser, repositoryName, mirrorRequest); addError != nil {
			return mirrorOutcomes, addError
		}
		mirrorOutcomes = append(mirrorOutcomes, MirrorOutcome{Host: target.hostName, RemoteAddress: remoteAddress, Outcome: outcomeConfiguredConstant})
	}

	return mirrorOutcomes, nil
}

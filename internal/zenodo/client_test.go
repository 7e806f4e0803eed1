package zenodo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark/internal/execshell"
	"github.com/shelfmark/shelfmark/internal/zenodo"
)

const (
	accessTokenConstant               = "token-value"
	missingTokenCaseNameConstant      = "missing_token_rejected"
	createDepositionCaseNameConstant  = "create_deposition_decodes_response"
	tokenOnStdinCaseNameConstant      = "token_travels_on_stdin_not_arguments"
	uploadFileCaseNameConstant        = "upload_targets_bucket_with_file_name"
	publishActionCaseNameConstant     = "publish_posts_to_the_actions_endpoint"
	depositionResponseConstant        = `{"id": 42, "state": "unsubmitted", "links": {"bucket": "https://zenodo.org/api/files/bucket-id", "html": "https://zenodo.org/deposit/42"}}`
)

type stubCurlExecutor struct {
	responseBody     string
	recordedCommands []execshell.CommandDetails
}

func (executor *stubCurlExecutor) ExecuteCurl(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedCommands = append(executor.recordedCommands, details)
	return execshell.ExecutionResult{StandardOutput: executor.responseBody}, nil
}

func TestNewClientValidation(testInstance *testing.T) {
	testInstance.Run(missingTokenCaseNameConstant, func(subtestInstance *testing.T) {
		client, constructionError := zenodo.NewClient(&stubCurlExecutor{}, zenodo.ProductionBaseURL, "")
		require.Nil(subtestInstance, client)
		require.ErrorIs(subtestInstance, constructionError, zenodo.ErrAccessTokenNotConfigured)
	})
}

func TestClientRequests(testInstance *testing.T) {
	testInstance.Run(createDepositionCaseNameConstant, func(subtestInstance *testing.T) {
		executor := &stubCurlExecutor{responseBody: depositionResponseConstant}
		client, constructionError := zenodo.NewClient(executor, zenodo.ProductionBaseURL, accessTokenConstant)
		require.NoError(subtestInstance, constructionError)

		deposition, creationError := client.CreateDeposition(context.Background())

		require.NoError(subtestInstance, creationError)
		require.Equal(subtestInstance, 42, deposition.Identifier)
		require.Equal(subtestInstance, "https://zenodo.org/api/files/bucket-id", deposition.Links.Bucket)
		require.Contains(subtestInstance, executor.recordedCommands[0].Arguments, "https://zenodo.org/api/deposit/depositions")
	})

	testInstance.Run(tokenOnStdinCaseNameConstant, func(subtestInstance *testing.T) {
		executor := &stubCurlExecutor{responseBody: depositionResponseConstant}
		client, constructionError := zenodo.NewClient(executor, zenodo.SandboxBaseURL, accessTokenConstant)
		require.NoError(subtestInstance, constructionError)

		_, creationError := client.CreateDeposition(context.Background())

		require.NoError(subtestInstance, creationError)
		recordedCommand := executor.recordedCommands[0]
		require.Contains(subtestInstance, string(recordedCommand.StandardInput), accessTokenConstant)
		for _, commandArgument := range recordedCommand.Arguments {
			require.NotContains(subtestInstance, commandArgument, accessTokenConstant)
		}
	})

	testInstance.Run(uploadFileCaseNameConstant, func(subtestInstance *testing.T) {
		executor := &stubCurlExecutor{responseBody: "{}"}
		client, constructionError := zenodo.NewClient(executor, zenodo.ProductionBaseURL, accessTokenConstant)
		require.NoError(subtestInstance, constructionError)

		uploadError := client.UploadFile(context.Background(), "https://zenodo.org/api/files/bucket-id", "/tmp/bundle/project-v1.2.3.tar.gz")

		require.NoError(subtestInstance, uploadError)
		recordedArguments := executor.recordedCommands[0].Arguments
		require.Contains(subtestInstance, recordedArguments, "--upload-file")
		require.Contains(subtestInstance, recordedArguments, "/tmp/bundle/project-v1.2.3.tar.gz")
		require.Contains(subtestInstance, recordedArguments, "https://zenodo.org/api/files/bucket-id/project-v1.2.3.tar.gz")
	})

	testInstance.Run(publishActionCaseNameConstant, func(subtestInstance *testing.T) {
		executor := &stubCurlExecutor{responseBody: depositionResponseConstant}
		client, constructionError := zenodo.NewClient(executor, zenodo.ProductionBaseURL, accessTokenConstant)
		require.NoError(subtestInstance, constructionError)

		_, publishError := client.Publish(context.Background(), 42)

		require.NoError(subtestInstance, publishError)
		require.Contains(subtestInstance, executor.recordedCommands[0].Arguments, "https://zenodo.org/api/deposit/depositions/42/actions/publish")
	})
}

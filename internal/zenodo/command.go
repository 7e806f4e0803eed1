package zenodo

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/shelfmark/shelfmark/internal/citation"
	"github.com/shelfmark/shelfmark/internal/execshell"
	"github.com/shelfmark/shelfmark/internal/gitrepo"
	"github.com/shelfmark/shelfmark/internal/readiness"
	"github.com/shelfmark/shelfmark/internal/ui"
	"github.com/shelfmark/shelfmark/internal/utils"
)

const (
	commandUseConstant                  = "publish"
	commandShortDescriptionConstant     = "Deposit the release bundle with Zenodo"
	commandLongDescriptionConstant      = "publish creates a Zenodo deposition from the citation metadata, uploads the release bundle, and finalizes the record."
	unexpectedArgumentsMessageConstant  = "publish does not accept positional arguments"
	flagProjectDirNameConstant          = "project-dir"
	flagProjectDirDefaultConstant       = "."
	flagProjectDirDescriptionConstant   = "Path to the project to publish"
	flagSandboxNameConstant             = "sandbox"
	flagSandboxDescriptionConstant      = "Deposit with the Zenodo sandbox service"
	flagConfirmNameConstant             = "confirm"
	flagConfirmDescriptionConstant      = "Publish without an interactive confirmation prompt"
	defaultArchiveDirectoryConstant     = "release"
	bundleMissingTemplateConstant       = "no release bundle found at %s; run build first"
	confirmationPromptConstant          = "Publish to production Zenodo? Type 'yes' to continue: "
	confirmationAnswerConstant          = "yes"
	publishAbortedMessageConstant       = "publish aborted"
	nonInteractiveMessageConstant       = "refusing to publish to production without --confirm on a non-interactive session"
	publishedTemplateConstant           = "Published deposition %d: %s\n"
	uploadedTemplateConstant            = "Uploaded %s\n"
	logFieldDepositionConstant          = "deposition_id"
	logFieldServiceURLConstant          = "service_url"
	depositionCreatedLogMessageConstant = "deposition created"
)

var (
	errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)
	errPublishAborted      = errors.New(publishAbortedMessageConstant)
	errNonInteractive      = errors.New(nonInteractiveMessageConstant)
)

// Configuration captures the user-tunable inputs of the publish command.
type Configuration struct {
	Language   string `mapstructure:"language"`
	ArchiveDir string `mapstructure:"archive_dir"`
}

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the tool configuration after it is loaded.
type ConfigurationProvider func() Configuration

// CommandBuilder assembles the Cobra command for depositing a release.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	CurlExecutor                 CurlExecutor
	Repository                   readiness.TagResolver
	TokenResolver                func(useSandbox bool) (string, error)
	ConfigurationProvider        ConfigurationProvider
	HumanReadableLoggingProvider func() bool
}

// Build constructs the publish command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(flagProjectDirNameConstant, flagProjectDirDefaultConstant, flagProjectDirDescriptionConstant)
	command.Flags().Bool(flagSandboxNameConstant, false, flagSandboxDescriptionConstant)
	command.Flags().Bool(flagConfirmNameConstant, false, flagConfirmDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	projectDirValue, _ := command.Flags().GetString(flagProjectDirNameConstant)
	projectPath, pathError := filepath.Abs(strings.TrimSpace(projectDirValue))
	if pathError != nil {
		return pathError
	}
	useSandbox, _ := command.Flags().GetBool(flagSandboxNameConstant)
	skipPrompt, _ := command.Flags().GetBool(flagConfirmNameConstant)

	logger := builder.resolveLogger()
	curlExecutor, repository, dependencyError := builder.resolveDependencies(logger)
	if dependencyError != nil {
		return dependencyError
	}

	citationDocument, citationError := citation.Load(projectPath)
	if citationError != nil {
		return citationError
	}

	tagInfo, tagError := readiness.ResolveReleaseTag(command.Context(), repository, projectPath)
	if tagError != nil {
		return tagError
	}

	toolConfiguration := builder.resolveConfiguration()
	bundleFiles, bundleError := locateBundleFiles(projectPath, toolConfiguration.ArchiveDir, tagInfo.Tag)
	if bundleError != nil {
		return bundleError
	}

	if !useSandbox && !skipPrompt {
		if confirmationError := confirmInteractively(command); confirmationError != nil {
			return confirmationError
		}
	}

	accessToken, tokenError := builder.resolveToken(useSandbox)
	if tokenError != nil {
		return tokenError
	}

	serviceBaseURL := ProductionBaseURL
	if useSandbox {
		serviceBaseURL = SandboxBaseURL
	}
	depositClient, clientError := NewClient(curlExecutor, serviceBaseURL, accessToken)
	if clientError != nil {
		return clientError
	}

	deposition, creationError := depositClient.CreateDeposition(command.Context())
	if creationError != nil {
		return creationError
	}
	logger.Info(
		depositionCreatedLogMessageConstant,
		zap.Int(logFieldDepositionConstant, deposition.Identifier),
		zap.String(logFieldServiceURLConstant, serviceBaseURL),
	)

	depositMetadata := BuildDepositMetadata(citationDocument, toolConfiguration.Language)
	if metadataError := depositClient.UpdateMetadata(command.Context(), deposition.Identifier, depositMetadata); metadataError != nil {
		return metadataError
	}

	outputWriter := utils.NewFlushingWriter(command.OutOrStdout())
	for _, bundleFile := range bundleFiles {
		if uploadError := depositClient.UploadFile(command.Context(), deposition.Links.Bucket, bundleFile); uploadError != nil {
			return uploadError
		}
		fmt.Fprintf(outputWriter, uploadedTemplateConstant, filepath.Base(bundleFile))
	}

	publishedDeposition, publishError := depositClient.Publish(command.Context(), deposition.Identifier)
	if publishError != nil {
		return publishError
	}
	fmt.Fprintf(outputWriter, publishedTemplateConstant, publishedDeposition.Identifier, publishedDeposition.Links.HTML)

	return nil
}

func locateBundleFiles(projectPath string, archiveDirectory string, tagName string) ([]string, error) {
	if len(archiveDirectory) == 0 {
		archiveDirectory = defaultArchiveDirectoryConstant
	}
	bundleDirectory := filepath.Join(projectPath, archiveDirectory, tagName)
	directoryEntries, readError := os.ReadDir(bundleDirectory)
	if readError != nil || len(directoryEntries) == 0 {
		return nil, fmt.Errorf(bundleMissingTemplateConstant, bundleDirectory)
	}

	var bundleFiles []string
	for _, directoryEntry := range directoryEntries {
		if directoryEntry.IsDir() {
			continue
		}
		bundleFiles = append(bundleFiles, filepath.Join(bundleDirectory, directoryEntry.Name()))
	}
	if len(bundleFiles) == 0 {
		return nil, fmt.Errorf(bundleMissingTemplateConstant, bundleDirectory)
	}
	return bundleFiles, nil
}

func confirmInteractively(command *cobra.Command) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errNonInteractive
	}

	fmt.Fprint(command.OutOrStdout(), confirmationPromptConstant)
	promptReader := bufio.NewReader(command.InOrStdin())
	promptAnswer, readError := promptReader.ReadString('\n')
	if readError != nil {
		return errPublishAborted
	}
	if strings.TrimSpace(promptAnswer) != confirmationAnswerConstant {
		return errPublishAborted
	}
	return nil
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	if builder.ConfigurationProvider == nil {
		return Configuration{}
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveToken(useSandbox bool) (string, error) {
	if builder.TokenResolver != nil {
		return builder.TokenResolver(useSandbox)
	}
	return ResolveToken(useSandbox)
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) resolveDependencies(logger *zap.Logger) (CurlExecutor, readiness.TagResolver, error) {
	curlExecutor := builder.CurlExecutor
	repository := builder.Repository
	if curlExecutor != nil && repository != nil {
		return curlExecutor, repository, nil
	}

	shellExecutor, creationError := execshell.NewShellExecutorWithObserver(logger, execshell.NewOSCommandRunner(), builder.resolveCommandEventObserver(logger))
	if creationError != nil {
		return nil, nil, creationError
	}
	if curlExecutor == nil {
		curlExecutor = shellExecutor
	}
	if repository == nil {
		repositoryReader, readerError := gitrepo.NewRepositoryReader(shellExecutor)
		if readerError != nil {
			return nil, nil, readerError
		}
		repository = repositoryReader
	}
	return curlExecutor, repository, nil
}

func (builder *CommandBuilder) resolveCommandEventObserver(logger *zap.Logger) execshell.CommandEventObserver {
	if builder.HumanReadableLoggingProvider == nil || !builder.HumanReadableLoggingProvider() {
		return nil
	}
	return ui.NewConsoleCommandEventLogger(logger)
}

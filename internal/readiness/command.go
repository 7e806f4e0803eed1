package readiness

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shelfmark/shelfmark/internal/execshell"
	"github.com/shelfmark/shelfmark/internal/gitrepo"
	"github.com/shelfmark/shelfmark/internal/ui"
	"github.com/shelfmark/shelfmark/internal/utils"
)

const (
	commandUseConstant                 = "check"
	commandShortDescriptionConstant    = "Validate release readiness of a project"
	commandLongDescriptionConstant     = "check inspects version control state, required files, citation metadata, secrets, and repository size, then prints a release readiness report."
	unexpectedArgumentsMessageConstant = "check does not accept positional arguments"
	releaseNotReadyMessageConstant     = "release readiness validation failed"
	flagProjectDirNameConstant         = "project-dir"
	flagProjectDirDefaultConstant      = "."
	flagProjectDirDescriptionConstant  = "Path to the project to validate"
)

var (
	errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

	// ErrReleaseNotReady signals that the report contains at least one failure.
	ErrReleaseNotReady = errors.New(releaseNotReadyMessageConstant)
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the tool configuration after it is loaded.
type ConfigurationProvider func() Configuration

// CommandBuilder assembles the Cobra command for release readiness validation.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	Repository                   RepositoryReader
	ConfigurationProvider        ConfigurationProvider
	HumanReadableLoggingProvider func() bool
}

// Build constructs the check command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(flagProjectDirNameConstant, flagProjectDirDefaultConstant, flagProjectDirDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	projectPath, pathError := resolveProjectPath(command)
	if pathError != nil {
		return pathError
	}

	logger := builder.resolveLogger()
	repository, repositoryError := builder.resolveRepository(logger)
	if repositoryError != nil {
		return repositoryError
	}

	service, serviceError := NewService(repository, builder.resolveConfiguration())
	if serviceError != nil {
		return serviceError
	}

	readinessReport := service.Run(command.Context(), projectPath)
	if renderError := readinessReport.Render(utils.NewFlushingWriter(command.OutOrStdout())); renderError != nil {
		return renderError
	}

	if readinessReport.HasFailures() {
		return ErrReleaseNotReady
	}

	return nil
}

func resolveProjectPath(command *cobra.Command) (string, error) {
	projectDirValue, _ := command.Flags().GetString(flagProjectDirNameConstant)
	trimmedProjectDir := strings.TrimSpace(projectDirValue)
	if len(trimmedProjectDir) == 0 {
		trimmedProjectDir = flagProjectDirDefaultConstant
	}
	return filepath.Abs(trimmedProjectDir)
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	if builder.ConfigurationProvider == nil {
		return DefaultConfiguration()
	}
	return builder.ConfigurationProvider()
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

func (builder *CommandBuilder) resolveRepository(logger *zap.Logger) (RepositoryReader, error) {
	if builder.Repository != nil {
		return builder.Repository, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutorWithObserver(logger, commandRunner, builder.resolveCommandEventObserver(logger))
	if creationError != nil {
		return nil, creationError
	}

	return gitrepo.NewRepositoryReader(shellExecutor)
}

func (builder *CommandBuilder) resolveCommandEventObserver(logger *zap.Logger) execshell.CommandEventObserver {
	if builder.HumanReadableLoggingProvider == nil || !builder.HumanReadableLoggingProvider() {
		return nil
	}
	return ui.NewConsoleCommandEventLogger(logger)
}

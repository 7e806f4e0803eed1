package mirror

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shelfmark/shelfmark/internal/execshell"
	"github.com/shelfmark/shelfmark/internal/ui"
)

const (
	commandUseConstant                 = "mirror"
	commandShortDescriptionConstant    = "Configure push mirrors to the target forges"
	commandLongDescriptionConstant     = "mirror ensures the Codeberg repository pushes to the configured GitHub and GitLab mirrors."
	unexpectedArgumentsMessageConstant = "mirror does not accept positional arguments"
	flagProjectDirNameConstant         = "project-dir"
	flagProjectDirDefaultConstant      = "."
	flagProjectDirDescriptionConstant  = "Path to the mirrored project"
	outcomeLineTemplateConstant        = "%s: %s\n"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the tool configuration after it is loaded.
type ConfigurationProvider func() Configuration

// CommandBuilder assembles the Cobra command for push mirror configuration.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	CurlExecutor                 CurlExecutor
	ConfigurationProvider        ConfigurationProvider
	HumanReadableLoggingProvider func() bool
}

// Build constructs the mirror command.
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

	projectDirValue, _ := command.Flags().GetString(flagProjectDirNameConstant)
	projectPath, pathError := filepath.Abs(strings.TrimSpace(projectDirValue))
	if pathError != nil {
		return pathError
	}
	repositoryName := filepath.Base(projectPath)

	logger := builder.resolveLogger()
	curlExecutor, executorError := builder.resolveExecutor(logger)
	if executorError != nil {
		return executorError
	}

	toolConfiguration := Configuration{}
	if builder.ConfigurationProvider != nil {
		toolConfiguration = builder.ConfigurationProvider()
	}

	mirrorClient, clientError := NewClient(curlExecutor, toolConfiguration.CodebergToken)
	if clientError != nil {
		return clientError
	}
	mirrorService, serviceError := NewService(mirrorClient, toolConfiguration)
	if serviceError != nil {
		return serviceError
	}

	mirrorOutcomes, ensureError := mirrorService.EnsureMirrors(command.Context(), repositoryName)
	if ensureError != nil {
		return ensureError
	}

	for _, mirrorOutcome := range mirrorOutcomes {
		fmt.Fprintf(command.OutOrStdout(), outcomeLineTemplateConstant, mirrorOutcome.Host, mirrorOutcome.Outcome)
	}
	return nil
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

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (CurlExecutor, error) {
	if builder.CurlExecutor != nil {
		return builder.CurlExecutor, nil
	}

	return execshell.NewShellExecutorWithObserver(logger, execshell.NewOSCommandRunner(), builder.resolveCommandEventObserver(logger))
}

func (builder *CommandBuilder) resolveCommandEventObserver(logger *zap.Logger) execshell.CommandEventObserver {
	if builder.HumanReadableLoggingProvider == nil || !builder.HumanReadableLoggingProvider() {
		return nil
	}
	return ui.NewConsoleCommandEventLogger(logger)
}

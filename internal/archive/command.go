package archive

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shelfmark/shelfmark/internal/execshell"
	"github.com/shelfmark/shelfmark/internal/gitrepo"
	"github.com/shelfmark/shelfmark/internal/ui"
)

const (
	commandUseConstant                 = "build"
	commandShortDescriptionConstant    = "Package the tagged release into a distributable bundle"
	commandLongDescriptionConstant     = "build archives the release tag's tree and writes the bundle with checksums and deposit metadata under the archive directory."
	unexpectedArgumentsMessageConstant = "build does not accept positional arguments"
	flagProjectDirNameConstant         = "project-dir"
	flagProjectDirDefaultConstant      = "."
	flagProjectDirDescriptionConstant  = "Path to the project to package"
	defaultArchiveDirectoryConstant    = "release"
	bundleBuiltTemplateConstant        = "Built release bundle for %s at %s\n"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// Configuration captures the user-tunable inputs of the build command.
type Configuration struct {
	ArchiveDir string `mapstructure:"archive_dir"`
}

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the tool configuration after it is loaded.
type ConfigurationProvider func() Configuration

// CommandBuilder assembles the Cobra command for packaging a release.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	Repository                   Repository
	ConfigurationProvider        ConfigurationProvider
	HumanReadableLoggingProvider func() bool
}

// Build constructs the build command.
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

	logger := builder.resolveLogger()
	repository, repositoryError := builder.resolveRepository(logger)
	if repositoryError != nil {
		return repositoryError
	}

	archiveDirectory := defaultArchiveDirectoryConstant
	if builder.ConfigurationProvider != nil {
		if configuredDirectory := builder.ConfigurationProvider().ArchiveDir; len(configuredDirectory) > 0 {
			archiveDirectory = configuredDirectory
		}
	}

	releaseBundle, buildError := NewBuilder(repository).BuildBundle(command.Context(), projectPath, archiveDirectory)
	if buildError != nil {
		return buildError
	}

	fmt.Fprintf(command.OutOrStdout(), bundleBuiltTemplateConstant, releaseBundle.Tag.Tag, releaseBundle.Directory)
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

func (builder *CommandBuilder) resolveRepository(logger *zap.Logger) (Repository, error) {
	if builder.Repository != nil {
		return builder.Repository, nil
	}

	shellExecutor, creationError := execshell.NewShellExecutorWithObserver(logger, execshell.NewOSCommandRunner(), builder.resolveCommandEventObserver(logger))
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

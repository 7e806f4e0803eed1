package scaffold

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

const (
	commandUseConstant                 = "init"
	commandShortDescriptionConstant    = "Write starter citation metadata and configuration"
	commandLongDescriptionConstant     = "init scaffolds CITATION.cff and config.yaml in the project root, refusing to overwrite existing files."
	unexpectedArgumentsMessageConstant = "init does not accept positional arguments"
	flagProjectDirNameConstant         = "project-dir"
	flagProjectDirDefaultConstant      = "."
	flagProjectDirDescriptionConstant  = "Path to the project to scaffold"
	writtenLineTemplateConstant        = "Wrote %s\n"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// ConfigurationProvider supplies the tool configuration after it is loaded.
type ConfigurationProvider func() Configuration

// CommandBuilder assembles the Cobra command for project scaffolding.
type CommandBuilder struct {
	ConfigurationProvider ConfigurationProvider
}

// Build constructs the init command.
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

	toolConfiguration := Configuration{}
	if builder.ConfigurationProvider != nil {
		toolConfiguration = builder.ConfigurationProvider()
	}

	writtenPaths, scaffoldError := NewScaffolder(toolConfiguration).Scaffold(projectPath)
	if scaffoldError != nil {
		return scaffoldError
	}

	for _, writtenPath := range writtenPaths {
		fmt.Fprintf(command.OutOrStdout(), writtenLineTemplateConstant, filepath.Base(writtenPath))
	}
	return nil
}

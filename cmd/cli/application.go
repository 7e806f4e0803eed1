package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/shelfmark/shelfmark/internal/archive"
	"github.com/shelfmark/shelfmark/internal/mirror"
	"github.com/shelfmark/shelfmark/internal/readiness"
	"github.com/shelfmark/shelfmark/internal/scaffold"
	"github.com/shelfmark/shelfmark/internal/utils"
	"github.com/shelfmark/shelfmark/internal/zenodo"
)

const (
	applicationNameConstant                 = "shelfmark"
	applicationShortDescriptionConstant     = "Validate, audit, and package scholarly software releases"
	applicationLongDescriptionConstant      = "shelfmark validates release readiness, packages tagged releases, deposits them with Zenodo, and keeps forge mirrors in sync."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	environmentPrefixConstant               = "SHELFMARK"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	rootCommandInfoMessageConstant          = "shelfmark CLI executed"
	logFieldCommandNameConstant             = "command_name"
	logFieldArgumentCountConstant           = "argument_count"
	loggerNotInitializedMessageConstant     = "logger not initialized"
	defaultConfigurationSearchPathConstant  = "."
	toolsConfigurationKeyConstant           = "tools"
	checkRequiredFilesConfigKeyConstant     = toolsConfigurationKeyConstant + ".check.required_files"
	buildArchiveDirConfigKeyConstant        = toolsConfigurationKeyConstant + ".build.archive_dir"
	publishLanguageConfigKeyConstant        = toolsConfigurationKeyConstant + ".publish.language"
	defaultArchiveDirectoryConstant         = "release"
	defaultDepositLanguageConstant          = "eng"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Tools  ApplicationToolsConfiguration  `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationToolsConfiguration holds configuration for CLI subcommands grouped by tool.
type ApplicationToolsConfiguration struct {
	Check   readiness.Configuration `mapstructure:"check"`
	Build   archive.Configuration   `mapstructure:"build"`
	Publish zenodo.Configuration    `mapstructure:"publish"`
	Mirror  mirror.Configuration    `mapstructure:"mirror"`
	Init    scaffold.Configuration  `mapstructure:"init"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	logger                *zap.Logger
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	logLevelFlagValue     string
	logFormatFlagValue    string
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant},
	)

	application := &Application{
		configurationLoader: configurationLoader,
		loggerFactory:       utils.NewLoggerFactory(),
		logger:              zap.NewNop(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)

	loggerProvider := func() *zap.Logger {
		return application.logger
	}

	checkBuilder := readiness.CommandBuilder{
		LoggerProvider: loggerProvider,
		ConfigurationProvider: func() readiness.Configuration {
			return application.configuration.Tools.Check
		},
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
	}
	if checkCommand, checkBuildError := checkBuilder.Build(); checkBuildError == nil {
		cobraCommand.AddCommand(checkCommand)
	}

	buildBuilder := archive.CommandBuilder{
		LoggerProvider: loggerProvider,
		ConfigurationProvider: func() archive.Configuration {
			return application.configuration.Tools.Build
		},
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
	}
	if buildCommand, buildBuildError := buildBuilder.Build(); buildBuildError == nil {
		cobraCommand.AddCommand(buildCommand)
	}

	publishBuilder := zenodo.CommandBuilder{
		LoggerProvider: loggerProvider,
		ConfigurationProvider: func() zenodo.Configuration {
			return application.configuration.Tools.Publish
		},
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
	}
	if publishCommand, publishBuildError := publishBuilder.Build(); publishBuildError == nil {
		cobraCommand.AddCommand(publishCommand)
	}

	mirrorBuilder := mirror.CommandBuilder{
		LoggerProvider: loggerProvider,
		ConfigurationProvider: func() mirror.Configuration {
			return application.configuration.Tools.Mirror
		},
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
	}
	if mirrorCommand, mirrorBuildError := mirrorBuilder.Build(); mirrorBuildError == nil {
		cobraCommand.AddCommand(mirrorCommand)
	}

	initBuilder := scaffold.CommandBuilder{
		ConfigurationProvider: func() scaffold.Configuration {
			return application.configuration.Tools.Init
		},
	}
	if initCommand, initBuildError := initBuilder.Build(); initBuildError == nil {
		cobraCommand.AddCommand(initCommand)
	}

	application.rootCommand = cobraCommand

	return application
}

// RootCommand exposes the assembled Cobra root command.
func (application *Application) RootCommand() *cobra.Command {
	return application.rootCommand
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:     string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant:    string(utils.LogFormatStructured),
		checkRequiredFilesConfigKeyConstant: readiness.DefaultConfiguration().RequiredFiles,
		buildArchiveDirConfigKeyConstant:    defaultArchiveDirectoryConstant,
		publishLanguageConfigKeyConstant:    defaultDepositLanguageConstant,
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	createdLogger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = createdLogger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	return nil
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	application.logger.Debug(
		rootCommandInfoMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.Int(logFieldArgumentCountConstant, len(arguments)),
	)

	return command.Help()
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}

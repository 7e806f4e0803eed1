package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark/cmd/cli"
	"github.com/shelfmark/shelfmark/internal/readiness"
)

const (
	registeredCommandsCaseNameConstant = "all_tool_commands_registered"
	helpExecutionCaseNameConstant      = "root_command_prints_help"
	configurationFileCaseNameConstant  = "configuration_file_overrides_defaults"
	initExecutionCaseNameConstant      = "init_scaffolds_through_the_root_command"
	toolOptionsDecodeCaseNameConstant  = "tool_options_decode_into_configuration"
	configurationContentConstant       = "common:\n  log_level: error\n  log_format: console\ntools:\n  init:\n    author_name: \"Curie, Marie\"\n"
)

func TestApplicationCommandRegistration(testInstance *testing.T) {
	testInstance.Run(registeredCommandsCaseNameConstant, func(subtestInstance *testing.T) {
		application := cli.NewApplication()

		registeredNames := map[string]bool{}
		for _, registeredCommand := range application.RootCommand().Commands() {
			registeredNames[registeredCommand.Name()] = true
		}

		for _, expectedName := range []string{"check", "build", "publish", "mirror", "init"} {
			require.True(subtestInstance, registeredNames[expectedName], expectedName)
		}
	})
}

func TestApplicationExecution(testInstance *testing.T) {
	testInstance.Run(helpExecutionCaseNameConstant, func(subtestInstance *testing.T) {
		workingDirectory := subtestInstance.TempDir()
		changeWorkingDirectory(subtestInstance, workingDirectory)

		application := cli.NewApplication()
		application.RootCommand().SetArgs([]string{"--help"})

		require.NoError(subtestInstance, application.Execute())
	})

	testInstance.Run(initExecutionCaseNameConstant, func(subtestInstance *testing.T) {
		workingDirectory := subtestInstance.TempDir()
		changeWorkingDirectory(subtestInstance, workingDirectory)
		projectPath := filepath.Join(workingDirectory, "fresh-project")
		require.NoError(subtestInstance, os.MkdirAll(projectPath, 0o755))

		application := cli.NewApplication()
		application.RootCommand().SetArgs([]string{"init", "--project-dir", projectPath})

		require.NoError(subtestInstance, application.Execute())
		_, statError := os.Stat(filepath.Join(projectPath, "CITATION.cff"))
		require.NoError(subtestInstance, statError)
	})

	testInstance.Run(configurationFileCaseNameConstant, func(subtestInstance *testing.T) {
		workingDirectory := subtestInstance.TempDir()
		changeWorkingDirectory(subtestInstance, workingDirectory)
		configurationPath := filepath.Join(workingDirectory, "config.yaml")
		require.NoError(subtestInstance, os.WriteFile(configurationPath, []byte(configurationContentConstant), 0o644))
		projectPath := filepath.Join(workingDirectory, "fresh-project")
		require.NoError(subtestInstance, os.MkdirAll(projectPath, 0o755))

		application := cli.NewApplication()
		application.RootCommand().SetArgs([]string{"init", "--project-dir", projectPath, "--config", configurationPath})

		require.NoError(subtestInstance, application.Execute())
		citationContent, readError := os.ReadFile(filepath.Join(projectPath, "CITATION.cff"))
		require.NoError(subtestInstance, readError)
		require.Contains(subtestInstance, string(citationContent), "Curie")
	})
}

func TestToolOptionDecoding(testInstance *testing.T) {
	testInstance.Run(toolOptionsDecodeCaseNameConstant, func(subtestInstance *testing.T) {
		checkOptions := map[string]any{
			"required_files": []string{"LICENSE", "README.md"},
		}

		var checkConfiguration readiness.Configuration
		decodeToolOptions(subtestInstance, checkOptions, &checkConfiguration)

		require.Equal(subtestInstance, []string{"LICENSE", "README.md"}, checkConfiguration.RequiredFiles)
	})
}

func changeWorkingDirectory(testingInstance *testing.T, directory string) {
	testingInstance.Helper()

	previousDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testingInstance, workingDirectoryError)
	require.NoError(testingInstance, os.Chdir(directory))
	testingInstance.Cleanup(func() {
		require.NoError(testingInstance, os.Chdir(previousDirectory))
	})
}

func decodeToolOptions(testingInstance testing.TB, options map[string]any, target any) {
	testingInstance.Helper()

	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "mapstructure", Result: target})
	require.NoError(testingInstance, decoderError)

	decodeError := decoder.Decode(options)
	require.NoError(testingInstance, decodeError)
}

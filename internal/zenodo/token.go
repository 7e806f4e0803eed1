package zenodo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	productionTokenEnvironmentConstant = "ZENODO_TOKEN"
	sandboxTokenEnvironmentConstant    = "ZENODO_SANDBOX_TOKEN"
	tokenDirectoryNameConstant         = "shelfmark"
	productionTokenFileNameConstant    = "zenodo_token"
	sandboxTokenFileNameConstant       = "zenodo_sandbox_token"
	tokenNotFoundTemplateConstant      = "no deposit token found: set %s or create %s"
)

// ResolveToken locates the deposit access token: the environment variable
// first, then a token file under the user configuration directory.
func ResolveToken(useSandbox bool) (string, error) {
	environmentName := productionTokenEnvironmentConstant
	tokenFileName := productionTokenFileNameConstant
	if useSandbox {
		environmentName = sandboxTokenEnvironmentConstant
		tokenFileName = sandboxTokenFileNameConstant
	}

	if environmentToken := strings.TrimSpace(os.Getenv(environmentName)); len(environmentToken) > 0 {
		return environmentToken, nil
	}

	configurationDirectory, directoryError := os.UserConfigDir()
	if directoryError != nil {
		return "", fmt.Errorf(tokenNotFoundTemplateConstant, environmentName, tokenFileName)
	}
	tokenFilePath := filepath.Join(configurationDirectory, tokenDirectoryNameConstant, tokenFileName)
	tokenContent, readError := os.ReadFile(tokenFilePath)
	if readError != nil {
		return "", fmt.Errorf(tokenNotFoundTemplateConstant, environmentName, tokenFilePath)
	}
	fileToken := strings.TrimSpace(string(tokenContent))
	if len(fileToken) == 0 {
		return "", fmt.Errorf(tokenNotFoundTemplateConstant, environmentName, tokenFilePath)
	}
	return fileToken, nil
}

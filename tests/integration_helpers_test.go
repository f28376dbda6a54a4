package tests

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"
)

const (
	tokenEnvironmentPrefixGH     = "GH_TOKEN="
	tokenEnvironmentPrefixGitHub = "GITHUB_TOKEN="
	tokenEnvironmentPrefixAPI    = "GITHUB_API_TOKEN="
)

func runIntegrationCommand(testInstance *testing.T, repositoryRoot string, environment []string, timeout time.Duration, arguments []string) (string, error) {
	testInstance.Helper()

	executionContext, cancelFunction := context.WithTimeout(context.Background(), timeout)
	defer cancelFunction()

	command := exec.CommandContext(executionContext, "go", arguments...)
	command.Dir = repositoryRoot
	command.Env = environment

	outputBytes, runError := command.CombinedOutput()
	return string(outputBytes), runError
}

func environmentWithoutTokens() []string {
	filteredEnvironment := make([]string, 0, len(os.Environ()))
	for _, environmentEntry := range os.Environ() {
		if strings.HasPrefix(environmentEntry, tokenEnvironmentPrefixGH) {
			continue
		}
		if strings.HasPrefix(environmentEntry, tokenEnvironmentPrefixGitHub) {
			continue
		}
		if strings.HasPrefix(environmentEntry, tokenEnvironmentPrefixAPI) {
			continue
		}
		filteredEnvironment = append(filteredEnvironment, environmentEntry)
	}
	return filteredEnvironment
}

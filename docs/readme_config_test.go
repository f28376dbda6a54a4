package docs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const (
	readmeFileNameConstant           = "README.md"
	yamlFenceStartConstant           = "```yaml"
	yamlFenceEndConstant             = "```"
	configHeaderMarkerConstant       = "# config.yaml"
	parentDirectoryReferenceConstant = ".."
	missingHeaderMessageConstant     = "README example missing config header marker"
	missingStartFenceMessageConstant = "README example missing yaml fence start"
	missingEndFenceMessageConstant   = "README example missing yaml fence end"
	expectedDeletePatternCount       = 3
	expectedLogLevelConstant         = "info"
	expectedWorkspaceRootConstant    = "rustdesk_build_workspace"
	expectedSubmodulePathConstant    = "libs/hbb_common"
	expectedSettingsPathConstant     = "src/config.rs"
)

type readmeCommonConfiguration struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogFile   string `yaml:"log_file"`
}

type readmeBuildConfiguration struct {
	GitHubUsername        string `yaml:"github_username"`
	ServerAddress         string `yaml:"server_address"`
	PublicKey             string `yaml:"public_key"`
	WorkspaceRoot         string `yaml:"workspace_root"`
	LibraryRepository     string `yaml:"library_repository"`
	ApplicationRepository string `yaml:"application_repository"`
	SubmodulePath         string `yaml:"submodule_path"`
	LibrarySettingsPath   string `yaml:"library_settings_path"`
}

type readmeCleanupConfiguration struct {
	DryRun           bool     `yaml:"dry_run"`
	DeletePatterns   []string `yaml:"delete_patterns"`
	SafeRepositories []string `yaml:"safe_repositories"`
}

type readmeApplicationConfiguration struct {
	Common  readmeCommonConfiguration  `yaml:"common"`
	Build   readmeBuildConfiguration   `yaml:"build"`
	Cleanup readmeCleanupConfiguration `yaml:"cleanup"`
}

func TestReadmeConfigurationExampleParses(testInstance *testing.T) {
	workingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)

	readmePath := filepath.Join(workingDirectory, parentDirectoryReferenceConstant, readmeFileNameConstant)
	contentBytes, readError := os.ReadFile(readmePath)
	require.NoError(testInstance, readError)

	contentText := string(contentBytes)
	headerIndex := strings.Index(contentText, configHeaderMarkerConstant)
	require.NotEqual(testInstance, -1, headerIndex, missingHeaderMessageConstant)

	fenceStartIndex := strings.LastIndex(contentText[:headerIndex], yamlFenceStartConstant)
	require.NotEqual(testInstance, -1, fenceStartIndex, missingStartFenceMessageConstant)

	remainingText := contentText[headerIndex:]
	fenceEndRelativeIndex := strings.Index(remainingText, yamlFenceEndConstant)
	require.NotEqual(testInstance, -1, fenceEndRelativeIndex, missingEndFenceMessageConstant)
	fenceEndIndex := headerIndex + fenceEndRelativeIndex

	snippetContent := strings.TrimSpace(contentText[fenceStartIndex+len(yamlFenceStartConstant) : fenceEndIndex])

	var applicationConfiguration readmeApplicationConfiguration
	unmarshalError := yaml.Unmarshal([]byte(snippetContent), &applicationConfiguration)
	require.NoError(testInstance, unmarshalError)

	require.Equal(testInstance, expectedLogLevelConstant, applicationConfiguration.Common.LogLevel)
	require.Equal(testInstance, expectedWorkspaceRootConstant, applicationConfiguration.Build.WorkspaceRoot)
	require.Equal(testInstance, expectedSubmodulePathConstant, applicationConfiguration.Build.SubmodulePath)
	require.Equal(testInstance, expectedSettingsPathConstant, applicationConfiguration.Build.LibrarySettingsPath)
	require.NotEmpty(testInstance, applicationConfiguration.Build.LibraryRepository)
	require.NotEmpty(testInstance, applicationConfiguration.Build.ApplicationRepository)
	require.True(testInstance, applicationConfiguration.Cleanup.DryRun)
	require.Len(testInstance, applicationConfiguration.Cleanup.DeletePatterns, expectedDeletePatternCount)
	require.NotEmpty(testInstance, applicationConfiguration.Cleanup.SafeRepositories)
}

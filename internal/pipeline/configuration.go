package pipeline

import (
	"strings"

	pathutils "github.com/Jiang1756/Rustdesk-builde/internal/utils/path"

	"github.com/Jiang1756/Rustdesk-builde/internal/githubauth"
)

var pipelineConfigurationHomeDirectoryExpander = pathutils.NewHomeExpander()

const (
	defaultWorkspaceRootConstant            = "rustdesk_build_workspace"
	defaultLibraryRepositoryURLConstant     = "https://github.com/rustdesk/hbb_common.git"
	defaultApplicationRepositoryURLConstant = "https://github.com/rustdesk/rustdesk.git"
	defaultSubmodulePathConstant            = "libs/hbb_common"
	defaultLibrarySettingsPathConstant      = "src/config.rs"
)

// Configuration stores the settings consumed by the build pipeline.
type Configuration struct {
	GitHubToken              string `mapstructure:"github_token"`
	GitHubUsername           string `mapstructure:"github_username"`
	ServerAddress            string `mapstructure:"server_address"`
	PublicKey                string `mapstructure:"public_key"`
	WorkspaceRoot            string `mapstructure:"workspace_root"`
	LibraryRepositoryURL     string `mapstructure:"library_repository"`
	ApplicationRepositoryURL string `mapstructure:"application_repository"`
	SubmodulePath            string `mapstructure:"submodule_path"`
	LibrarySettingsPath      string `mapstructure:"library_settings_path"`
}

// DefaultConfiguration supplies baseline values for the build pipeline.
func DefaultConfiguration() Configuration {
	return Configuration{
		WorkspaceRoot:            defaultWorkspaceRootConstant,
		LibraryRepositoryURL:     defaultLibraryRepositoryURLConstant,
		ApplicationRepositoryURL: defaultApplicationRepositoryURLConstant,
		SubmodulePath:            defaultSubmodulePathConstant,
		LibrarySettingsPath:      defaultLibrarySettingsPathConstant,
	}
}

// Sanitize trims configured values, restores defaults for blank optional
// fields, and resolves a missing token from the process environment.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.GitHubToken = strings.TrimSpace(configuration.GitHubToken)
	sanitized.GitHubUsername = strings.TrimSpace(configuration.GitHubUsername)
	sanitized.ServerAddress = strings.TrimSpace(configuration.ServerAddress)
	sanitized.PublicKey = strings.TrimSpace(configuration.PublicKey)
	sanitized.WorkspaceRoot = pipelineConfigurationHomeDirectoryExpander.Expand(strings.TrimSpace(configuration.WorkspaceRoot))
	sanitized.LibraryRepositoryURL = strings.TrimSpace(configuration.LibraryRepositoryURL)
	sanitized.ApplicationRepositoryURL = strings.TrimSpace(configuration.ApplicationRepositoryURL)
	sanitized.SubmodulePath = strings.TrimSpace(configuration.SubmodulePath)
	sanitized.LibrarySettingsPath = strings.TrimSpace(configuration.LibrarySettingsPath)

	if len(sanitized.GitHubToken) == 0 {
		if environmentToken, tokenFound := githubauth.ResolveToken(nil); tokenFound {
			sanitized.GitHubToken = environmentToken
		}
	}
	if len(sanitized.WorkspaceRoot) == 0 {
		sanitized.WorkspaceRoot = defaultWorkspaceRootConstant
	}
	if len(sanitized.LibraryRepositoryURL) == 0 {
		sanitized.LibraryRepositoryURL = defaultLibraryRepositoryURLConstant
	}
	if len(sanitized.ApplicationRepositoryURL) == 0 {
		sanitized.ApplicationRepositoryURL = defaultApplicationRepositoryURLConstant
	}
	if len(sanitized.SubmodulePath) == 0 {
		sanitized.SubmodulePath = defaultSubmodulePathConstant
	}
	if len(sanitized.LibrarySettingsPath) == 0 {
		sanitized.LibrarySettingsPath = defaultLibrarySettingsPathConstant
	}

	return sanitized
}

package cleanup

import (
	"strings"
	"time"

	"github.com/Jiang1756/Rustdesk-builde/internal/githubauth"
)

const (
	defaultPageDelayConstant   = 500 * time.Millisecond
	defaultDeleteDelayConstant = time.Second
)

var defaultDeletePatterns = []string{
	"rustdesk_*_*",
	"hbb_common_*_*",
	"*_20??????_??????",
}

// Configuration stores the settings consumed by the cleanup command.
type Configuration struct {
	GitHubToken      string        `mapstructure:"github_token"`
	SafeRepositories []string      `mapstructure:"safe_repositories"`
	DeletePatterns   []string      `mapstructure:"delete_patterns"`
	DryRun           bool          `mapstructure:"dry_run"`
	PageDelay        time.Duration `mapstructure:"page_delay"`
	DeleteDelay      time.Duration `mapstructure:"delete_delay"`
}

// DefaultConfiguration supplies baseline values for repository cleanup.
// Deletion stays simulated until dry-run is disabled explicitly.
func DefaultConfiguration() Configuration {
	return Configuration{
		DeletePatterns: append([]string(nil), defaultDeletePatterns...),
		DryRun:         true,
		PageDelay:      defaultPageDelayConstant,
		DeleteDelay:    defaultDeleteDelayConstant,
	}
}

// Sanitize trims configured values, removes empty entries, and resolves a
// missing token from the process environment.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.GitHubToken = strings.TrimSpace(configuration.GitHubToken)
	sanitized.SafeRepositories = sanitizeNameList(configuration.SafeRepositories)
	sanitized.DeletePatterns = sanitizeNameList(configuration.DeletePatterns)

	if len(sanitized.GitHubToken) == 0 {
		if environmentToken, tokenFound := githubauth.ResolveToken(nil); tokenFound {
			sanitized.GitHubToken = environmentToken
		}
	}
	if sanitized.PageDelay < 0 {
		sanitized.PageDelay = 0
	}
	if sanitized.DeleteDelay < 0 {
		sanitized.DeleteDelay = 0
	}

	return sanitized
}

func sanitizeNameList(candidates []string) []string {
	sanitized := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		trimmedCandidate := strings.TrimSpace(candidate)
		if len(trimmedCandidate) == 0 {
			continue
		}
		sanitized = append(sanitized, trimmedCandidate)
	}
	if len(sanitized) == 0 {
		return nil
	}
	return sanitized
}

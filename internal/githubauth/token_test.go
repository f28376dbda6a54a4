package githubauth_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jiang1756/Rustdesk-builde/internal/githubauth"
)

const (
	testResolvedTokenConstant          = "resolved-token"
	testFallbackTokenConstant          = "fallback-token"
	testWhitespaceTokenConstant        = "   "
	testMapPreferenceCaseNameConstant  = "map_value_preferred"
	testMapPriorityCaseNameConstant    = "gh_token_wins_over_github_token"
	testProcessFallbackCaseName        = "process_environment_fallback"
	testWhitespaceIgnoredCaseName      = "whitespace_only_value_ignored"
	testMissingEverywhereCaseName      = "missing_everywhere"
	testTrimmedTokenValueWithSpacing   = "  resolved-token  "
	testUnrelatedEnvironmentValueConst = "unrelated"
)

func TestResolveToken(testInstance *testing.T) {
	testCases := []struct {
		name          string
		environment   map[string]string
		processValues map[string]string
		expectedToken string
		expectedFound bool
	}{
		{
			name:          testMapPreferenceCaseNameConstant,
			environment:   map[string]string{githubauth.EnvGitHubToken: testTrimmedTokenValueWithSpacing},
			expectedToken: testResolvedTokenConstant,
			expectedFound: true,
		},
		{
			name: testMapPriorityCaseNameConstant,
			environment: map[string]string{
				githubauth.EnvGitHubCLIToken: testResolvedTokenConstant,
				githubauth.EnvGitHubToken:    testFallbackTokenConstant,
			},
			expectedToken: testResolvedTokenConstant,
			expectedFound: true,
		},
		{
			name:          testProcessFallbackCaseName,
			environment:   map[string]string{"UNRELATED": testUnrelatedEnvironmentValueConst},
			processValues: map[string]string{githubauth.EnvGitHubAPIToken: testFallbackTokenConstant},
			expectedToken: testFallbackTokenConstant,
			expectedFound: true,
		},
		{
			name:          testWhitespaceIgnoredCaseName,
			environment:   map[string]string{githubauth.EnvGitHubToken: testWhitespaceTokenConstant},
			expectedFound: false,
		},
		{
			name:          testMissingEverywhereCaseName,
			environment:   map[string]string{},
			expectedFound: false,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			testInstance.Setenv(githubauth.EnvGitHubCLIToken, "")
			testInstance.Setenv(githubauth.EnvGitHubToken, "")
			testInstance.Setenv(githubauth.EnvGitHubAPIToken, "")
			for environmentKey, environmentValue := range testCase.processValues {
				testInstance.Setenv(environmentKey, environmentValue)
			}

			resolvedToken, found := githubauth.ResolveToken(testCase.environment)

			require.Equal(testInstance, testCase.expectedFound, found)
			require.Equal(testInstance, testCase.expectedToken, resolvedToken)
		})
	}
}

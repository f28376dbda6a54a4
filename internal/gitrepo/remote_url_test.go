package gitrepo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jiang1756/Rustdesk-builde/internal/gitrepo"
)

const (
	testParseHTTPSCaseNameConstant       = "https_with_git_suffix"
	testParseGitSSHCaseNameConstant      = "git_at_host"
	testParseSSHProtocolCaseNameConstant = "ssh_protocol"
	testParseInvalidCaseNameConstant     = "invalid_remote"
)

func TestParseRemoteURL(testInstance *testing.T) {
	testCases := []struct {
		name               string
		remote             string
		expectedOwner      string
		expectedRepository string
		expectError        bool
	}{
		{
			name:               testParseHTTPSCaseNameConstant,
			remote:             "https://github.com/rustdesk/hbb_common.git",
			expectedOwner:      "rustdesk",
			expectedRepository: "hbb_common",
		},
		{
			name:               testParseGitSSHCaseNameConstant,
			remote:             "git@github.com:rustdesk/rustdesk.git",
			expectedOwner:      "rustdesk",
			expectedRepository: "rustdesk",
		},
		{
			name:               testParseSSHProtocolCaseNameConstant,
			remote:             "ssh://git@github.com/rustdesk/rustdesk.git",
			expectedOwner:      "rustdesk",
			expectedRepository: "rustdesk",
		},
		{
			name:        testParseInvalidCaseNameConstant,
			remote:      "ftp://example.com/repo",
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			parsedRemote, parseError := gitrepo.ParseRemoteURL(testCase.remote)
			if testCase.expectError {
				require.Error(testInstance, parseError)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedOwner, parsedRemote.Owner)
			require.Equal(testInstance, testCase.expectedRepository, parsedRemote.Repository)
		})
	}
}

func TestFormatRemoteURLRoundTrip(testInstance *testing.T) {
	formatted, formatError := gitrepo.FormatRemoteURL(gitrepo.RemoteURL{
		Protocol:   gitrepo.RemoteProtocolHTTPS,
		Host:       "github.com",
		Owner:      "operator",
		Repository: "hbb_common_20240101_120000",
	})
	require.NoError(testInstance, formatError)
	require.Equal(testInstance, "https://github.com/operator/hbb_common_20240101_120000.git", formatted)
}

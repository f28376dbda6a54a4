package execshell

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildStartedMessageForCloneIncludesSourceAndDestination(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments: []string{"clone", "https://github.com/rustdesk/hbb_common.git", "/workspace/hbb_common"},
		},
	}

	message := formatter.BuildStartedMessage(command)

	require.Equal(t, "Cloning https://github.com/rustdesk/hbb_common.git into /workspace/hbb_common", message)
}

func TestBuildStartedMessageForSubmoduleAddIncludesPathAndURL(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"submodule", "add", "-f", "https://github.com/example/hbb_common_20240101_000000.git", "libs/hbb_common"},
			WorkingDirectory: "/workspace/rustdesk",
		},
	}

	message := formatter.BuildStartedMessage(command)

	require.Equal(t, "Adding submodule at libs/hbb_common from https://github.com/example/hbb_common_20240101_000000.git in /workspace/rustdesk", message)
}

func TestBuildStartedMessageForTagDeletionUsesRemovalWording(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"tag", "-d", "1.2.3-20240101000000"},
			WorkingDirectory: "/workspace/rustdesk",
		},
	}

	message := formatter.BuildStartedMessage(command)

	require.Equal(t, "Removing local tag 1.2.3-20240101000000 in /workspace/rustdesk", message)
}

func TestBuildStartedMessageForRefspecDeletionDescribesRemoteReference(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"push", "origin", ":refs/tags/1.2.3-20240101000000"},
			WorkingDirectory: "/workspace/rustdesk",
		},
	}

	message := formatter.BuildStartedMessage(command)

	require.Equal(t, "Deleting remote reference refs/tags/1.2.3-20240101000000 from origin in /workspace/rustdesk", message)
}

func TestBuildFailureMessageForCommitIncludesExitCodeAndStandardError(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"commit", "-m", "Update rendezvous server and signing key"},
			WorkingDirectory: "/workspace/hbb_common",
		},
	}
	result := ExecutionResult{ExitCode: 1, StandardError: "nothing to commit"}

	message := formatter.BuildFailureMessage(command, result)

	require.Equal(t, "Failed to create commit in /workspace/hbb_common with message \"Update rendezvous server and signing key\" (exit code 1: nothing to commit)", message)
}

package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
)

const (
	gitCloneSubcommandNameConstant        = "clone"
	gitRemoteSubcommandNameConstant       = "remote"
	gitRemoteGetURLSubcommandNameConstant = "get-url"
	gitRemoteSetURLSubcommandNameConstant = "set-url"
	gitRemoteAddSubcommandNameConstant    = "add"
	gitRevParseSubcommandNameConstant     = "rev-parse"
	gitAbbrevRefFlagConstant              = "--abbrev-ref"
	gitHeadReferenceConstant              = "HEAD"
	gitAddSubcommandNameConstant          = "add"
	gitRemoveSubcommandNameConstant       = "rm"
	gitCommitSubcommandNameConstant       = "commit"
	gitMessageFlagConstant                = "-m"
	gitPushSubcommandNameConstant         = "push"
	gitDeleteFlagConstant                 = "--delete"
	gitTagSubcommandNameConstant          = "tag"
	gitTagDeleteFlagConstant              = "-d"
	gitSubmoduleSubcommandNameConstant    = "submodule"
	gitSubmoduleAddSubcommandNameConstant = "add"
	gitSubmoduleUpdateSubcommandConstant  = "update"
	gitConfigSubcommandNameConstant       = "config"
	gitRefspecDeletionPrefixConstant      = ":"
)

const (
	gitCloneStartTemplateConstant                      = "Cloning %s into %s"
	gitCloneSuccessTemplateConstant                    = "Cloned %s into %s"
	gitCloneFailureTemplateConstant                    = "Failed to clone %s into %s (exit code %d%s)"
	gitCloneExecutionFailureTemplateConstant           = "Unable to clone %s into %s: %s"
	gitRemoteLookupStartTemplateConstant               = "Checking %s remote for %s"
	gitRemoteLookupSuccessTemplateConstant             = "%s remote for %s points to %s"
	gitRemoteLookupFailureTemplateConstant             = "Failed to read %s remote for %s (exit code %d%s)"
	gitRemoteLookupExecutionFailureTemplateConstant    = "Unable to read %s remote for %s: %s"
	gitRemoteUpdateStartTemplateConstant               = "Updating %s remote for %s to %s"
	gitRemoteUpdateSuccessTemplateConstant             = "%s remote for %s now points to %s"
	gitRemoteUpdateFailureTemplateConstant             = "Failed to update %s remote for %s to %s (exit code %d%s)"
	gitRemoteUpdateExecutionFailureTemplateConstant    = "Unable to update %s remote for %s to %s: %s"
	gitRemoteAdditionStartTemplateConstant             = "Adding %s remote for %s pointing to %s"
	gitRemoteAdditionSuccessTemplateConstant           = "Added %s remote for %s pointing to %s"
	gitRemoteAdditionFailureTemplateConstant           = "Failed to add %s remote for %s pointing to %s (exit code %d%s)"
	gitRemoteAdditionExecutionFailureTemplateConstant  = "Unable to add %s remote for %s pointing to %s: %s"
	gitCurrentBranchStartTemplateConstant              = "Identifying current branch in %s"
	gitCurrentBranchSuccessTemplateConstant            = "Current branch in %s is %s"
	gitCurrentBranchDetachedSuccessTemplateConstant    = "%s is in a detached HEAD state"
	gitCurrentBranchFailureTemplateConstant            = "Failed to identify current branch in %s (exit code %d%s)"
	gitCurrentBranchExecutionFailureTemplateConstant   = "Unable to identify current branch in %s: %s"
	gitRevisionStartTemplateConstant                   = "Resolving %s in %s"
	gitRevisionSuccessTemplateConstant                 = "%s in %s resolved to %s"
	gitRevisionEmptySuccessTemplateConstant            = "%s in %s did not resolve to a revision"
	gitRevisionFailureTemplateConstant                 = "Failed to resolve %s in %s (exit code %d%s)"
	gitRevisionExecutionFailureTemplateConstant        = "Unable to resolve %s in %s: %s"
	gitAddStartTemplateConstant                        = "Staging %s in %s"
	gitAddSuccessTemplateConstant                      = "Staged %s in %s"
	gitAddFailureTemplateConstant                      = "Failed to stage %s in %s (exit code %d%s)"
	gitAddExecutionFailureTemplateConstant             = "Unable to stage %s in %s: %s"
	gitRemoveStartTemplateConstant                     = "Removing %s from %s"
	gitRemoveSuccessTemplateConstant                   = "Removed %s from %s"
	gitRemoveFailureTemplateConstant                   = "Failed to remove %s from %s (exit code %d%s)"
	gitRemoveExecutionFailureTemplateConstant          = "Unable to remove %s from %s: %s"
	gitCommitStartTemplateConstant                     = "Creating commit in %s with message %q"
	gitCommitSuccessTemplateConstant                   = "Created commit in %s with message %q"
	gitCommitFailureTemplateConstant                   = "Failed to create commit in %s with message %q (exit code %d%s)"
	gitCommitExecutionFailureTemplateConstant          = "Unable to create commit in %s with message %q: %s"
	gitPushStartTemplateConstant                       = "Pushing %s to %s from %s"
	gitPushSuccessTemplateConstant                     = "Pushed %s to %s from %s"
	gitPushFailureTemplateConstant                     = "Failed to push %s to %s from %s (exit code %d%s)"
	gitPushExecutionFailureTemplateConstant            = "Unable to push %s to %s from %s: %s"
	gitPushDeletionStartTemplateConstant               = "Deleting remote reference %s from %s in %s"
	gitPushDeletionSuccessTemplateConstant             = "Deleted remote reference %s from %s in %s"
	gitPushDeletionFailureTemplateConstant             = "Failed to delete remote reference %s from %s in %s (exit code %d%s)"
	gitPushDeletionExecutionFailureTemplateConstant    = "Unable to delete remote reference %s from %s in %s: %s"
	gitTagCreationStartTemplateConstant                = "Creating tag %s in %s"
	gitTagCreationSuccessTemplateConstant              = "Created tag %s in %s"
	gitTagCreationFailureTemplateConstant              = "Failed to create tag %s in %s (exit code %d%s)"
	gitTagCreationExecutionFailureTemplateConstant     = "Unable to create tag %s in %s: %s"
	gitTagDeletionStartTemplateConstant                = "Removing local tag %s in %s"
	gitTagDeletionSuccessTemplateConstant              = "Removed local tag %s in %s"
	gitTagDeletionFailureTemplateConstant              = "Failed to remove local tag %s in %s (exit code %d%s)"
	gitTagDeletionExecutionFailureTemplateConstant     = "Unable to remove local tag %s in %s: %s"
	gitSubmoduleAddStartTemplateConstant               = "Adding submodule at %s from %s in %s"
	gitSubmoduleAddSuccessTemplateConstant             = "Added submodule at %s from %s in %s"
	gitSubmoduleAddFailureTemplateConstant             = "Failed to add submodule at %s from %s in %s (exit code %d%s)"
	gitSubmoduleAddExecutionFailureTemplateConstant    = "Unable to add submodule at %s from %s in %s: %s"
	gitSubmoduleUpdateStartTemplateConstant            = "Updating submodules in %s"
	gitSubmoduleUpdateSuccessTemplateConstant          = "Updated submodules in %s"
	gitSubmoduleUpdateFailureTemplateConstant          = "Failed to update submodules in %s (exit code %d%s)"
	gitSubmoduleUpdateExecutionFailureTemplateConstant = "Unable to update submodules in %s: %s"
	gitConfigStartTemplateConstant                     = "Setting %s in %s"
	gitConfigSuccessTemplateConstant                   = "Set %s in %s"
	gitConfigFailureTemplateConstant                   = "Failed to set %s in %s (exit code %d%s)"
	gitConfigExecutionFailureTemplateConstant          = "Unable to set %s in %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name == CommandGit {
		return formatter.describeGitMessage(command, result, failure, stage)
	}
	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subcommand := strings.TrimSpace(command.Details.Arguments[0])
	switch subcommand {
	case gitCloneSubcommandNameConstant:
		return formatter.describeGitCloneMessage(command, result, failure, stage)
	case gitRemoteSubcommandNameConstant:
		return formatter.describeGitRemoteMessage(command, result, failure, stage)
	case gitRevParseSubcommandNameConstant:
		return formatter.describeGitRevParseMessage(command, result, failure, stage)
	case gitAddSubcommandNameConstant:
		return formatter.describeGitAddMessage(command, result, failure, stage)
	case gitRemoveSubcommandNameConstant:
		return formatter.describeGitRemoveMessage(command, result, failure, stage)
	case gitCommitSubcommandNameConstant:
		return formatter.describeGitCommitMessage(command, result, failure, stage)
	case gitPushSubcommandNameConstant:
		return formatter.describeGitPushMessage(command, result, failure, stage)
	case gitTagSubcommandNameConstant:
		return formatter.describeGitTagMessage(command, result, failure, stage)
	case gitSubmoduleSubcommandNameConstant:
		return formatter.describeGitSubmoduleMessage(command, result, failure, stage)
	case gitConfigSubcommandNameConstant:
		return formatter.describeGitConfigMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitCloneMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	repositoryURL := formatter.ensureValue(formatter.argumentAtIndex(arguments, 1))
	destination := strings.TrimSpace(formatter.argumentAtIndex(arguments, 2))
	if len(destination) == 0 {
		destination = formatter.describeWorkingDirectory(command)
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitCloneStartTemplateConstant, repositoryURL, destination)
	case messageStageSuccess:
		return fmt.Sprintf(gitCloneSuccessTemplateConstant, repositoryURL, destination)
	case messageStageFailure:
		return fmt.Sprintf(gitCloneFailureTemplateConstant, repositoryURL, destination, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitCloneExecutionFailureTemplateConstant, repositoryURL, destination, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitRemoteMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)
	remoteName := formatter.ensureValue(formatter.argumentAtIndex(arguments, 2))

	if len(arguments) > 1 {
		subcommand := strings.TrimSpace(arguments[1])
		switch subcommand {
		case gitRemoteGetURLSubcommandNameConstant:
			remoteURL := strings.TrimSpace(result.StandardOutput)
			switch stage {
			case messageStageStart:
				return fmt.Sprintf(gitRemoteLookupStartTemplateConstant, remoteName, workingDirectory)
			case messageStageSuccess:
				return fmt.Sprintf(gitRemoteLookupSuccessTemplateConstant, remoteName, workingDirectory, formatter.ensureValue(remoteURL))
			case messageStageFailure:
				return fmt.Sprintf(gitRemoteLookupFailureTemplateConstant, remoteName, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
			case messageStageExecutionFailure:
				return fmt.Sprintf(gitRemoteLookupExecutionFailureTemplateConstant, remoteName, workingDirectory, formatter.describeFailure(failure))
			}
		case gitRemoteSetURLSubcommandNameConstant:
			targetURL := formatter.ensureValue(formatter.argumentAtIndex(arguments, 3))
			switch stage {
			case messageStageStart:
				return fmt.Sprintf(gitRemoteUpdateStartTemplateConstant, remoteName, workingDirectory, targetURL)
			case messageStageSuccess:
				return fmt.Sprintf(gitRemoteUpdateSuccessTemplateConstant, remoteName, workingDirectory, targetURL)
			case messageStageFailure:
				return fmt.Sprintf(gitRemoteUpdateFailureTemplateConstant, remoteName, workingDirectory, targetURL, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
			case messageStageExecutionFailure:
				return fmt.Sprintf(gitRemoteUpdateExecutionFailureTemplateConstant, remoteName, workingDirectory, targetURL, formatter.describeFailure(failure))
			}
		case gitRemoteAddSubcommandNameConstant:
			targetURL := formatter.ensureValue(formatter.argumentAtIndex(arguments, 3))
			switch stage {
			case messageStageStart:
				return fmt.Sprintf(gitRemoteAdditionStartTemplateConstant, remoteName, workingDirectory, targetURL)
			case messageStageSuccess:
				return fmt.Sprintf(gitRemoteAdditionSuccessTemplateConstant, remoteName, workingDirectory, targetURL)
			case messageStageFailure:
				return fmt.Sprintf(gitRemoteAdditionFailureTemplateConstant, remoteName, workingDirectory, targetURL, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
			case messageStageExecutionFailure:
				return fmt.Sprintf(gitRemoteAdditionExecutionFailureTemplateConstant, remoteName, workingDirectory, targetURL, formatter.describeFailure(failure))
			}
		}
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeGitRevParseMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)

	if containsArgument(arguments, gitAbbrevRefFlagConstant) {
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitCurrentBranchStartTemplateConstant, workingDirectory)
		case messageStageSuccess:
			trimmed := strings.TrimSpace(result.StandardOutput)
			if strings.EqualFold(trimmed, gitHeadReferenceConstant) || len(trimmed) == 0 {
				return fmt.Sprintf(gitCurrentBranchDetachedSuccessTemplateConstant, workingDirectory)
			}
			return fmt.Sprintf(gitCurrentBranchSuccessTemplateConstant, workingDirectory, trimmed)
		case messageStageFailure:
			return fmt.Sprintf(gitCurrentBranchFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitCurrentBranchExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
		}
	}

	reference := formatter.resolveRevisionReference(arguments)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitRevisionStartTemplateConstant, reference, workingDirectory)
	case messageStageSuccess:
		trimmed := strings.TrimSpace(result.StandardOutput)
		if len(trimmed) == 0 {
			return fmt.Sprintf(gitRevisionEmptySuccessTemplateConstant, reference, workingDirectory)
		}
		return fmt.Sprintf(gitRevisionSuccessTemplateConstant, reference, workingDirectory, trimmed)
	case messageStageFailure:
		return fmt.Sprintf(gitRevisionFailureTemplateConstant, reference, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitRevisionExecutionFailureTemplateConstant, reference, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitAddMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	targetPath := formatter.ensureValue(formatter.extractFirstNonFlagArgument(command.Details.Arguments[1:]))
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitAddStartTemplateConstant, targetPath, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitAddSuccessTemplateConstant, targetPath, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitAddFailureTemplateConstant, targetPath, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitAddExecutionFailureTemplateConstant, targetPath, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitRemoveMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	targetPath := formatter.ensureValue(formatter.extractFirstNonFlagArgument(command.Details.Arguments[1:]))
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitRemoveStartTemplateConstant, targetPath, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitRemoveSuccessTemplateConstant, targetPath, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitRemoveFailureTemplateConstant, targetPath, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitRemoveExecutionFailureTemplateConstant, targetPath, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitCommitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	commitMessage := formatter.extractMessageFlagValue(command.Details.Arguments)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitCommitStartTemplateConstant, workingDirectory, commitMessage)
	case messageStageSuccess:
		return fmt.Sprintf(gitCommitSuccessTemplateConstant, workingDirectory, commitMessage)
	case messageStageFailure:
		return fmt.Sprintf(gitCommitFailureTemplateConstant, workingDirectory, commitMessage, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitCommitExecutionFailureTemplateConstant, workingDirectory, commitMessage, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitPushMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	arguments := command.Details.Arguments
	remoteName := formatter.ensureValue(formatter.argumentAtIndex(arguments, 1))
	deletionTarget := formatter.extractDeletionTarget(arguments)

	if len(deletionTarget) > 0 {
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitPushDeletionStartTemplateConstant, deletionTarget, remoteName, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitPushDeletionSuccessTemplateConstant, deletionTarget, remoteName, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(gitPushDeletionFailureTemplateConstant, deletionTarget, remoteName, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitPushDeletionExecutionFailureTemplateConstant, deletionTarget, remoteName, workingDirectory, formatter.describeFailure(failure))
		}
	}

	pushedReference := formatter.ensureValue(formatter.argumentAtIndex(arguments, 2))
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitPushStartTemplateConstant, pushedReference, remoteName, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitPushSuccessTemplateConstant, pushedReference, remoteName, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitPushFailureTemplateConstant, pushedReference, remoteName, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitPushExecutionFailureTemplateConstant, pushedReference, remoteName, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitTagMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)
	tagName := formatter.ensureValue(formatter.extractTagName(arguments))

	if containsArgument(arguments, gitTagDeleteFlagConstant) {
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitTagDeletionStartTemplateConstant, tagName, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitTagDeletionSuccessTemplateConstant, tagName, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(gitTagDeletionFailureTemplateConstant, tagName, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitTagDeletionExecutionFailureTemplateConstant, tagName, workingDirectory, formatter.describeFailure(failure))
		}
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitTagCreationStartTemplateConstant, tagName, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitTagCreationSuccessTemplateConstant, tagName, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitTagCreationFailureTemplateConstant, tagName, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitTagCreationExecutionFailureTemplateConstant, tagName, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitSubmoduleMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)
	if len(arguments) < 2 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subcommand := strings.TrimSpace(arguments[1])
	switch subcommand {
	case gitSubmoduleAddSubcommandNameConstant:
		submoduleURL, submodulePath := formatter.extractSubmoduleAddTarget(arguments[2:])
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitSubmoduleAddStartTemplateConstant, submodulePath, submoduleURL, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitSubmoduleAddSuccessTemplateConstant, submodulePath, submoduleURL, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(gitSubmoduleAddFailureTemplateConstant, submodulePath, submoduleURL, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitSubmoduleAddExecutionFailureTemplateConstant, submodulePath, submoduleURL, workingDirectory, formatter.describeFailure(failure))
		}
	case gitSubmoduleUpdateSubcommandConstant:
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitSubmoduleUpdateStartTemplateConstant, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitSubmoduleUpdateSuccessTemplateConstant, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(gitSubmoduleUpdateFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitSubmoduleUpdateExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
		}
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeGitConfigMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	configurationKey := formatter.ensureValue(formatter.argumentAtIndex(command.Details.Arguments, 1))
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitConfigStartTemplateConstant, configurationKey, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitConfigSuccessTemplateConstant, configurationKey, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitConfigFailureTemplateConstant, configurationKey, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitConfigExecutionFailureTemplateConstant, configurationKey, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf("%s %s", commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	workingDirectorySuffix := formatter.formatWorkingDirectorySuffix(command)
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, workingDirectorySuffix)
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}

func (formatter CommandMessageFormatter) resolveRevisionReference(arguments []string) string {
	if len(arguments) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	lastArgument := strings.TrimSpace(arguments[len(arguments)-1])
	if len(lastArgument) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return lastArgument
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index >= 0 && index < len(arguments) {
		return arguments[index]
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func (formatter CommandMessageFormatter) extractFirstNonFlagArgument(arguments []string) string {
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 {
			continue
		}
		if strings.HasPrefix(trimmed, "-") {
			continue
		}
		return trimmed
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) extractMessageFlagValue(arguments []string) string {
	for index := 0; index < len(arguments); index++ {
		if strings.TrimSpace(arguments[index]) == gitMessageFlagConstant && index+1 < len(arguments) {
			return strings.TrimSpace(arguments[index+1])
		}
	}
	return fallbackUnknownValueLabelConstant
}

func (formatter CommandMessageFormatter) extractDeletionTarget(arguments []string) string {
	for index := 0; index < len(arguments); index++ {
		argument := strings.TrimSpace(arguments[index])
		if argument == gitDeleteFlagConstant && index+1 < len(arguments) {
			return strings.TrimSpace(arguments[index+1])
		}
		if index > 0 && strings.HasPrefix(argument, gitRefspecDeletionPrefixConstant) && len(argument) > 1 {
			return strings.TrimPrefix(argument, gitRefspecDeletionPrefixConstant)
		}
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) extractTagName(arguments []string) string {
	for index := 1; index < len(arguments); index++ {
		trimmed := strings.TrimSpace(arguments[index])
		if len(trimmed) == 0 {
			continue
		}
		if trimmed == gitMessageFlagConstant {
			index++
			continue
		}
		if strings.HasPrefix(trimmed, "-") {
			continue
		}
		return trimmed
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) extractSubmoduleAddTarget(arguments []string) (string, string) {
	nonFlagArguments := make([]string, 0, len(arguments))
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 {
			continue
		}
		if strings.HasPrefix(trimmed, "-") {
			continue
		}
		nonFlagArguments = append(nonFlagArguments, trimmed)
	}

	submoduleURL := fallbackUnknownValueLabelConstant
	submodulePath := fallbackUnknownValueLabelConstant
	if len(nonFlagArguments) > 0 {
		submoduleURL = nonFlagArguments[0]
	}
	if len(nonFlagArguments) > 1 {
		submodulePath = nonFlagArguments[1]
	}
	return submoduleURL, submodulePath
}

package gitrepo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Jiang1756/Rustdesk-builde/internal/execshell"
	"github.com/Jiang1756/Rustdesk-builde/internal/gitrepo"
)

const (
	testRepositoryPathConstant = "/workspace/hbb_common"
	testRemoteNameConstant     = "origin"
	testRemoteURLConstant      = "https://github.com/example/hbb_common.git"
	testCommitMessageConstant  = "Update rendezvous server and signing key"
	testTagNameConstant        = "1.2.3-20240101120000"
	testBranchNameConstant     = "develop"
	testSubmodulePathConstant  = "libs/hbb_common"
)

type scriptedGitExecutor struct {
	recordedCommands []execshell.CommandDetails
	queuedResults    []execshell.ExecutionResult
	queuedErrors     []error
}

func (executor *scriptedGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedCommands = append(executor.recordedCommands, details)

	var executionResult execshell.ExecutionResult
	if len(executor.queuedResults) > 0 {
		executionResult = executor.queuedResults[0]
		executor.queuedResults = executor.queuedResults[1:]
	}

	var executionError error
	if len(executor.queuedErrors) > 0 {
		executionError = executor.queuedErrors[0]
		executor.queuedErrors = executor.queuedErrors[1:]
	}

	return executionResult, executionError
}

func commandFailure(exitCode int, standardError string) error {
	return execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandGit},
		Result:  execshell.ExecutionResult{ExitCode: exitCode, StandardError: standardError},
	}
}

func newManager(testInstance *testing.T, executor gitrepo.GitExecutor) *gitrepo.RepositoryManager {
	manager, creationError := gitrepo.NewRepositoryManager(zap.NewNop(), executor)
	require.NoError(testInstance, creationError)
	return manager
}

func TestNewRepositoryManagerRequiresExecutor(testInstance *testing.T) {
	_, creationError := gitrepo.NewRepositoryManager(zap.NewNop(), nil)
	require.ErrorIs(testInstance, creationError, gitrepo.ErrGitExecutorNotConfigured)
}

func TestCloneRepositoryBuildsCloneCommand(testInstance *testing.T) {
	executor := &scriptedGitExecutor{}
	manager := newManager(testInstance, executor)

	require.NoError(testInstance, manager.CloneRepository(context.Background(), testRemoteURLConstant, testRepositoryPathConstant))
	require.Len(testInstance, executor.recordedCommands, 1)
	require.Equal(testInstance, []string{"clone", testRemoteURLConstant, testRepositoryPathConstant}, executor.recordedCommands[0].Arguments)
}

func TestCloneRepositoryWrapsFailures(testInstance *testing.T) {
	executor := &scriptedGitExecutor{queuedErrors: []error{commandFailure(128, "remote unreachable")}}
	manager := newManager(testInstance, executor)

	cloneError := manager.CloneRepository(context.Background(), testRemoteURLConstant, testRepositoryPathConstant)
	require.Error(testInstance, cloneError)
	var operationError gitrepo.OperationError
	require.ErrorAs(testInstance, cloneError, &operationError)
}

func TestCommitAllStagesThenCommits(testInstance *testing.T) {
	executor := &scriptedGitExecutor{}
	manager := newManager(testInstance, executor)

	committed, commitError := manager.CommitAll(context.Background(), testRepositoryPathConstant, testCommitMessageConstant)
	require.NoError(testInstance, commitError)
	require.True(testInstance, committed)
	require.Len(testInstance, executor.recordedCommands, 2)
	require.Equal(testInstance, []string{"add", "-A"}, executor.recordedCommands[0].Arguments)
	require.Equal(testInstance, []string{"commit", "-m", testCommitMessageConstant}, executor.recordedCommands[1].Arguments)
	require.Equal(testInstance, testRepositoryPathConstant, executor.recordedCommands[1].WorkingDirectory)
}

func TestCommitAllToleratesCleanTree(testInstance *testing.T) {
	executor := &scriptedGitExecutor{queuedErrors: []error{nil, commandFailure(1, "nothing to commit, working tree clean")}}
	manager := newManager(testInstance, executor)

	committed, commitError := manager.CommitAll(context.Background(), testRepositoryPathConstant, testCommitMessageConstant)
	require.NoError(testInstance, commitError)
	require.False(testInstance, committed)
}

func TestCommitAllPropagatesRealCommitFailures(testInstance *testing.T) {
	testCases := []struct {
		name          string
		commitFailure error
	}{
		{
			name:          "MissingIdentity",
			commitFailure: commandFailure(128, "fatal: unable to auto-detect email address"),
		},
		{
			name:          "FailingHook",
			commitFailure: commandFailure(1, "pre-commit hook rejected the change"),
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			executor := &scriptedGitExecutor{queuedErrors: []error{nil, testCase.commitFailure}}
			manager := newManager(subtestInstance, executor)

			committed, commitError := manager.CommitAll(context.Background(), testRepositoryPathConstant, testCommitMessageConstant)
			require.False(subtestInstance, committed)
			require.Error(subtestInstance, commitError)
			var operationError gitrepo.OperationError
			require.ErrorAs(subtestInstance, commitError, &operationError)
		})
	}
}

func TestEnsureRemoteFallsBackToAddition(testInstance *testing.T) {
	executor := &scriptedGitExecutor{queuedErrors: []error{commandFailure(2, "No such remote"), nil}}
	manager := newManager(testInstance, executor)

	require.NoError(testInstance, manager.EnsureRemote(context.Background(), testRepositoryPathConstant, testRemoteNameConstant, testRemoteURLConstant))
	require.Len(testInstance, executor.recordedCommands, 2)
	require.Equal(testInstance, []string{"remote", "set-url", testRemoteNameConstant, testRemoteURLConstant}, executor.recordedCommands[0].Arguments)
	require.Equal(testInstance, []string{"remote", "add", testRemoteNameConstant, testRemoteURLConstant}, executor.recordedCommands[1].Arguments)
}

func TestEnsureRemoteSkipsAdditionWhenRetargetSucceeds(testInstance *testing.T) {
	executor := &scriptedGitExecutor{}
	manager := newManager(testInstance, executor)

	require.NoError(testInstance, manager.EnsureRemote(context.Background(), testRepositoryPathConstant, testRemoteNameConstant, testRemoteURLConstant))
	require.Len(testInstance, executor.recordedCommands, 1)
}

func TestGetCurrentBranchReadsCheckedOutBranch(testInstance *testing.T) {
	executor := &scriptedGitExecutor{queuedResults: []execshell.ExecutionResult{{StandardOutput: testBranchNameConstant + "\n"}}}
	manager := newManager(testInstance, executor)

	branchName, branchError := manager.GetCurrentBranch(context.Background(), testRepositoryPathConstant)
	require.NoError(testInstance, branchError)
	require.Equal(testInstance, testBranchNameConstant, branchName)
	require.Equal(testInstance, []string{"rev-parse", "--abbrev-ref", "HEAD"}, executor.recordedCommands[0].Arguments)
}

func TestGetCurrentBranchRejectsDetachedHead(testInstance *testing.T) {
	executor := &scriptedGitExecutor{queuedResults: []execshell.ExecutionResult{{StandardOutput: "HEAD\n"}}}
	manager := newManager(testInstance, executor)

	_, branchError := manager.GetCurrentBranch(context.Background(), testRepositoryPathConstant)
	require.Error(testInstance, branchError)
}

func TestPushBranchUsesExplicitRefspec(testInstance *testing.T) {
	executor := &scriptedGitExecutor{}
	manager := newManager(testInstance, executor)

	require.NoError(testInstance, manager.PushBranch(context.Background(), testRepositoryPathConstant, testRemoteNameConstant, testBranchNameConstant))
	require.Equal(testInstance, []string{"push", testRemoteNameConstant, testBranchNameConstant + ":" + testBranchNameConstant}, executor.recordedCommands[0].Arguments)
}

func TestCreateAnnotatedTagBuildsTagCommand(testInstance *testing.T) {
	executor := &scriptedGitExecutor{}
	manager := newManager(testInstance, executor)

	require.NoError(testInstance, manager.CreateAnnotatedTag(context.Background(), testRepositoryPathConstant, gitrepo.TagOptions{Name: testTagNameConstant, Message: "Automated build with custom server settings"}))
	require.Equal(testInstance, []string{"tag", "-a", testTagNameConstant, "-m", "Automated build with custom server settings"}, executor.recordedCommands[0].Arguments)
}

func TestDeleteLocalTagSwallowsAbsence(testInstance *testing.T) {
	executor := &scriptedGitExecutor{queuedErrors: []error{commandFailure(1, "tag not found")}}
	manager := newManager(testInstance, executor)

	deleted, deletionError := manager.DeleteLocalTag(context.Background(), testRepositoryPathConstant, testTagNameConstant)
	require.NoError(testInstance, deletionError)
	require.False(testInstance, deleted)
}

func TestDeleteLocalTagReportsDeletion(testInstance *testing.T) {
	executor := &scriptedGitExecutor{}
	manager := newManager(testInstance, executor)

	deleted, deletionError := manager.DeleteLocalTag(context.Background(), testRepositoryPathConstant, testTagNameConstant)
	require.NoError(testInstance, deletionError)
	require.True(testInstance, deleted)
	require.Equal(testInstance, []string{"tag", "-d", testTagNameConstant}, executor.recordedCommands[0].Arguments)
}

func TestDeleteRemoteTagUsesEmptySourceRefspec(testInstance *testing.T) {
	executor := &scriptedGitExecutor{}
	manager := newManager(testInstance, executor)

	deleted, deletionError := manager.DeleteRemoteTag(context.Background(), testRepositoryPathConstant, testRemoteNameConstant, testTagNameConstant)
	require.NoError(testInstance, deletionError)
	require.True(testInstance, deleted)
	require.Equal(testInstance, []string{"push", testRemoteNameConstant, ":refs/tags/" + testTagNameConstant}, executor.recordedCommands[0].Arguments)
}

func TestDeleteRemoteTagPropagatesExecutionFailures(testInstance *testing.T) {
	executor := &scriptedGitExecutor{queuedErrors: []error{errors.New("git binary missing")}}
	manager := newManager(testInstance, executor)

	_, deletionError := manager.DeleteRemoteTag(context.Background(), testRepositoryPathConstant, testRemoteNameConstant, testTagNameConstant)
	require.Error(testInstance, deletionError)
}

func TestAddSubmoduleIncludesForceFlag(testInstance *testing.T) {
	executor := &scriptedGitExecutor{}
	manager := newManager(testInstance, executor)

	require.NoError(testInstance, manager.AddSubmodule(context.Background(), testRepositoryPathConstant, gitrepo.SubmoduleAddOptions{URL: testRemoteURLConstant, Path: testSubmodulePathConstant, Force: true}))
	require.Equal(testInstance, []string{"submodule", "add", "-f", testRemoteURLConstant, testSubmodulePathConstant}, executor.recordedCommands[0].Arguments)
}

func TestRemoveSubmodulePathIssuesRecursiveRemoval(testInstance *testing.T) {
	executor := &scriptedGitExecutor{}
	manager := newManager(testInstance, executor)

	require.NoError(testInstance, manager.RemoveSubmodulePath(context.Background(), testRepositoryPathConstant, testSubmodulePathConstant))
	require.Equal(testInstance, []string{"rm", "-rf", testSubmodulePathConstant}, executor.recordedCommands[0].Arguments)
}

func TestUpdateSubmodulesAppendsRequestedFlags(testInstance *testing.T) {
	executor := &scriptedGitExecutor{}
	manager := newManager(testInstance, executor)

	require.NoError(testInstance, manager.UpdateSubmodules(context.Background(), testRepositoryPathConstant, gitrepo.SubmoduleUpdateOptions{Init: true, Recursive: true, Force: true}))
	require.Equal(testInstance, []string{"submodule", "update", "--init", "--recursive", "--force"}, executor.recordedCommands[0].Arguments)
}

func TestConfigureUserIdentitySetsNameAndEmail(testInstance *testing.T) {
	executor := &scriptedGitExecutor{}
	manager := newManager(testInstance, executor)

	require.NoError(testInstance, manager.ConfigureUserIdentity(context.Background(), testRepositoryPathConstant, "operator", "operator@users.noreply.github.com"))
	require.Len(testInstance, executor.recordedCommands, 2)
	require.Equal(testInstance, []string{"config", "user.name", "operator"}, executor.recordedCommands[0].Arguments)
	require.Equal(testInstance, []string{"config", "user.email", "operator@users.noreply.github.com"}, executor.recordedCommands[1].Arguments)
}

func TestOperationsValidateRequiredInputs(testInstance *testing.T) {
	executor := &scriptedGitExecutor{}
	manager := newManager(testInstance, executor)

	require.Error(testInstance, manager.CloneRepository(context.Background(), " ", testRepositoryPathConstant))
	_, commitError := manager.CommitAll(context.Background(), "", testCommitMessageConstant)
	require.Error(testInstance, commitError)
	require.Error(testInstance, manager.PushBranch(context.Background(), testRepositoryPathConstant, "", testBranchNameConstant))
	require.Empty(testInstance, executor.recordedCommands)
}

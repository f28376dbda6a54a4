package gitrepo

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/Jiang1756/Rustdesk-builde/internal/execshell"
)

const (
	requiredValueMessageConstant = "value required"

	gitCloneSubcommandConstant           = "clone"
	gitAddSubcommandConstant             = "add"
	gitAllFlagConstant                   = "-A"
	gitCommitSubcommandConstant          = "commit"
	gitMessageFlagConstant               = "-m"
	gitRemoteSubcommandConstant          = "remote"
	gitRemoteSetURLSubcommandConstant    = "set-url"
	gitRemoteAddSubcommandConstant       = "add"
	gitRevParseSubcommandConstant        = "rev-parse"
	gitAbbrevRefFlagConstant             = "--abbrev-ref"
	gitHeadReferenceConstant             = "HEAD"
	gitPushSubcommandConstant            = "push"
	gitTagSubcommandConstant             = "tag"
	gitTagDeleteFlagConstant             = "-d"
	gitAnnotatedTagFlagConstant          = "-a"
	gitRemoveSubcommandConstant          = "rm"
	gitRecursiveForceFlagConstant        = "-rf"
	gitSubmoduleSubcommandConstant       = "submodule"
	gitSubmoduleAddSubcommandConstant    = "add"
	gitSubmoduleUpdateSubcommandConstant = "update"
	gitSubmoduleInitFlagConstant         = "--init"
	gitSubmoduleRecursiveFlagConstant    = "--recursive"
	gitForceFlagConstant                 = "--force"
	gitShortForceFlagConstant            = "-f"
	gitConfigSubcommandConstant          = "config"
	gitUserNameConfigurationKeyConstant  = "user.name"
	gitUserEmailConfigurationKeyConstant = "user.email"

	operationCloneConstant             = OperationName("Clone")
	operationCommitAllConstant         = OperationName("CommitAll")
	operationEnsureRemoteConstant      = OperationName("EnsureRemote")
	operationCurrentBranchConstant     = OperationName("CurrentBranch")
	operationPushBranchConstant        = OperationName("PushBranch")
	operationCreateTagConstant         = OperationName("CreateAnnotatedTag")
	operationDeleteLocalTagConstant    = OperationName("DeleteLocalTag")
	operationDeleteRemoteTagConstant   = OperationName("DeleteRemoteTag")
	operationPushTagConstant           = OperationName("PushTag")
	operationAddSubmoduleConstant      = OperationName("AddSubmodule")
	operationRemoveSubmoduleConstant   = OperationName("RemoveSubmodulePath")
	operationUpdateSubmodulesConstant  = OperationName("UpdateSubmodules")
	operationConfigureIdentityConstant = OperationName("ConfigureUserIdentity")

	commitSkippedLogMessageConstant    = "no changes to commit"
	detachedHeadMessageConstant        = "repository is in a detached HEAD state"
	repositoryPathLogFieldNameConstant = "repository_path"

	cleanTreeCommitExitCodeConstant = 1
	nothingToCommitFragmentConstant = "nothing to commit"
	nothingAddedFragmentConstant    = "nothing added to commit"
)

// ErrGitExecutorNotConfigured indicates the manager was constructed without a git executor.
var ErrGitExecutorNotConfigured = errors.New("repository manager requires a git executor")

// GitExecutor exposes the subset of shell execution used by the repository manager.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// TagOptions configures annotated tag creation.
type TagOptions struct {
	Name    string
	Message string
}

// SubmoduleAddOptions configures submodule additions.
type SubmoduleAddOptions struct {
	URL   string
	Path  string
	Force bool
}

// SubmoduleUpdateOptions configures submodule synchronization.
type SubmoduleUpdateOptions struct {
	Init      bool
	Recursive bool
	Force     bool
}

// RepositoryManager performs repository-level git operations over shell execution.
type RepositoryManager struct {
	logger      *zap.Logger
	gitExecutor GitExecutor
}

// NewRepositoryManager validates collaborators and constructs a RepositoryManager.
func NewRepositoryManager(logger *zap.Logger, gitExecutor GitExecutor) (*RepositoryManager, error) {
	if gitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RepositoryManager{logger: logger, gitExecutor: gitExecutor}, nil
}

// CloneRepository clones the remote repository into the destination path.
// The caller resets the destination first; git fails when it already exists.
func (manager *RepositoryManager) CloneRepository(executionContext context.Context, remoteURL string, destinationPath string) error {
	if validationError := requireValues(map[string]string{remoteURLFieldNameConstant: remoteURL, destinationPathFieldNameConstant: destinationPath}); validationError != nil {
		return validationError
	}

	_, executionError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments: []string{gitCloneSubcommandConstant, remoteURL, destinationPath},
	})
	if executionError != nil {
		return OperationError{Operation: operationCloneConstant, Cause: executionError}
	}
	return nil
}

// CommitAll stages every working-tree change and commits with the supplied
// message. A commit attempt over a clean tree reports (false, nil); git exits
// with code 1 and a "nothing to commit" notice in that case. Any other commit
// failure (missing identity, failing hooks) is an error.
func (manager *RepositoryManager) CommitAll(executionContext context.Context, repositoryPath string, message string) (bool, error) {
	if validationError := requireValues(map[string]string{repositoryPathFieldNameConstant: repositoryPath, commitMessageFieldNameConstant: message}); validationError != nil {
		return false, validationError
	}

	if _, stageError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitAddSubcommandConstant, gitAllFlagConstant},
		WorkingDirectory: repositoryPath,
	}); stageError != nil {
		return false, OperationError{Operation: operationCommitAllConstant, Cause: stageError}
	}

	_, commitError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitCommitSubcommandConstant, gitMessageFlagConstant, message},
		WorkingDirectory: repositoryPath,
	})
	if commitError != nil {
		var commandFailure execshell.CommandFailedError
		if errors.As(commitError, &commandFailure) && isCleanTreeCommitFailure(commandFailure) {
			manager.logger.Info(commitSkippedLogMessageConstant, zap.String(repositoryPathLogFieldNameConstant, repositoryPath))
			return false, nil
		}
		return false, OperationError{Operation: operationCommitAllConstant, Cause: commitError}
	}
	return true, nil
}

func isCleanTreeCommitFailure(failure execshell.CommandFailedError) bool {
	if failure.Result.ExitCode != cleanTreeCommitExitCodeConstant {
		return false
	}
	combinedOutput := strings.ToLower(failure.Result.StandardOutput + "\n" + failure.Result.StandardError)
	return strings.Contains(combinedOutput, nothingToCommitFragmentConstant) ||
		strings.Contains(combinedOutput, nothingAddedFragmentConstant)
}

// EnsureRemote retargets the named remote to the provided URL, falling back to
// remote creation when the remote does not exist yet.
func (manager *RepositoryManager) EnsureRemote(executionContext context.Context, repositoryPath string, remoteName string, remoteURL string) error {
	if validationError := requireValues(map[string]string{repositoryPathFieldNameConstant: repositoryPath, remoteNameFieldNameConstant: remoteName, remoteURLFieldNameConstant: remoteURL}); validationError != nil {
		return validationError
	}

	_, setURLError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRemoteSubcommandConstant, gitRemoteSetURLSubcommandConstant, remoteName, remoteURL},
		WorkingDirectory: repositoryPath,
	})
	if setURLError == nil {
		return nil
	}

	var commandFailure execshell.CommandFailedError
	if !errors.As(setURLError, &commandFailure) {
		return OperationError{Operation: operationEnsureRemoteConstant, Cause: setURLError}
	}

	_, addError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRemoteSubcommandConstant, gitRemoteAddSubcommandConstant, remoteName, remoteURL},
		WorkingDirectory: repositoryPath,
	})
	if addError != nil {
		return OperationError{Operation: operationEnsureRemoteConstant, Cause: addError}
	}
	return nil
}

// GetCurrentBranch reads the branch name the working tree currently has
// checked out. Upstream default branch names vary, so callers must never
// assume one.
func (manager *RepositoryManager) GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	if validationError := requireValues(map[string]string{repositoryPathFieldNameConstant: repositoryPath}); validationError != nil {
		return "", validationError
	}

	executionResult, executionError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitAbbrevRefFlagConstant, gitHeadReferenceConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return "", OperationError{Operation: operationCurrentBranchConstant, Cause: executionError}
	}

	branchName := strings.TrimSpace(executionResult.StandardOutput)
	if len(branchName) == 0 || strings.EqualFold(branchName, gitHeadReferenceConstant) {
		return "", OperationError{Operation: operationCurrentBranchConstant, Cause: errors.New(detachedHeadMessageConstant)}
	}
	return branchName, nil
}

// PushBranch pushes the branch to the named remote using an explicit
// branch:branch refspec.
func (manager *RepositoryManager) PushBranch(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error {
	if validationError := requireValues(map[string]string{repositoryPathFieldNameConstant: repositoryPath, remoteNameFieldNameConstant: remoteName, branchNameFieldNameConstant: branchName}); validationError != nil {
		return validationError
	}

	refspec := branchName + ":" + branchName
	_, executionError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitPushSubcommandConstant, remoteName, refspec},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return OperationError{Operation: operationPushBranchConstant, Cause: executionError}
	}
	return nil
}

// CreateAnnotatedTag creates an annotated tag carrying the supplied message.
func (manager *RepositoryManager) CreateAnnotatedTag(executionContext context.Context, repositoryPath string, options TagOptions) error {
	if validationError := requireValues(map[string]string{repositoryPathFieldNameConstant: repositoryPath, tagNameFieldNameConstant: options.Name, tagMessageFieldNameConstant: options.Message}); validationError != nil {
		return validationError
	}

	_, executionError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitTagSubcommandConstant, gitAnnotatedTagFlagConstant, options.Name, gitMessageFlagConstant, options.Message},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return OperationError{Operation: operationCreateTagConstant, Cause: executionError}
	}
	return nil
}

// DeleteLocalTag removes the tag from the local repository. Absence of the tag
// is not an error; the return value reports whether a tag was deleted.
func (manager *RepositoryManager) DeleteLocalTag(executionContext context.Context, repositoryPath string, tagName string) (bool, error) {
	if validationError := requireValues(map[string]string{repositoryPathFieldNameConstant: repositoryPath, tagNameFieldNameConstant: tagName}); validationError != nil {
		return false, validationError
	}

	_, executionError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitTagSubcommandConstant, gitTagDeleteFlagConstant, tagName},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		var commandFailure execshell.CommandFailedError
		if errors.As(executionError, &commandFailure) {
			return false, nil
		}
		return false, OperationError{Operation: operationDeleteLocalTagConstant, Cause: executionError}
	}
	return true, nil
}

// DeleteRemoteTag removes the tag from the named remote using an empty-source
// refspec. Absence of the tag remotely is not an error.
func (manager *RepositoryManager) DeleteRemoteTag(executionContext context.Context, repositoryPath string, remoteName string, tagName string) (bool, error) {
	if validationError := requireValues(map[string]string{repositoryPathFieldNameConstant: repositoryPath, remoteNameFieldNameConstant: remoteName, tagNameFieldNameConstant: tagName}); validationError != nil {
		return false, validationError
	}

	deletionRefspec := ":refs/tags/" + tagName
	_, executionError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitPushSubcommandConstant, remoteName, deletionRefspec},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		var commandFailure execshell.CommandFailedError
		if errors.As(executionError, &commandFailure) {
			return false, nil
		}
		return false, OperationError{Operation: operationDeleteRemoteTagConstant, Cause: executionError}
	}
	return true, nil
}

// PushTag pushes the named tag to the remote.
func (manager *RepositoryManager) PushTag(executionContext context.Context, repositoryPath string, remoteName string, tagName string) error {
	if validationError := requireValues(map[string]string{repositoryPathFieldNameConstant: repositoryPath, remoteNameFieldNameConstant: remoteName, tagNameFieldNameConstant: tagName}); validationError != nil {
		return validationError
	}

	_, executionError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitPushSubcommandConstant, remoteName, tagName},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return OperationError{Operation: operationPushTagConstant, Cause: executionError}
	}
	return nil
}

// AddSubmodule registers a submodule at the provided path inside the parent
// working tree.
func (manager *RepositoryManager) AddSubmodule(executionContext context.Context, repositoryPath string, options SubmoduleAddOptions) error {
	if validationError := requireValues(map[string]string{repositoryPathFieldNameConstant: repositoryPath, submoduleURLFieldNameConstant: options.URL, submodulePathFieldNameConstant: options.Path}); validationError != nil {
		return validationError
	}

	arguments := []string{gitSubmoduleSubcommandConstant, gitSubmoduleAddSubcommandConstant}
	if options.Force {
		arguments = append(arguments, gitShortForceFlagConstant)
	}
	arguments = append(arguments, options.URL, options.Path)

	_, executionError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return OperationError{Operation: operationAddSubmoduleConstant, Cause: executionError}
	}
	return nil
}

// RemoveSubmodulePath removes the submodule checkout and its metadata entry
// from the parent working tree.
func (manager *RepositoryManager) RemoveSubmodulePath(executionContext context.Context, repositoryPath string, submodulePath string) error {
	if validationError := requireValues(map[string]string{repositoryPathFieldNameConstant: repositoryPath, submodulePathFieldNameConstant: submodulePath}); validationError != nil {
		return validationError
	}

	_, executionError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRemoveSubcommandConstant, gitRecursiveForceFlagConstant, submodulePath},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return OperationError{Operation: operationRemoveSubmoduleConstant, Cause: executionError}
	}
	return nil
}

// UpdateSubmodules synchronizes submodule checkouts with the recorded
// references.
func (manager *RepositoryManager) UpdateSubmodules(executionContext context.Context, repositoryPath string, options SubmoduleUpdateOptions) error {
	if validationError := requireValues(map[string]string{repositoryPathFieldNameConstant: repositoryPath}); validationError != nil {
		return validationError
	}

	arguments := []string{gitSubmoduleSubcommandConstant, gitSubmoduleUpdateSubcommandConstant}
	if options.Init {
		arguments = append(arguments, gitSubmoduleInitFlagConstant)
	}
	if options.Recursive {
		arguments = append(arguments, gitSubmoduleRecursiveFlagConstant)
	}
	if options.Force {
		arguments = append(arguments, gitForceFlagConstant)
	}

	_, executionError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return OperationError{Operation: operationUpdateSubmodulesConstant, Cause: executionError}
	}
	return nil
}

// ConfigureUserIdentity sets the commit identity for the repository checkout.
func (manager *RepositoryManager) ConfigureUserIdentity(executionContext context.Context, repositoryPath string, userName string, userEmail string) error {
	if validationError := requireValues(map[string]string{repositoryPathFieldNameConstant: repositoryPath, userNameFieldNameConstant: userName, userEmailFieldNameConstant: userEmail}); validationError != nil {
		return validationError
	}

	identityEntries := [][]string{
		{gitConfigSubcommandConstant, gitUserNameConfigurationKeyConstant, userName},
		{gitConfigSubcommandConstant, gitUserEmailConfigurationKeyConstant, userEmail},
	}
	for _, arguments := range identityEntries {
		if _, executionError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
			Arguments:        arguments,
			WorkingDirectory: repositoryPath,
		}); executionError != nil {
			return OperationError{Operation: operationConfigureIdentityConstant, Cause: executionError}
		}
	}
	return nil
}

func requireValues(namedValues map[string]string) error {
	for fieldName, fieldValue := range namedValues {
		if len(strings.TrimSpace(fieldValue)) == 0 {
			return InvalidInputError{FieldName: fieldName, Message: requiredValueMessageConstant}
		}
	}
	return nil
}

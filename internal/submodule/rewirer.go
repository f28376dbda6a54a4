package submodule

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Jiang1756/Rustdesk-builde/internal/gitrepo"
)

const (
	repositoryPathFieldNameConstant = "repository_path"
	submodulePathFieldNameConstant  = "submodule_path"
	submoduleURLFieldNameConstant   = "submodule_url"

	removalCommitMessageConstant    = "Remove hbb_common submodule"
	additionCommitMessageConstant   = "Re-add hbb_common submodule"
	removalWarningTemplateConstant  = "submodule removal skipped: %v"
	removalCommitWarningTemplate    = "submodule removal commit skipped: %v"
	missingValueTemplateConstant    = "submodule rewiring requires %s"
	rewireStartedLogMessageConstant = "rewiring submodule"
	rewireDoneLogMessageConstant    = "submodule rewired"
	submodulePathLogFieldConstant   = "submodule_path"
	submoduleURLLogFieldConstant    = "submodule_url"
)

// ErrGitOperationsNotConfigured indicates the rewirer was constructed without git operations.
var ErrGitOperationsNotConfigured = errors.New("submodule rewirer requires git operations")

// GitOperations exposes the repository operations submodule rewiring performs.
type GitOperations interface {
	RemoveSubmodulePath(executionContext context.Context, repositoryPath string, submodulePath string) error
	CommitAll(executionContext context.Context, repositoryPath string, message string) (bool, error)
	AddSubmodule(executionContext context.Context, repositoryPath string, options gitrepo.SubmoduleAddOptions) error
	UpdateSubmodules(executionContext context.Context, repositoryPath string, options gitrepo.SubmoduleUpdateOptions) error
}

// Options identifies the repository and the submodule binding to replace.
type Options struct {
	RepositoryPath string
	SubmodulePath  string
	SubmoduleURL   string
}

// Rewirer swaps a submodule's upstream URL for a fork URL inside a checked-out
// repository. Removal of the previous binding is best effort because fresh
// clones may track the path as a plain directory rather than a submodule.
type Rewirer struct {
	logger        *zap.Logger
	gitOperations GitOperations
}

// NewRewirer validates collaborators and constructs a Rewirer.
func NewRewirer(logger *zap.Logger, gitOperations GitOperations) (*Rewirer, error) {
	if gitOperations == nil {
		return nil, ErrGitOperationsNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Rewirer{logger: logger, gitOperations: gitOperations}, nil
}

// Rewire removes the existing submodule binding, registers the replacement
// URL, synchronizes the checkout, and commits the result. It returns the
// warnings accumulated by tolerated removal failures.
func (rewirer *Rewirer) Rewire(executionContext context.Context, options Options) ([]string, error) {
	if validationError := validateOptions(options); validationError != nil {
		return nil, validationError
	}

	rewirer.logger.Info(rewireStartedLogMessageConstant,
		zap.String(submodulePathLogFieldConstant, options.SubmodulePath),
		zap.String(submoduleURLLogFieldConstant, options.SubmoduleURL),
	)

	warnings := []string{}
	if removalError := rewirer.gitOperations.RemoveSubmodulePath(executionContext, options.RepositoryPath, options.SubmodulePath); removalError != nil {
		warningMessage := fmt.Sprintf(removalWarningTemplateConstant, removalError)
		rewirer.logger.Warn(warningMessage)
		warnings = append(warnings, warningMessage)
	}
	if _, removalCommitError := rewirer.gitOperations.CommitAll(executionContext, options.RepositoryPath, removalCommitMessageConstant); removalCommitError != nil {
		warningMessage := fmt.Sprintf(removalCommitWarningTemplate, removalCommitError)
		rewirer.logger.Warn(warningMessage)
		warnings = append(warnings, warningMessage)
	}

	if additionError := rewirer.gitOperations.AddSubmodule(executionContext, options.RepositoryPath, gitrepo.SubmoduleAddOptions{
		URL:   options.SubmoduleURL,
		Path:  options.SubmodulePath,
		Force: true,
	}); additionError != nil {
		return warnings, additionError
	}
	if updateError := rewirer.gitOperations.UpdateSubmodules(executionContext, options.RepositoryPath, gitrepo.SubmoduleUpdateOptions{
		Init:      true,
		Recursive: true,
		Force:     true,
	}); updateError != nil {
		return warnings, updateError
	}
	if _, additionCommitError := rewirer.gitOperations.CommitAll(executionContext, options.RepositoryPath, additionCommitMessageConstant); additionCommitError != nil {
		return warnings, additionCommitError
	}

	rewirer.logger.Info(rewireDoneLogMessageConstant,
		zap.String(submodulePathLogFieldConstant, options.SubmodulePath),
	)
	return warnings, nil
}

func validateOptions(options Options) error {
	requiredValues := []struct {
		fieldName string
		value     string
	}{
		{fieldName: repositoryPathFieldNameConstant, value: options.RepositoryPath},
		{fieldName: submodulePathFieldNameConstant, value: options.SubmodulePath},
		{fieldName: submoduleURLFieldNameConstant, value: options.SubmoduleURL},
	}
	for _, requiredValue := range requiredValues {
		if len(requiredValue.value) == 0 {
			return fmt.Errorf(missingValueTemplateConstant, requiredValue.fieldName)
		}
	}
	return nil
}

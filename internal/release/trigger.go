package release

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Jiang1756/Rustdesk-builde/internal/gitrepo"
	"github.com/Jiang1756/Rustdesk-builde/internal/utils"
)

const (
	tagTimestampLayoutConstant = "20060102150405"
	tagNameTemplateConstant    = "%s-%s"
	tagMessageConstant         = "Automated build with custom server settings"

	repositoryPathFieldNameConstant = "repository_path"
	remoteNameFieldNameConstant     = "remote_name"
	versionFieldNameConstant        = "version"
	missingValueTemplateConstant    = "release trigger requires %s"

	localTagCleanupWarningTemplate  = "local tag cleanup skipped: %v"
	remoteTagCleanupWarningTemplate = "remote tag cleanup skipped: %v"
	tagPushedLogMessageConstant     = "release tag pushed"
	tagNameLogFieldConstant         = "tag_name"
)

// ErrTagOperationsNotConfigured indicates the trigger was constructed without tag operations.
var ErrTagOperationsNotConfigured = errors.New("release trigger requires tag operations")

// ErrClockNotConfigured indicates the trigger was constructed without a clock.
var ErrClockNotConfigured = errors.New("release trigger requires a clock")

// TagOperations exposes the repository operations tag publication performs.
type TagOperations interface {
	DeleteLocalTag(executionContext context.Context, repositoryPath string, tagName string) (bool, error)
	DeleteRemoteTag(executionContext context.Context, repositoryPath string, remoteName string, tagName string) (bool, error)
	CreateAnnotatedTag(executionContext context.Context, repositoryPath string, options gitrepo.TagOptions) error
	PushTag(executionContext context.Context, repositoryPath string, remoteName string, tagName string) error
}

// Options identifies the repository, remote, and version to tag.
type Options struct {
	RepositoryPath string
	RemoteName     string
	Version        string
}

// Result reports the published tag and the warnings tolerated along the way.
type Result struct {
	TagName  string
	Warnings []string
}

// Trigger publishes an annotated, timestamp-suffixed tag so the hosting
// platform's release workflow starts a build. Stale tags with the same name
// are deleted first on a best-effort basis.
type Trigger struct {
	logger        *zap.Logger
	tagOperations TagOperations
	clock         utils.Clock
}

// NewTrigger validates collaborators and constructs a Trigger.
func NewTrigger(logger *zap.Logger, tagOperations TagOperations, clock utils.Clock) (*Trigger, error) {
	if tagOperations == nil {
		return nil, ErrTagOperationsNotConfigured
	}
	if clock == nil {
		return nil, ErrClockNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Trigger{logger: logger, tagOperations: tagOperations, clock: clock}, nil
}

// TagAndPush creates the release tag and pushes it to the remote. The tag
// name combines the manifest version with a second-resolution timestamp so
// repeated runs never collide.
func (trigger *Trigger) TagAndPush(executionContext context.Context, options Options) (Result, error) {
	if validationError := validateOptions(options); validationError != nil {
		return Result{}, validationError
	}

	tagName := fmt.Sprintf(tagNameTemplateConstant, options.Version, trigger.clock.Now().Format(tagTimestampLayoutConstant))
	warnings := []string{}

	if _, localDeletionError := trigger.tagOperations.DeleteLocalTag(executionContext, options.RepositoryPath, tagName); localDeletionError != nil {
		warningMessage := fmt.Sprintf(localTagCleanupWarningTemplate, localDeletionError)
		trigger.logger.Warn(warningMessage)
		warnings = append(warnings, warningMessage)
	}
	if _, remoteDeletionError := trigger.tagOperations.DeleteRemoteTag(executionContext, options.RepositoryPath, options.RemoteName, tagName); remoteDeletionError != nil {
		warningMessage := fmt.Sprintf(remoteTagCleanupWarningTemplate, remoteDeletionError)
		trigger.logger.Warn(warningMessage)
		warnings = append(warnings, warningMessage)
	}

	if creationError := trigger.tagOperations.CreateAnnotatedTag(executionContext, options.RepositoryPath, gitrepo.TagOptions{
		Name:    tagName,
		Message: tagMessageConstant,
	}); creationError != nil {
		return Result{Warnings: warnings}, creationError
	}
	if pushError := trigger.tagOperations.PushTag(executionContext, options.RepositoryPath, options.RemoteName, tagName); pushError != nil {
		return Result{Warnings: warnings}, pushError
	}

	trigger.logger.Info(tagPushedLogMessageConstant, zap.String(tagNameLogFieldConstant, tagName))
	return Result{TagName: tagName, Warnings: warnings}, nil
}

func validateOptions(options Options) error {
	requiredValues := []struct {
		fieldName string
		value     string
	}{
		{fieldName: repositoryPathFieldNameConstant, value: options.RepositoryPath},
		{fieldName: remoteNameFieldNameConstant, value: options.RemoteName},
		{fieldName: versionFieldNameConstant, value: options.Version},
	}
	for _, requiredValue := range requiredValues {
		if len(requiredValue.value) == 0 {
			return fmt.Errorf(missingValueTemplateConstant, requiredValue.fieldName)
		}
	}
	return nil
}

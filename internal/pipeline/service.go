package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Jiang1756/Rustdesk-builde/internal/githubapi"
	"github.com/Jiang1756/Rustdesk-builde/internal/gitrepo"
	"github.com/Jiang1756/Rustdesk-builde/internal/patch"
	"github.com/Jiang1756/Rustdesk-builde/internal/release"
	"github.com/Jiang1756/Rustdesk-builde/internal/submodule"
	"github.com/Jiang1756/Rustdesk-builde/internal/utils"
)

const (
	workspaceStageNameConstant          = "workspace"
	cloneStageNameConstant              = "clone"
	patchStageNameConstant              = "patch"
	commitStageNameConstant             = "commit"
	publishLibraryStageNameConstant     = "publish_library"
	rewireSubmoduleStageNameConstant    = "rewire_submodule"
	publishApplicationStageNameConstant = "publish_application"
	releaseStageNameConstant            = "release"

	originRemoteNameConstant              = "origin"
	repositoryNameSuffixLayoutConstant    = "20060102_150405"
	repositoryNameTemplateConstant        = "%s_%s"
	repositoryDescriptionTemplateConstant = "Modified %s with custom server settings"
	noreplyEmailTemplateConstant          = "%s@users.noreply.github.com"
	patchCommitMessageConstant            = "Update embedded server settings"
	manifestFileNameConstant              = "Cargo.toml"

	tokenFieldNameConstant                 = "github_token"
	usernameFieldNameConstant              = "github_username"
	serverAddressFieldNameConstant         = "server_address"
	publicKeyFieldNameConstant             = "public_key"
	libraryRepositoryFieldNameConstant     = "library_repository"
	applicationRepositoryFieldNameConstant = "application_repository"
	requiredValueMessageConstant           = "value required"

	identityWarningTemplateConstant    = "git identity configuration skipped: %v"
	permissionsWarningTemplateConstant = "repository permissions not applied: %v"
	pipelineStartedLogMessageConstant  = "starting build pipeline"
	pipelineFinishedLogMessage         = "build pipeline completed"
	stageStartedLogMessageConstant     = "running stage"
	repositoryCreatedLogMessage        = "hosting repository created"
	patchesAppliedLogMessageConstant   = "source patches applied"
	stageLogFieldNameConstant          = "stage"
	repositoryLogFieldNameConstant     = "repository"
	patchNamesLogFieldNameConstant     = "patches"
	tagLogFieldNameConstant            = "tag"
)

// Sentinel errors for missing collaborators.
var (
	ErrWorkspaceManagerNotConfigured  = errors.New("pipeline service requires a workspace manager")
	ErrRepositoryManagerNotConfigured = errors.New("pipeline service requires a repository manager")
	ErrSourceRewriterNotConfigured    = errors.New("pipeline service requires a source rewriter")
	ErrHostingClientNotConfigured     = errors.New("pipeline service requires a hosting client")
	ErrSubmoduleRewirerNotConfigured  = errors.New("pipeline service requires a submodule rewirer")
	ErrReleaseTriggerNotConfigured    = errors.New("pipeline service requires a release trigger")
	ErrClockNotConfigured             = errors.New("pipeline service requires a clock")
)

// WorkspaceManager prepares the local staging directories.
type WorkspaceManager interface {
	Reset(path string) error
	Ensure(root string) error
}

// RepositoryManager exposes the git operations the pipeline drives directly.
type RepositoryManager interface {
	CloneRepository(executionContext context.Context, remoteURL string, destinationPath string) error
	ConfigureUserIdentity(executionContext context.Context, repositoryPath string, userName string, userEmail string) error
	CommitAll(executionContext context.Context, repositoryPath string, message string) (bool, error)
	EnsureRemote(executionContext context.Context, repositoryPath string, remoteName string, remoteURL string) error
	GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	PushBranch(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error
}

// SourceRewriter applies constant patches to checked-out source files.
type SourceRewriter interface {
	RewriteFile(filePath string, patches []patch.ConstantPatch) ([]string, error)
}

// HostingClient exposes the hosting platform operations the pipeline uses.
type HostingClient interface {
	CreateRepository(executionContext context.Context, options githubapi.CreateRepositoryOptions) (githubapi.CreatedRepository, error)
	EnableRepositoryActions(executionContext context.Context, repository string) error
	SetWorkflowPermissions(executionContext context.Context, repository string) error
}

// SubmoduleRewirer replaces the library submodule binding in the application tree.
type SubmoduleRewirer interface {
	Rewire(executionContext context.Context, options submodule.Options) ([]string, error)
}

// ReleaseTrigger publishes the tag that starts the hosted build.
type ReleaseTrigger interface {
	TagAndPush(executionContext context.Context, options release.Options) (release.Result, error)
}

// ServiceDependencies aggregates the collaborators required by the pipeline.
type ServiceDependencies struct {
	Logger            *zap.Logger
	WorkspaceManager  WorkspaceManager
	RepositoryManager RepositoryManager
	SourceRewriter    SourceRewriter
	HostingClient     HostingClient
	SubmoduleRewirer  SubmoduleRewirer
	ReleaseTrigger    ReleaseTrigger
	Clock             utils.Clock
}

// Result reports the artifacts of a completed pipeline run.
type Result struct {
	LibraryRepositoryURL     string
	ApplicationRepositoryURL string
	TagName                  string
	Warnings                 []string
}

// Service runs the build pipeline as a single linear sequence of stages. The
// first fatal failure terminates the run; published artifacts are never
// rolled back because every name is timestamped and re-runs start clean.
type Service struct {
	logger                    *zap.Logger
	dependencies              ServiceDependencies
	configuration             Configuration
	libraryRepositoryName     string
	applicationRepositoryName string
}

// NewService validates the configuration and collaborators before returning a
// runnable pipeline. Validation failures surface before any collaborator call.
func NewService(dependencies ServiceDependencies, configuration Configuration) (*Service, error) {
	if dependencies.WorkspaceManager == nil {
		return nil, ErrWorkspaceManagerNotConfigured
	}
	if dependencies.RepositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}
	if dependencies.SourceRewriter == nil {
		return nil, ErrSourceRewriterNotConfigured
	}
	if dependencies.HostingClient == nil {
		return nil, ErrHostingClientNotConfigured
	}
	if dependencies.SubmoduleRewirer == nil {
		return nil, ErrSubmoduleRewirerNotConfigured
	}
	if dependencies.ReleaseTrigger == nil {
		return nil, ErrReleaseTriggerNotConfigured
	}
	if dependencies.Clock == nil {
		return nil, ErrClockNotConfigured
	}
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}

	sanitizedConfiguration := configuration.Sanitize()
	if validationError := validateConfiguration(sanitizedConfiguration); validationError != nil {
		return nil, validationError
	}

	libraryRepositoryName, libraryNameError := repositoryNameFromRemote(sanitizedConfiguration.LibraryRepositoryURL, libraryRepositoryFieldNameConstant)
	if libraryNameError != nil {
		return nil, libraryNameError
	}
	applicationRepositoryName, applicationNameError := repositoryNameFromRemote(sanitizedConfiguration.ApplicationRepositoryURL, applicationRepositoryFieldNameConstant)
	if applicationNameError != nil {
		return nil, applicationNameError
	}

	return &Service{
		logger:                    dependencies.Logger,
		dependencies:              dependencies,
		configuration:             sanitizedConfiguration,
		libraryRepositoryName:     libraryRepositoryName,
		applicationRepositoryName: applicationRepositoryName,
	}, nil
}

// Execute runs every pipeline stage in order and returns the published
// repository URLs and release tag. Best-effort failures are collected as
// warnings; the first fatal error aborts with the stage name wrapped in.
func (service *Service) Execute(executionContext context.Context) (Result, error) {
	service.logger.Info(pipelineStartedLogMessageConstant)

	runTimestamp := service.dependencies.Clock.Now()
	nameSuffix := runTimestamp.Format(repositoryNameSuffixLayoutConstant)
	publishedLibraryName := fmt.Sprintf(repositoryNameTemplateConstant, service.libraryRepositoryName, nameSuffix)
	publishedApplicationName := fmt.Sprintf(repositoryNameTemplateConstant, service.applicationRepositoryName, nameSuffix)

	libraryPath := filepath.Join(service.configuration.WorkspaceRoot, service.libraryRepositoryName)
	applicationPath := filepath.Join(service.configuration.WorkspaceRoot, service.applicationRepositoryName)

	warnings := []string{}

	service.logStage(workspaceStageNameConstant)
	if workspaceError := service.prepareWorkspace(libraryPath, applicationPath); workspaceError != nil {
		return Result{Warnings: warnings}, StageError{StageName: workspaceStageNameConstant, Cause: workspaceError}
	}

	service.logStage(cloneStageNameConstant)
	if cloneError := service.cloneSources(executionContext, libraryPath, applicationPath, &warnings); cloneError != nil {
		return Result{Warnings: warnings}, StageError{StageName: cloneStageNameConstant, Cause: cloneError}
	}

	service.logStage(patchStageNameConstant)
	if patchError := service.patchLibrarySettings(libraryPath); patchError != nil {
		return Result{Warnings: warnings}, StageError{StageName: patchStageNameConstant, Cause: patchError}
	}

	service.logStage(commitStageNameConstant)
	if _, commitError := service.dependencies.RepositoryManager.CommitAll(executionContext, libraryPath, patchCommitMessageConstant); commitError != nil {
		return Result{Warnings: warnings}, StageError{StageName: commitStageNameConstant, Cause: commitError}
	}

	service.logStage(publishLibraryStageNameConstant)
	publishedLibrary, libraryPublishError := service.publishRepository(executionContext, libraryPath, publishedLibraryName)
	if libraryPublishError != nil {
		return Result{Warnings: warnings}, StageError{StageName: publishLibraryStageNameConstant, Cause: libraryPublishError}
	}

	service.logStage(rewireSubmoduleStageNameConstant)
	rewireWarnings, rewireError := service.dependencies.SubmoduleRewirer.Rewire(executionContext, submodule.Options{
		RepositoryPath: applicationPath,
		SubmodulePath:  service.configuration.SubmodulePath,
		SubmoduleURL:   publishedLibrary.CloneURL,
	})
	warnings = append(warnings, rewireWarnings...)
	if rewireError != nil {
		return Result{Warnings: warnings}, StageError{StageName: rewireSubmoduleStageNameConstant, Cause: rewireError}
	}

	service.logStage(publishApplicationStageNameConstant)
	publishedApplication, applicationPublishError := service.publishRepository(executionContext, applicationPath, publishedApplicationName)
	if applicationPublishError != nil {
		return Result{Warnings: warnings}, StageError{StageName: publishApplicationStageNameConstant, Cause: applicationPublishError}
	}
	service.applyRepositoryPermissions(executionContext, publishedApplication.FullName, &warnings)

	service.logStage(releaseStageNameConstant)
	manifestVersion := release.DeriveVersionFromManifestFile(filepath.Join(applicationPath, manifestFileNameConstant))
	releaseResult, releaseError := service.dependencies.ReleaseTrigger.TagAndPush(executionContext, release.Options{
		RepositoryPath: applicationPath,
		RemoteName:     originRemoteNameConstant,
		Version:        manifestVersion,
	})
	warnings = append(warnings, releaseResult.Warnings...)
	if releaseError != nil {
		return Result{Warnings: warnings}, StageError{StageName: releaseStageNameConstant, Cause: releaseError}
	}

	service.logger.Info(pipelineFinishedLogMessage,
		zap.String(repositoryLogFieldNameConstant, publishedApplication.HTMLURL),
		zap.String(tagLogFieldNameConstant, releaseResult.TagName),
	)
	return Result{
		LibraryRepositoryURL:     publishedLibrary.HTMLURL,
		ApplicationRepositoryURL: publishedApplication.HTMLURL,
		TagName:                  releaseResult.TagName,
		Warnings:                 warnings,
	}, nil
}

func (service *Service) prepareWorkspace(libraryPath string, applicationPath string) error {
	if ensureError := service.dependencies.WorkspaceManager.Ensure(service.configuration.WorkspaceRoot); ensureError != nil {
		return ensureError
	}
	if resetError := service.dependencies.WorkspaceManager.Reset(libraryPath); resetError != nil {
		return resetError
	}
	return service.dependencies.WorkspaceManager.Reset(applicationPath)
}

func (service *Service) cloneSources(executionContext context.Context, libraryPath string, applicationPath string, warnings *[]string) error {
	if cloneError := service.dependencies.RepositoryManager.CloneRepository(executionContext, service.configuration.LibraryRepositoryURL, libraryPath); cloneError != nil {
		return cloneError
	}
	if cloneError := service.dependencies.RepositoryManager.CloneRepository(executionContext, service.configuration.ApplicationRepositoryURL, applicationPath); cloneError != nil {
		return cloneError
	}

	identityEmail := fmt.Sprintf(noreplyEmailTemplateConstant, service.configuration.GitHubUsername)
	for _, clonePath := range []string{libraryPath, applicationPath} {
		if identityError := service.dependencies.RepositoryManager.ConfigureUserIdentity(executionContext, clonePath, service.configuration.GitHubUsername, identityEmail); identityError != nil {
			warningMessage := fmt.Sprintf(identityWarningTemplateConstant, identityError)
			service.logger.Warn(warningMessage)
			*warnings = append(*warnings, warningMessage)
		}
	}
	return nil
}

func (service *Service) patchLibrarySettings(libraryPath string) error {
	settingsPath := filepath.Join(libraryPath, service.configuration.LibrarySettingsPath)
	appliedNames, rewriteError := service.dependencies.SourceRewriter.RewriteFile(settingsPath, []patch.ConstantPatch{
		patch.NewRendezvousServerPatch(service.configuration.ServerAddress),
		patch.NewSigningKeyPatch(service.configuration.PublicKey),
	})
	if rewriteError != nil {
		return rewriteError
	}
	service.logger.Info(patchesAppliedLogMessageConstant, zap.Strings(patchNamesLogFieldNameConstant, appliedNames))
	return nil
}

func (service *Service) publishRepository(executionContext context.Context, repositoryPath string, repositoryName string) (githubapi.CreatedRepository, error) {
	createdRepository, creationError := service.dependencies.HostingClient.CreateRepository(executionContext, githubapi.CreateRepositoryOptions{
		Name:        repositoryName,
		Description: fmt.Sprintf(repositoryDescriptionTemplateConstant, repositoryName),
		Private:     false,
		AutoInit:    false,
	})
	if creationError != nil {
		return githubapi.CreatedRepository{}, creationError
	}
	service.logger.Info(repositoryCreatedLogMessage, zap.String(repositoryLogFieldNameConstant, createdRepository.HTMLURL))

	if remoteError := service.dependencies.RepositoryManager.EnsureRemote(executionContext, repositoryPath, originRemoteNameConstant, createdRepository.CloneURL); remoteError != nil {
		return githubapi.CreatedRepository{}, remoteError
	}
	currentBranch, branchError := service.dependencies.RepositoryManager.GetCurrentBranch(executionContext, repositoryPath)
	if branchError != nil {
		return githubapi.CreatedRepository{}, branchError
	}
	if pushError := service.dependencies.RepositoryManager.PushBranch(executionContext, repositoryPath, originRemoteNameConstant, currentBranch); pushError != nil {
		return githubapi.CreatedRepository{}, pushError
	}
	return createdRepository, nil
}

func (service *Service) applyRepositoryPermissions(executionContext context.Context, repositoryFullName string, warnings *[]string) {
	if actionsError := service.dependencies.HostingClient.EnableRepositoryActions(executionContext, repositoryFullName); actionsError != nil {
		warningMessage := fmt.Sprintf(permissionsWarningTemplateConstant, actionsError)
		service.logger.Warn(warningMessage)
		*warnings = append(*warnings, warningMessage)
	}
	if workflowError := service.dependencies.HostingClient.SetWorkflowPermissions(executionContext, repositoryFullName); workflowError != nil {
		warningMessage := fmt.Sprintf(permissionsWarningTemplateConstant, workflowError)
		service.logger.Warn(warningMessage)
		*warnings = append(*warnings, warningMessage)
	}
}

func (service *Service) logStage(stageName string) {
	service.logger.Info(stageStartedLogMessageConstant, zap.String(stageLogFieldNameConstant, stageName))
}

func repositoryNameFromRemote(remoteURL string, fieldName string) (string, error) {
	parsedRemote, parseError := gitrepo.ParseRemoteURL(remoteURL)
	if parseError != nil {
		return "", ConfigurationError{FieldName: fieldName, Message: parseError.Error()}
	}
	return parsedRemote.Repository, nil
}

func validateConfiguration(configuration Configuration) error {
	requiredFields := []struct {
		fieldName string
		value     string
	}{
		{fieldName: tokenFieldNameConstant, value: configuration.GitHubToken},
		{fieldName: usernameFieldNameConstant, value: configuration.GitHubUsername},
		{fieldName: serverAddressFieldNameConstant, value: configuration.ServerAddress},
		{fieldName: publicKeyFieldNameConstant, value: configuration.PublicKey},
	}
	for _, requiredField := range requiredFields {
		if len(requiredField.value) == 0 {
			return ConfigurationError{FieldName: requiredField.fieldName, Message: requiredValueMessageConstant}
		}
	}
	return nil
}

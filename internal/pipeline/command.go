package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Jiang1756/Rustdesk-builde/internal/execshell"
	"github.com/Jiang1756/Rustdesk-builde/internal/githubapi"
	"github.com/Jiang1756/Rustdesk-builde/internal/gitrepo"
	"github.com/Jiang1756/Rustdesk-builde/internal/patch"
	"github.com/Jiang1756/Rustdesk-builde/internal/release"
	"github.com/Jiang1756/Rustdesk-builde/internal/submodule"
	"github.com/Jiang1756/Rustdesk-builde/internal/ui"
	"github.com/Jiang1756/Rustdesk-builde/internal/utils"
	"github.com/Jiang1756/Rustdesk-builde/internal/workspace"
)

const (
	buildCommandUseConstant                 = "build"
	buildCommandShortDescriptionConstant    = "Publish a customized RustDesk build"
	buildCommandLongDescriptionConstant     = "build clones the upstream repositories, rewrites the embedded server settings, republishes both repositories under timestamped names, and pushes the tag that triggers the hosted build."
	unexpectedArgumentsErrorMessageConstant = "build does not accept positional arguments"
	commandExecutionErrorTemplateConstant   = "build failed: %w"
	serverAddressFlagNameConstant           = "server-address"
	serverAddressFlagDescriptionConstant    = "Rendezvous server address baked into the build"
	publicKeyFlagNameConstant               = "public-key"
	publicKeyFlagDescriptionConstant        = "Server public key baked into the build"
	usernameFlagNameConstant                = "github-username"
	usernameFlagDescriptionConstant         = "GitHub account that owns the published repositories"
	workspaceRootFlagNameConstant           = "workspace-root"
	workspaceRootFlagDescriptionConstant    = "Local directory used for cloning and patching"

	libraryURLOutputTemplateConstant     = "Library repository: %s\n"
	applicationURLOutputTemplateConstant = "Application repository: %s\n"
	tagOutputTemplateConstant            = "Release tag: %s\n"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current build configuration.
type ConfigurationProvider func() Configuration

// HumanReadableLoggingProvider reports whether console-style command event logging is active.
type HumanReadableLoggingProvider func() bool

// PipelineExecutor runs the full build pipeline.
type PipelineExecutor interface {
	Execute(executionContext context.Context) (Result, error)
}

// ServiceResolver creates pipeline executors for the command.
type ServiceResolver interface {
	Resolve(logger *zap.Logger, configuration Configuration) (PipelineExecutor, error)
}

// CommandBuilder assembles the build command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	HumanReadableLoggingProvider HumanReadableLoggingProvider
	ServiceResolver              ServiceResolver
}

// Build constructs the build command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	buildCommand := &cobra.Command{
		Use:   buildCommandUseConstant,
		Short: buildCommandShortDescriptionConstant,
		Long:  buildCommandLongDescriptionConstant,
		RunE:  builder.runBuild,
	}

	buildCommand.Flags().String(serverAddressFlagNameConstant, "", serverAddressFlagDescriptionConstant)
	buildCommand.Flags().String(publicKeyFlagNameConstant, "", publicKeyFlagDescriptionConstant)
	buildCommand.Flags().String(usernameFlagNameConstant, "", usernameFlagDescriptionConstant)
	buildCommand.Flags().String(workspaceRootFlagNameConstant, "", workspaceRootFlagDescriptionConstant)

	return buildCommand, nil
}

func (builder *CommandBuilder) runBuild(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errors.New(unexpectedArgumentsErrorMessageConstant)
	}

	configuration, configurationError := builder.parseConfiguration(command)
	if configurationError != nil {
		return configurationError
	}

	logger := builder.resolveLogger()
	pipelineService, serviceError := builder.resolveService(logger, configuration)
	if serviceError != nil {
		return serviceError
	}

	executionResult, executionError := pipelineService.Execute(command.Context())
	if executionError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, executionError)
	}

	fmt.Fprintf(command.OutOrStdout(), libraryURLOutputTemplateConstant, executionResult.LibraryRepositoryURL)
	fmt.Fprintf(command.OutOrStdout(), applicationURLOutputTemplateConstant, executionResult.ApplicationRepositoryURL)
	fmt.Fprintf(command.OutOrStdout(), tagOutputTemplateConstant, executionResult.TagName)

	return nil
}

func (builder *CommandBuilder) parseConfiguration(command *cobra.Command) (Configuration, error) {
	configuration := DefaultConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	flagOverrides := []struct {
		flagName string
		target   *string
	}{
		{flagName: serverAddressFlagNameConstant, target: &configuration.ServerAddress},
		{flagName: publicKeyFlagNameConstant, target: &configuration.PublicKey},
		{flagName: usernameFlagNameConstant, target: &configuration.GitHubUsername},
		{flagName: workspaceRootFlagNameConstant, target: &configuration.WorkspaceRoot},
	}
	for _, flagOverride := range flagOverrides {
		flagValue, flagError := command.Flags().GetString(flagOverride.flagName)
		if flagError != nil {
			return Configuration{}, flagError
		}
		trimmedFlagValue := strings.TrimSpace(flagValue)
		if len(trimmedFlagValue) > 0 {
			*flagOverride.target = trimmedFlagValue
		}
	}

	return configuration.Sanitize(), nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) resolveService(logger *zap.Logger, configuration Configuration) (PipelineExecutor, error) {
	if builder.ServiceResolver != nil {
		return builder.ServiceResolver.Resolve(logger, configuration)
	}

	defaultResolver := &DefaultServiceResolver{
		HumanReadableLoggingProvider: builder.HumanReadableLoggingProvider,
	}
	return defaultResolver.Resolve(logger, configuration)
}

// DefaultServiceResolver wires the production collaborators for the pipeline.
type DefaultServiceResolver struct {
	HumanReadableLoggingProvider HumanReadableLoggingProvider
}

// Resolve constructs a pipeline service backed by the shell git executor and
// the GitHub REST client.
func (resolver *DefaultServiceResolver) Resolve(logger *zap.Logger, configuration Configuration) (PipelineExecutor, error) {
	configuration = configuration.Sanitize()
	if validationError := validateConfiguration(configuration); validationError != nil {
		return nil, validationError
	}

	commandObservers := []execshell.CommandEventObserver{}
	if resolver.HumanReadableLoggingProvider != nil && resolver.HumanReadableLoggingProvider() {
		commandObservers = append(commandObservers, ui.NewConsoleCommandEventLogger(logger))
	}

	shellExecutor, executorError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), commandObservers...)
	if executorError != nil {
		return nil, executorError
	}
	repositoryManager, repositoryManagerError := gitrepo.NewRepositoryManager(logger, shellExecutor)
	if repositoryManagerError != nil {
		return nil, repositoryManagerError
	}
	workspaceManager, workspaceManagerError := workspace.NewManager(logger, workspace.OSFileSystem{})
	if workspaceManagerError != nil {
		return nil, workspaceManagerError
	}
	hostingClient, hostingClientError := githubapi.NewRepositoryService(logger, githubapi.NewHTTPClient(), githubapi.ServiceConfiguration{
		AccessToken: configuration.GitHubToken,
	})
	if hostingClientError != nil {
		return nil, hostingClientError
	}
	submoduleRewirer, rewirerError := submodule.NewRewirer(logger, repositoryManager)
	if rewirerError != nil {
		return nil, rewirerError
	}
	releaseTrigger, triggerError := release.NewTrigger(logger, repositoryManager, utils.SystemClock{})
	if triggerError != nil {
		return nil, triggerError
	}

	return NewService(ServiceDependencies{
		Logger:            logger,
		WorkspaceManager:  workspaceManager,
		RepositoryManager: repositoryManager,
		SourceRewriter:    patch.NewFileRewriter(logger),
		HostingClient:     hostingClient,
		SubmoduleRewirer:  submoduleRewirer,
		ReleaseTrigger:    releaseTrigger,
		Clock:             utils.SystemClock{},
	}, configuration)
}

package cleanup

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Jiang1756/Rustdesk-builde/internal/githubapi"
	"github.com/Jiang1756/Rustdesk-builde/internal/utils/flags"
)

const (
	cleanupCommandUseConstant               = "cleanup"
	cleanupCommandShortDescriptionConstant  = "Delete generated repositories in bulk"
	cleanupCommandLongDescriptionConstant   = "cleanup lists the authenticated user's repositories, filters them against safe lists and delete patterns, and removes the matches after confirmation. Dry-run is the default."
	unexpectedArgumentsErrorMessageConstant = "cleanup does not accept positional arguments"
	commandExecutionErrorTemplateConstant   = "cleanup failed: %w"
	dryRunFlagNameConstant                  = "dry-run"
	dryRunFlagDescriptionConstant           = "Preview deletions without calling the API"
	modeFlagNameConstant                    = "mode"
	modeFlagDescriptionConstant             = "Confirmation mode"
)

var modeChoiceValues = []string{string(ModeBatch), string(ModeIndex), string(ModeEach)}

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current cleanup configuration.
type ConfigurationProvider func() Configuration

// CleanupExecutor runs the repository cleanup flow.
type CleanupExecutor interface {
	Execute(executionContext context.Context, mode Mode) (Summary, error)
}

// ServiceResolver creates cleanup executors for the command.
type ServiceResolver interface {
	Resolve(logger *zap.Logger, configuration Configuration, command *cobra.Command) (CleanupExecutor, error)
}

// CommandBuilder assembles the cleanup command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	ServiceResolver       ServiceResolver
}

// Build constructs the cleanup command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	cleanupCommand := &cobra.Command{
		Use:   cleanupCommandUseConstant,
		Short: cleanupCommandShortDescriptionConstant,
		Long:  cleanupCommandLongDescriptionConstant,
	}

	dryRunFlagTarget := new(bool)
	flags.AddToggleFlag(cleanupCommand.Flags(), dryRunFlagTarget, dryRunFlagNameConstant, "", true, dryRunFlagDescriptionConstant)
	cleanupCommand.Flags().String(modeFlagNameConstant, "", flags.FormatChoiceUsage(string(ModeBatch), modeChoiceValues, modeFlagDescriptionConstant))

	cleanupCommand.RunE = func(command *cobra.Command, arguments []string) error {
		return builder.runCleanup(command, arguments, *dryRunFlagTarget)
	}

	return cleanupCommand, nil
}

func (builder *CommandBuilder) runCleanup(command *cobra.Command, arguments []string, dryRunFlagValue bool) error {
	if len(arguments) > 0 {
		return errors.New(unexpectedArgumentsErrorMessageConstant)
	}

	configuration := DefaultConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	if command.Flags().Changed(dryRunFlagNameConstant) {
		configuration.DryRun = dryRunFlagValue
	}
	configuration = configuration.Sanitize()

	modeFlagValue, modeFlagError := command.Flags().GetString(modeFlagNameConstant)
	if modeFlagError != nil {
		return modeFlagError
	}
	requestedMode, modeParseError := ParseMode(modeFlagValue)
	if modeParseError != nil {
		return modeParseError
	}

	logger := builder.resolveLogger()
	cleanupService, serviceError := builder.resolveService(logger, configuration, command)
	if serviceError != nil {
		return serviceError
	}

	if _, executionError := cleanupService.Execute(command.Context(), requestedMode); executionError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, executionError)
	}
	return nil
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

func (builder *CommandBuilder) resolveService(logger *zap.Logger, configuration Configuration, command *cobra.Command) (CleanupExecutor, error) {
	if builder.ServiceResolver != nil {
		return builder.ServiceResolver.Resolve(logger, configuration, command)
	}

	hostingClient, hostingClientError := githubapi.NewRepositoryService(logger, githubapi.NewHTTPClient(), githubapi.ServiceConfiguration{
		AccessToken: configuration.GitHubToken,
	})
	if hostingClientError != nil {
		return nil, hostingClientError
	}

	return NewService(ServiceDependencies{
		Logger:        logger,
		HostingClient: hostingClient,
		Prompter:      NewIOPrompter(command.InOrStdin(), command.OutOrStdout()),
		Output:        command.OutOrStdout(),
	}, configuration)
}

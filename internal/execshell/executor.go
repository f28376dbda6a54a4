package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	commandStartedLogMessageConstant         = "shell command started"
	commandCompletedLogMessageConstant       = "shell command completed"
	commandFailedLogMessageConstant          = "shell command failed"
	commandExecutionFailedLogMessageConstant = "shell command execution failed"
	commandLogFieldNameConstant              = "command"
	argumentsLogFieldNameConstant            = "arguments"
	workingDirectoryLogFieldNameConstant     = "working_directory"
	exitCodeLogFieldNameConstant             = "exit_code"
	standardErrorLogFieldNameConstant        = "standard_error"
	commandFailedErrorTemplateConstant       = "%s exited with code %d"
	commandFailedWithOutputTemplateConstant  = "%s exited with code %d: %s"
	commandExecutionErrorTemplateConstant    = "%s execution failed: %v"
	commandLabelJoinSeparatorConstant        = " "
)

// Sentinel errors reported when the executor is constructed without required collaborators.
var (
	// ErrLoggerNotConfigured indicates the executor was constructed without a logger.
	ErrLoggerNotConfigured = errors.New("shell executor requires a logger")
	// ErrCommandRunnerNotConfigured indicates the executor was constructed without a command runner.
	ErrCommandRunnerNotConfigured = errors.New("shell executor requires a command runner")
)

// CommandName identifies an executable invoked through the shell executor.
type CommandName string

// Executables supported by the executor.
const (
	// CommandGit identifies the git executable.
	CommandGit CommandName = "git"
)

// CommandDetails captures the arguments and execution environment for a command.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand couples an executable name with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the outputs of a completed command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner executes shell commands and reports their results.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandFailedError reports a command that completed with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command including trimmed standard error output when present.
func (failure CommandFailedError) Error() string {
	commandLabel := describeShellCommand(failure.Command)
	trimmedStandardError := strings.TrimSpace(failure.Result.StandardError)
	if len(trimmedStandardError) == 0 {
		return fmt.Sprintf(commandFailedErrorTemplateConstant, commandLabel, failure.Result.ExitCode)
	}
	return fmt.Sprintf(commandFailedWithOutputTemplateConstant, commandLabel, failure.Result.ExitCode, trimmedStandardError)
}

// CommandExecutionError reports a command that could not be executed at all.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, describeShellCommand(failure.Command), failure.Cause)
}

// Unwrap exposes the underlying cause for errors.Is and errors.As interrogation.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

// ShellExecutor runs shell commands with structured logging and lifecycle notifications.
type ShellExecutor struct {
	logger         *zap.Logger
	commandRunner  CommandRunner
	eventObservers []CommandEventObserver
}

// NewShellExecutor validates collaborators and constructs a ShellExecutor.
// Optional event observers receive lifecycle notifications alongside the structured logs.
func NewShellExecutor(logger *zap.Logger, commandRunner CommandRunner, eventObservers ...CommandEventObserver) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if commandRunner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	registeredObservers := make([]CommandEventObserver, 0, len(eventObservers))
	for _, eventObserver := range eventObservers {
		if eventObserver == nil {
			continue
		}
		registeredObservers = append(registeredObservers, eventObserver)
	}

	return &ShellExecutor{logger: logger, commandRunner: commandRunner, eventObservers: registeredObservers}, nil
}

// ExecuteGit runs the git executable with the provided details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

// Execute runs the supplied command, logging exactly one start entry and one completion entry.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executor.logger.Debug(commandStartedLogMessageConstant, commandLogFields(command)...)
	executor.notifyCommandStarted(command)

	executionResult, runError := executor.commandRunner.Run(executionContext, command)
	if runError != nil {
		executor.logger.Error(commandExecutionFailedLogMessageConstant, append(commandLogFields(command), zap.Error(runError))...)
		executor.notifyCommandExecutionFailed(command, runError)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	if executionResult.ExitCode != 0 {
		executor.logger.Warn(
			commandFailedLogMessageConstant,
			append(
				commandLogFields(command),
				zap.Int(exitCodeLogFieldNameConstant, executionResult.ExitCode),
				zap.String(standardErrorLogFieldNameConstant, strings.TrimSpace(executionResult.StandardError)),
			)...,
		)
		executor.notifyCommandCompleted(command, executionResult)
		return executionResult, CommandFailedError{Command: command, Result: executionResult}
	}

	executor.logger.Debug(
		commandCompletedLogMessageConstant,
		append(commandLogFields(command), zap.Int(exitCodeLogFieldNameConstant, executionResult.ExitCode))...,
	)
	executor.notifyCommandCompleted(command, executionResult)
	return executionResult, nil
}

func (executor *ShellExecutor) notifyCommandStarted(command ShellCommand) {
	for _, eventObserver := range executor.eventObservers {
		eventObserver.CommandStarted(command)
	}
}

func (executor *ShellExecutor) notifyCommandCompleted(command ShellCommand, result ExecutionResult) {
	for _, eventObserver := range executor.eventObservers {
		eventObserver.CommandCompleted(command, result)
	}
}

func (executor *ShellExecutor) notifyCommandExecutionFailed(command ShellCommand, failure error) {
	for _, eventObserver := range executor.eventObservers {
		eventObserver.CommandExecutionFailed(command, failure)
	}
}

func commandLogFields(command ShellCommand) []zap.Field {
	return []zap.Field{
		zap.String(commandLogFieldNameConstant, string(command.Name)),
		zap.Strings(argumentsLogFieldNameConstant, command.Details.Arguments),
		zap.String(workingDirectoryLogFieldNameConstant, command.Details.WorkingDirectory),
	}
}

func describeShellCommand(command ShellCommand) string {
	commandParts := append([]string{string(command.Name)}, command.Details.Arguments...)
	return strings.Join(commandParts, commandLabelJoinSeparatorConstant)
}

package gitrepo

import "fmt"

const (
	repositoryPathFieldNameConstant  = "repository_path"
	remoteNameFieldNameConstant      = "remote_name"
	remoteURLFieldNameConstant       = "remote_url"
	destinationPathFieldNameConstant = "destination_path"
	commitMessageFieldNameConstant   = "commit_message"
	branchNameFieldNameConstant      = "branch_name"
	tagNameFieldNameConstant         = "tag_name"
	tagMessageFieldNameConstant      = "tag_message"
	submoduleURLFieldNameConstant    = "submodule_url"
	submodulePathFieldNameConstant   = "submodule_path"
	userNameFieldNameConstant        = "user_name"
	userEmailFieldNameConstant       = "user_email"

	invalidInputErrorTemplateConstant  = "%s: %s"
	operationErrorTemplateConstant     = "%s operation failed: %s"
	operationErrorBareTemplateConstant = "%s operation failed"
)

// OperationName describes a named git workflow supported by the repository manager.
type OperationName string

// InvalidInputError surfaces validation issues for repository operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps git execution failures for repository operations.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorBareTemplateConstant, operationError.Operation)
	}
	return fmt.Sprintf(operationErrorTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

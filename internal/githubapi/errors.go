package githubapi

import (
	"errors"
	"fmt"
)

const (
	operationErrorMessageTemplateConstant   = "%s operation failed"
	operationErrorWithCauseTemplateConstant = "%s operation failed: %s"
	responseDecodingErrorTemplateConstant   = "%s response decoding failed: %s"
	payloadEncodingErrorTemplateConstant    = "%s payload encoding failed: %s"
	invalidInputErrorTemplateConstant       = "%s: %s"
	statusErrorTemplateConstant             = "%s %s returned status %d"
	statusErrorWithBodyTemplateConstant     = "%s %s returned status %d: %s"
)

// Sentinel errors reported when the service is constructed without required collaborators.
var (
	// ErrLoggerNotConfigured indicates the service was constructed without a logger.
	ErrLoggerNotConfigured = errors.New("github api service requires a logger")
	// ErrHTTPClientNotConfigured indicates the service was constructed without an HTTP client.
	ErrHTTPClientNotConfigured = errors.New("github api service requires an http client")
	// ErrAccessTokenNotConfigured indicates the service was constructed without an access token.
	ErrAccessTokenNotConfigured = errors.New("github api service requires an access token")
)

// OperationName describes a named GitHub REST workflow supported by the service.
type OperationName string

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps transport failures for GitHub REST operations.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorMessageTemplateConstant, operationError.Operation)
	}
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// APIStatusError reports a response whose status code did not match the operation's expectations.
// It preserves the request method, URL, status code, and response body for diagnostics.
type APIStatusError struct {
	Operation    OperationName
	Method       string
	RequestURL   string
	StatusCode   int
	ResponseBody string
}

// Error describes the unexpected status including the response body when present.
func (statusError APIStatusError) Error() string {
	if len(statusError.ResponseBody) == 0 {
		return fmt.Sprintf(statusErrorTemplateConstant, statusError.Method, statusError.RequestURL, statusError.StatusCode)
	}
	return fmt.Sprintf(statusErrorWithBodyTemplateConstant, statusError.Method, statusError.RequestURL, statusError.StatusCode, statusError.ResponseBody)
}

// ResponseDecodingError indicates JSON decoding failures.
type ResponseDecodingError struct {
	Operation OperationName
	Cause     error
}

// Error describes the decoding failure.
func (decodingError ResponseDecodingError) Error() string {
	return fmt.Sprintf(responseDecodingErrorTemplateConstant, decodingError.Operation, decodingError.Cause)
}

// Unwrap exposes the underlying JSON error.
func (decodingError ResponseDecodingError) Unwrap() error {
	return decodingError.Cause
}

// PayloadEncodingError indicates JSON encoding issues.
type PayloadEncodingError struct {
	Operation OperationName
	Cause     error
}

// Error describes the encoding failure.
func (encodingError PayloadEncodingError) Error() string {
	return fmt.Sprintf(payloadEncodingErrorTemplateConstant, encodingError.Operation, encodingError.Cause)
}

// Unwrap exposes the underlying error.
func (encodingError PayloadEncodingError) Unwrap() error {
	return encodingError.Cause
}

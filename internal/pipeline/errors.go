package pipeline

import "fmt"

const (
	configurationErrorTemplateConstant = "pipeline configuration %s: %s"
	stageErrorTemplateConstant         = "stage %s: %v"
)

// ConfigurationError reports a missing or invalid pipeline setting detected
// before any collaborator is invoked.
type ConfigurationError struct {
	FieldName string
	Message   string
}

// Error describes the configuration failure.
func (configurationError ConfigurationError) Error() string {
	return fmt.Sprintf(configurationErrorTemplateConstant, configurationError.FieldName, configurationError.Message)
}

// StageError wraps a fatal failure with the name of the pipeline stage that
// produced it.
type StageError struct {
	StageName string
	Cause     error
}

// Error describes the failed stage.
func (stageError StageError) Error() string {
	return fmt.Sprintf(stageErrorTemplateConstant, stageError.StageName, stageError.Cause)
}

// Unwrap exposes the underlying failure.
func (stageError StageError) Unwrap() error {
	return stageError.Cause
}

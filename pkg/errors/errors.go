package errors

import (
	"errors"
)

// Standard error kinds for the pipeline
var (
	ErrConfig = errors.New("configuration error")
	ErrIO     = errors.New("io error")
	ErrSchema = errors.New("schema error")
)

// PipelineError represents a structured pipeline error with context
type PipelineError struct {
	Err     error
	Stage   string
	Message string
	Context map[string]interface{}
}

// Error returns the error message
func (e *PipelineError) Error() string {
	msg := e.Err.Error()

	if e.Message != "" {
		msg = msg + ": " + e.Message
	}

	if e.Stage != "" {
		msg = e.Stage + ": " + msg
	}

	return msg
}

// Unwrap returns the underlying error
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// WithContext adds additional context to the error
func (e *PipelineError) WithContext(key string, value interface{}) *PipelineError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithCause records the underlying cause in the error context
func (e *PipelineError) WithCause(cause error) *PipelineError {
	if cause != nil {
		return e.WithContext("cause", cause.Error())
	}
	return e
}

// NewPipelineError creates a new PipelineError with the given parameters
func NewPipelineError(err error, stage string, message string) *PipelineError {
	return &PipelineError{
		Err:     err,
		Stage:   stage,
		Message: message,
		Context: make(map[string]interface{}),
	}
}

// NewConfigError creates a configuration error
func NewConfigError(stage string, message string) *PipelineError {
	return NewPipelineError(ErrConfig, stage, message)
}

// NewIOError creates an io error
func NewIOError(stage string, message string) *PipelineError {
	return NewPipelineError(ErrIO, stage, message)
}

// NewSchemaError creates a schema error
func NewSchemaError(stage string, message string) *PipelineError {
	return NewPipelineError(ErrSchema, stage, message)
}

// IsConfigError checks if the error is a configuration error
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfig)
}

// IsIOError checks if the error is an io error
func IsIOError(err error) bool {
	return errors.Is(err, ErrIO)
}

// IsSchemaError checks if the error is a schema error
func IsSchemaError(err error) bool {
	return errors.Is(err, ErrSchema)
}

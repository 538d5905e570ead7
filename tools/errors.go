package tools

import (
	"errors"
	"fmt"

	"github.com/torre76/mediamcp/ffmpeg"
)

// Public types (alphabetical)

// CapabilityError reports a requested hardware feature that the FFmpeg
// binary does not provide. It is raised before any encode is launched.
type CapabilityError struct {
	// Feature is the human-readable name of the missing capability.
	Feature string
}

// ExecutionError reports a process that ran and exited non-zero.
type ExecutionError struct {
	// Step names the failed step in reports ("Compression", "Palette generation").
	Step string
	// Result holds the captured streams; Stderr is the diagnostic payload.
	Result ffmpeg.Result
}

// UnexpectedError wraps any failure outside the other categories, such as
// filesystem errors while preparing or measuring artifacts.
type UnexpectedError struct {
	Err error
}

// ValidationError reports a precondition that failed before anything ran.
type ValidationError struct {
	Message string
}

// Public constants (alphabetical)

// Outcome labels attached to tool call metrics and logs.
const (
	OutcomeCapability = "capability"
	OutcomeExecution  = "execution"
	OutcomeLaunch     = "launch"
	OutcomeSuccess    = "success"
	OutcomeUnexpected = "unexpected"
	OutcomeValidation = "validation"
)

// Private functions (alphabetical)

// invalidGraph turns a rejected filter graph into a validation failure.
func invalidGraph(err error) error {
	return &ValidationError{Message: err.Error()}
}

// missingFile builds the validation error for an absent input.
func missingFile(kind, path string) error {
	return &ValidationError{Message: fmt.Sprintf("%s does not exist - %s", kind, path)}
}

// unexpected wraps err unless it already belongs to the taxonomy.
func unexpected(err error) error {
	if err == nil || Outcome(err) != OutcomeUnexpected {
		return err
	}
	var u *UnexpectedError
	if errors.As(err, &u) {
		return err
	}
	return &UnexpectedError{Err: err}
}

// validationf builds a ValidationError from a format string.
func validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Public functions (alphabetical)

// Outcome classifies err into one of the Outcome labels. A nil error is a success.
func Outcome(err error) string {
	var (
		validation *ValidationError
		capability *CapabilityError
		launch     *ffmpeg.LaunchError
		execution  *ExecutionError
	)
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.As(err, &validation):
		return OutcomeValidation
	case errors.As(err, &capability):
		return OutcomeCapability
	case errors.As(err, &launch):
		return OutcomeLaunch
	case errors.As(err, &execution):
		return OutcomeExecution
	default:
		return OutcomeUnexpected
	}
}

// Report renders err as the text returned to the caller in place of a
// success report.
func Report(err error) string {
	var (
		validation *ValidationError
		capability *CapabilityError
		launch     *ffmpeg.LaunchError
		execution  *ExecutionError
	)
	switch {
	case errors.As(err, &validation):
		return "Error: " + validation.Message
	case errors.As(err, &capability):
		return "Error: " + capability.Error()
	case errors.As(err, &launch):
		return fmt.Sprintf("Error: could not start %s: %v", launch.Program, launch.Err)
	case errors.As(err, &execution):
		return execution.Error()
	default:
		return "An error occurred: " + err.Error()
	}
}

// Public methods (alphabetical)

// Error implements error.
func (e *CapabilityError) Error() string {
	return "the system does not support " + e.Feature
}

// Error implements error. The captured stderr is included verbatim.
func (e *ExecutionError) Error() string {
	return e.Step + " failed: " + e.Result.Stderr
}

// Error implements error.
func (e *UnexpectedError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *UnexpectedError) Unwrap() error {
	return e.Err
}

// Error implements error.
func (e *ValidationError) Error() string {
	return e.Message
}

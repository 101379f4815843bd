// Package apperr defines the error taxonomy shared by the gptkit commands
// and maps it onto process exit codes.
package apperr

import (
	"errors"
	"fmt"
)

// Exit codes returned by the commands.
const (
	// ExitSuccess indicates the run completed.
	ExitSuccess = 0

	// ExitFailure indicates a remote call, a malformed response or any other
	// runtime failure aborted the run.
	ExitFailure = 1

	// ExitConfigError indicates the run could not start: a missing credential,
	// a missing input file, invalid configuration or a cancelled prompt.
	ExitConfigError = 2
)

var (
	// ErrMissingCredential is returned when the provider needs an API key and none is configured.
	ErrMissingCredential = errors.New("missing API key")

	// ErrMissingInput is returned when a referenced input file does not exist.
	ErrMissingInput = errors.New("input not found")

	// ErrMalformedResponse is returned when a structured model response cannot be decoded.
	ErrMalformedResponse = errors.New("malformed model response")

	// ErrInvalidConfig is returned when the configuration fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrCancelled is returned when the user aborts an interactive prompt.
	ErrCancelled = errors.New("cancelled")

	// ErrUsage is returned for bad command-line flags or arguments.
	ErrUsage = errors.New("invalid usage")
)

// Stage names the step of a run at which a remote call failed.
type Stage string

const (
	StageClassification Stage = "classification"
	StageTranscription  Stage = "transcription"
	StageSummarization  Stage = "summarization"
	StageAnalysis       Stage = "analysis"
	StageReport         Stage = "report"
)

// StageError wraps a failure with the stage it occurred in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError wraps err with stage. A nil err yields nil.
func NewStageError(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}

// StageOf reports the stage recorded anywhere in err's chain.
func StageOf(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}

// Malformed wraps a decode failure as ErrMalformedResponse, keeping the cause.
func Malformed(err error) error {
	return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
}

// ExitCode maps err to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrMissingCredential),
		errors.Is(err, ErrMissingInput),
		errors.Is(err, ErrInvalidConfig),
		errors.Is(err, ErrCancelled),
		errors.Is(err, ErrUsage):
		return ExitConfigError
	default:
		return ExitFailure
	}
}

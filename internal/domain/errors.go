package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrGatewayUnavailable is returned by a gateway running without credentials.
	ErrGatewayUnavailable = errors.New("llm gateway unavailable")
	// ErrInvalidCompletion rejects completions with empty prompts.
	ErrInvalidCompletion = errors.New("invalid completion request")
	// ErrResponseUnparseable marks LLM output that does not match the expected structure.
	ErrResponseUnparseable = errors.New("llm response unparseable")
	// ErrInvalidProfile is returned before the pipeline starts when the profile fails validation.
	ErrInvalidProfile = errors.New("invalid student profile")
)

// GatewayRequestError reports a transport failure or a non-2xx upstream answer.
// Status is zero when no HTTP response was received.
type GatewayRequestError struct {
	Status  int
	Message string
}

func (e *GatewayRequestError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("llm request failed: %s", e.Message)
	}
	return fmt.Sprintf("llm request failed (status %d): %s", e.Status, e.Message)
}

// StageError is a non-recoverable failure inside a pipeline stage.
// Step holds the last step that completed successfully.
type StageError struct {
	Stage string
	Step  Step
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline stage %s failed after %s: %v", e.Stage, e.Step, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

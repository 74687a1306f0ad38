package dynamo

import "errors"

// Domain errors. Physics itself never fails; these come from the tooling around it.
var (
	// ErrUnknownIntegrator indicates a stepper name with no registered implementation.
	ErrUnknownIntegrator = errors.New("dynamo: unknown integrator")

	// ErrInvalidConfig indicates engine settings that cannot drive a loop.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrRunNotFound indicates a run id with no stored metadata.
	ErrRunNotFound = errors.New("dynamo: run not found")

	// ErrEmptyHistory indicates an analysis over too few samples.
	ErrEmptyHistory = errors.New("dynamo: not enough history samples")

	// ErrFrameSourceUnavailable indicates the per-frame scheduler could not be registered.
	ErrFrameSourceUnavailable = errors.New("dynamo: frame source unavailable")

	// ErrLoopClosed indicates a command sent to a loop that has stopped running.
	ErrLoopClosed = errors.New("dynamo: loop closed")
)

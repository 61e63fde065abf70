package domain

import "go.trai.ch/zerr"

var (
	// ErrConfig is returned when the configuration is invalid or is replaced after tasks were registered.
	ErrConfig = zerr.New("invalid configuration")

	// ErrConfigNotFound is returned when no pipeline file exists in the searched directory.
	ErrConfigNotFound = zerr.New("config file not found")

	// ErrUnresolvedArtifactType is returned when a datatype has neither a registered
	// artifact type nor a self-described one.
	ErrUnresolvedArtifactType = zerr.New("cannot determine artifact type for datatype")

	// ErrOutputCollision is returned when a task derives an output path that another task already owns.
	ErrOutputCollision = zerr.New("output path already owned by another task")

	// ErrTaskValidation is returned when a task definition cannot be bound at registration time.
	ErrTaskValidation = zerr.New("invalid task definition")

	// ErrTaskExecutionFailed is returned when a task function fails during a run.
	ErrTaskExecutionFailed = zerr.New("task execution failed")

	// ErrBuildExecutionFailed is returned when a pipeline run finishes with failed tasks.
	ErrBuildExecutionFailed = zerr.New("pipeline execution failed")

	// ErrTaskNotFound is returned when a requested task is not found in the pipeline.
	ErrTaskNotFound = zerr.New("task not found")

	// ErrInputNotFound is returned when an input pattern matches no files.
	ErrInputNotFound = zerr.New("input not found")

	// ErrRead is returned when an artifact is missing or its contents cannot be decoded.
	ErrRead = zerr.New("failed to read artifact")

	// ErrWrite is returned when an artifact cannot be encoded or persisted.
	ErrWrite = zerr.New("failed to write artifact")

	// ErrArtifactTypeMismatch is returned when an artifact handle does not hold the requested value type.
	ErrArtifactTypeMismatch = zerr.New("artifact holds a different value type")
)

// Because returns an error that reads "sentinel: cause" and matches both with errors.Is.
func Because(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return &causedError{sentinel: sentinel, cause: cause}
}

type causedError struct {
	sentinel error
	cause    error
}

func (e *causedError) Error() string {
	return e.sentinel.Error() + ": " + e.cause.Error()
}

func (e *causedError) Unwrap() []error {
	return []error{e.sentinel, e.cause}
}

package domain

import "strings"

// TaskStatus represents the lifecycle state of a task within a pipeline run.
type TaskStatus string

const (
	// TaskStatusPending indicates the task has been registered but not run yet.
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusRunning indicates the task function is currently being invoked.
	TaskStatusRunning TaskStatus = "running"
	// TaskStatusCompleted indicates the task function returned successfully.
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusSkipped indicates every output artifact already existed, so the function was not invoked.
	TaskStatusSkipped TaskStatus = "skipped"
	// TaskStatusFailed indicates the task function failed and its outputs were cleaned up.
	TaskStatusFailed TaskStatus = "failed"
)

// IsTerminal reports whether the status ends a task's lifecycle for the current run.
func (s TaskStatus) IsTerminal() bool {
	switch s {
	case TaskStatusCompleted, TaskStatusSkipped, TaskStatusFailed:
		return true
	default:
		return false
	}
}

// ParseTaskStatus converts a string to a TaskStatus, ignoring case.
// Unknown values map to TaskStatusPending.
func ParseTaskStatus(s string) TaskStatus {
	switch TaskStatus(strings.ToLower(s)) {
	case TaskStatusRunning:
		return TaskStatusRunning
	case TaskStatusCompleted:
		return TaskStatusCompleted
	case TaskStatusSkipped:
		return TaskStatusSkipped
	case TaskStatusFailed:
		return TaskStatusFailed
	default:
		return TaskStatusPending
	}
}

// LogLevel represents the severity of a log message, mirroring the standard slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

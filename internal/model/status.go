package model

// TaskStatus represents the phase of the current interactive session
type TaskStatus string

const (
	// TaskStatusPending means nothing has been fetched yet
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusFetching means a URL is being resolved
	TaskStatusFetching TaskStatus = "Fetching"

	// TaskStatusReady means a target is resolved and options can be chosen
	TaskStatusReady TaskStatus = "Ready"

	// TaskStatusDownloading means a transfer is in progress
	TaskStatusDownloading TaskStatus = "Downloading"

	// TaskStatusCompleted means the last download finished successfully
	TaskStatusCompleted TaskStatus = "Completed"

	// TaskStatusError means the last operation failed
	TaskStatusError TaskStatus = "Error"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true while an operation is running
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusFetching || ts == TaskStatusDownloading
}

// IsFinished returns true if the last download reached a terminal state
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusError
}

// CanDownload returns true when a resolved target can be downloaded
func (ts TaskStatus) CanDownload() bool {
	return ts == TaskStatusReady || ts.IsFinished()
}

package node

// Status is the execution state of a node within a single pipeline run.
type Status int32

const (
	// StatusPending means the node has not been reached yet.
	StatusPending Status = iota
	// StatusRunning means the node is being processed.
	StatusRunning
	// StatusCompleted means the node produced (or wrote) its value.
	StatusCompleted
	// StatusFailed means the node's evaluation failed and aborted the run.
	StatusFailed
	// StatusSkipped means the run was aborted before reaching the node.
	StatusSkipped
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

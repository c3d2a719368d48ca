package core

type StatusType string

const (
	StatusPending  StatusType = "PENDING"
	StatusRunning  StatusType = "RUNNING"
	StatusSuccess  StatusType = "SUCCESS"
	StatusFailed   StatusType = "FAILED"
	StatusTimedOut StatusType = "TIMED_OUT"
	StatusCanceled StatusType = "CANCELED"
	StatusWaiting  StatusType = "WAITING"
	StatusPaused   StatusType = "PAUSED"
)

// IsTerminal reports whether no further transitions are expected.
func (s StatusType) IsTerminal() bool {
	switch s {
	case StatusSuccess, StatusFailed, StatusTimedOut, StatusCanceled:
		return true
	default:
		return false
	}
}

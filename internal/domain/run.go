package domain

import "time"

// TaskRun is one guarded execution of a unit of work. The unit of work is
// treated as atomic: it fully succeeds or fully aborts, and is invoked at
// most once.
type TaskRun struct {
	ID        string
	Task      TaskName
	Arg       string
	Status    RunStatus
	Result    *string
	Error     *string
	UpdatedAt time.Time
}

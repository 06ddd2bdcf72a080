package domain

import "time"

// PanicReport records a panic that was intercepted while executing a task
// run. Value is the rendered panic value, Stack the capture taken at the
// interception boundary.
type PanicReport struct {
	ID         int64
	RunID      string
	Task       TaskName
	Value      string
	Stack      string
	OccurredAt time.Time
}

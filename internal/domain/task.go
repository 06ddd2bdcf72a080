package domain

import "regexp"

// TaskName identifies a registered unit of work.
type TaskName string

var taskNameRe = regexp.MustCompile(`^[a-z][a-z0-9_-]{0,63}$`)

// ValidateTaskName checks the syntactic shape of a task name. Whether the
// name is actually registered is decided by the executor.
func ValidateTaskName(name string) bool {
	return taskNameRe.MatchString(name)
}

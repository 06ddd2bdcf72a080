package domain

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrUnknownTask = errors.New("unknown task")
)

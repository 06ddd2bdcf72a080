package application

import "errors"

// Service-level errors mapped to HTTP status codes by the transport layer.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrBadRequest = errors.New("bad request")
)

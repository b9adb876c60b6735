package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidLocation    = errors.New("invalid location")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ErrInvalidRecord wraps field level problems found by the services.
var ErrInvalidRecord = errors.New("invalid record")

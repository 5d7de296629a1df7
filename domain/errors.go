package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrNoKnownTasks = errors.New("none of the selected tasks is known")
)

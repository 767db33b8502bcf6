package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateID     = errors.New("duplicate id")
	ErrInvalidSnapshot = errors.New("invalid snapshot")
	ErrInvalidStatus   = errors.New("unknown evaluation status")
)

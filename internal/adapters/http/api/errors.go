package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest      = errors.New("bad request")
	ErrSchema          = errors.New("request does not match schema")
	ErrBodyTooLarge    = errors.New("request body too large")
	ErrMissingID       = errors.New("missing id in path")
	ErrUnsupportedPath = errors.New("unsupported path")
)

package levels

import "errors"

// Sentinel kinds for level configuration errors.
var (
	ErrEmptyConfig       = errors.New("level configuration must not be empty")
	ErrInvalidName       = errors.New("level name must not be empty")
	ErrDuplicateName     = errors.New("duplicate level name")
	ErrInvalidColor      = errors.New("level color must be a hex color")
	ErrInvalidScoreValue = errors.New("level score value must be finite")
	ErrSourceUnavailable = errors.New("level source unavailable")
)

package evaluation

import "errors"

// Sentinel kinds for rejected evaluations.
var (
	ErrMissingField         = errors.New("required field is missing")
	ErrUnknownEvaluatorType = errors.New("unknown evaluator type")
	ErrUnknownTargetType    = errors.New("unknown target type")
	ErrMissingRating        = errors.New("rating is required")
	ErrInvalidStars         = errors.New("star rating must be between 1 and 5")
	ErrInvalidLetter        = errors.New("hr rating must be A, B, C or D")
	ErrRatingOutOfRange     = errors.New("rating outside configured score range")
	ErrTargetNotAllowed     = errors.New("evaluator type may not rate this target")
	ErrAmbiguousRating      = errors.New("evaluation must carry exactly one rating on the evaluator's scale")
	ErrNotDraft             = errors.New("only draft evaluations can be submitted or deleted")
	ErrNotOwner             = errors.New("evaluation belongs to another evaluator")
)

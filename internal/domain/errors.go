package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrActivityNotFound signals a missing activity listing.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrMissingOrigin signals a proximity search requested without an origin point.
	ErrMissingOrigin = errors.New("proximity search requires an origin point")
	// ErrValidation signals a rejected request value.
	ErrValidation = errors.New("validation failed")
	// ErrForbidden signals a role check failure.
	ErrForbidden = errors.New("forbidden")
)

// KeyPrefix is the storage namespace for all discovery keys.
const KeyPrefix = "disco:"

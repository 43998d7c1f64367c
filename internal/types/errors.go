package types

import "errors"

var (
	// ErrMalformed is returned when a container or JSON document is structurally broken.
	ErrMalformed = errors.New("clearkey: malformed data")

	// ErrInvalid is returned when a well-formed unit fails a semantic check.
	ErrInvalid = errors.New("clearkey: invalid data")

	// ErrPrecondition is returned when the caller passed arguments that violate an operation's contract.
	ErrPrecondition = errors.New("clearkey: precondition violated")

	// ErrKeyNotFound is returned when no key is held for a key ID.
	ErrKeyNotFound = errors.New("clearkey: key not found")
)

// IsMalformed returns true if the error is or wraps ErrMalformed.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformed)
}

// IsInvalid returns true if the error is or wraps ErrInvalid.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalid)
}

// IsPrecondition returns true if the error is or wraps ErrPrecondition.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrPrecondition)
}

// IsKeyNotFound returns true if the error is or wraps ErrKeyNotFound.
func IsKeyNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFound)
}

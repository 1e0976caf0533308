package terceros

import "errors"

var (
	// ErrNotFound is returned by the repository when no row matches.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidID rejects identifiers that are not non-negative integers.
	ErrInvalidID = errors.New("invalid identifier")
	// ErrInvalidBirthDate rejects dates not in YYYY-MM-DD form.
	ErrInvalidBirthDate = errors.New("invalid birth date, expected YYYY-MM-DD")
)

// ErrInvalidForm wraps structural problems with a submitted form.
var ErrInvalidForm = errors.New("invalid form")

package entity

import "github.com/pkg/errors"

// Sentinels for list operations, test with errors.Is.
var (
	ErrMalformedFilter = errors.New("malformed filter")
	ErrTypeMismatch    = errors.New("type mismatch")
	ErrUnknownField    = errors.New("unknown field")
	ErrValueConversion = errors.New("value conversion")
	ErrNotComparable   = errors.New("not comparable")
	ErrNotSupported    = errors.New("not supported")
	ErrIndexOutOfRange = errors.New("index out of range")
)

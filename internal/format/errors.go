package format

import "errors"

var (
	// ErrSignatureMismatch indicates a structure had an unexpected magic.
	ErrSignatureMismatch = errors.New("format: signature mismatch")
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrUnsupported indicates the structure or feature is not supported.
	ErrUnsupported = errors.New("format: unsupported feature")
	// ErrCompressed indicates the point data is LASzip-compressed.
	ErrCompressed = errors.New("format: compressed point data")
	// ErrMalformed indicates fields that contradict each other (sizes, counts).
	ErrMalformed = errors.New("format: malformed structure")
)

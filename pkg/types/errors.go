package types

import "errors"

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindCodec       ErrKind = iota // reader/writer failure, message from LastError
	ErrKindMemory                     // a store or buffer could not grow
	ErrKindUnsupported                // valid input we don't handle (version/format, compression)
	ErrKindMalformed                  // structural corruption of mandatory structures
	ErrKindCanceled                   // the context was cancelled between records
	ErrKindNotFound                   // missing saved metadata, column or field
	ErrKindArgument                   // invalid caller supplied option
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindCodec:
		return "codec"
	case ErrKindMemory:
		return "memory"
	case ErrKindUnsupported:
		return "unsupported"
	case ErrKindMalformed:
		return "malformed"
	case ErrKindCanceled:
		return "canceled"
	case ErrKindNotFound:
		return "not found"
	case ErrKindArgument:
		return "argument"
	default:
		return "unknown"
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by kind and message so that wrapped copies created
// with Wrap still satisfy errors.Is against the sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind && e.Msg == t.Msg
}

// Sentinels commonly returned by implementations.
var (
	// ErrNotEnoughMemory indicates a column or point buffer could not grow.
	ErrNotEnoughMemory = &Error{Kind: ErrKindMemory, Msg: "not enough memory"}
	// ErrUnsupported indicates a recognized but unsupported feature/variant.
	ErrUnsupported = &Error{Kind: ErrKindUnsupported, Msg: "unsupported LAS feature"}
	// ErrCompressed indicates a LAZ input; compression is not implemented.
	ErrCompressed = &Error{Kind: ErrKindUnsupported, Msg: "compressed LAS (LAZ) is not supported"}
	// ErrTooManyPoints indicates a declared point count of 2^32 or more.
	ErrTooManyPoints = &Error{Kind: ErrKindUnsupported, Msg: "point count exceeds 2^32-1"}
	// ErrMalformed indicates non-recoverable structural inconsistency.
	ErrMalformed = &Error{Kind: ErrKindMalformed, Msg: "malformed LAS structure"}
	// ErrCanceled indicates the operation was cancelled by the caller.
	ErrCanceled = &Error{Kind: ErrKindCanceled, Msg: "operation canceled"}
	// ErrNoSavedInfo indicates a save was requested for a cloud without a
	// metadata snapshot.
	ErrNoSavedInfo = &Error{Kind: ErrKindNotFound, Msg: "no saved LAS metadata"}
	// ErrUnknownField indicates a name outside the standard field catalog.
	ErrUnknownField = &Error{Kind: ErrKindNotFound, Msg: "unknown LAS field name"}
)

// Wrap returns a copy of sentinel carrying cause. errors.Is(result, sentinel)
// holds.
func Wrap(sentinel *Error, cause error) *Error {
	return &Error{Kind: sentinel.Kind, Msg: sentinel.Msg, Err: cause}
}

// Errorf builds a typed error from a kind, message and optional cause.
func Errorf(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsKind reports whether err carries a *Error of the given kind.
func IsKind(err error, kind ErrKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

package domain

import "errors"

// ErrorKind classifies a domain failure independently of any transport.
// The HTTP layer maps kinds to status codes; services and repositories
// only ever deal in kinds.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
	KindForbidden
	KindDuplicate
	KindCodeGenerationExhausted
	KindInsufficientMembers
	KindDerangementUnreachable
	KindSelfDeletionForbidden
	KindPartialMatchingFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindDuplicate:
		return "duplicate"
	case KindCodeGenerationExhausted:
		return "code_generation_exhausted"
	case KindInsufficientMembers:
		return "insufficient_members"
	case KindDerangementUnreachable:
		return "derangement_unreachable"
	case KindSelfDeletionForbidden:
		return "self_deletion_forbidden"
	case KindPartialMatchingFailure:
		return "partial_matching_failure"
	default:
		return "internal"
	}
}

// Error is a tagged domain error. Message is safe to show to clients;
// Err carries the underlying cause, if any.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func E(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind of err. Anything that is not a domain Error
// is treated as internal.
func KindOf(err error) ErrorKind {
	var domErr *Error
	if errors.As(err, &domErr) {
		return domErr.Kind
	}
	return KindInternal
}

func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

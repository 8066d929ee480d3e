package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a caller-facing business error.
type Kind string

const (
	KindValidation         Kind = "VALIDATION_ERROR"
	KindInvalidState       Kind = "INVALID_STATE"
	KindAuthorization      Kind = "FORBIDDEN"
	KindUnauthenticated    Kind = "UNAUTHENTICATED"
	KindAlreadyRequested   Kind = "ALREADY_REQUESTED"
	KindCancellationWindow Kind = "CANCELLATION_WINDOW"
	KindMeetingLimit       Kind = "MEETING_LIMIT"
	KindNotFound           Kind = "NOT_FOUND"
	KindConflict           Kind = "CONFLICT"
)

// CodeDuplicateOffer marks a validation error raised for a counter-offer
// whose terms repeat the session's current terms.
const CodeDuplicateOffer = "DUPLICATE_OFFER"

// Error is a business-rule failure. Anything that is not an *Error is treated
// as an infrastructure failure by the transport layer.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details map[string]interface{}
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches on kind, and on code when the target carries one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// ErrorCode returns the most specific code for the error.
func (e *Error) ErrorCode() string {
	if e.Code != "" {
		return e.Code
	}
	return string(e.Kind)
}

// Sentinels for errors.Is checks.
var (
	ErrValidation         = &Error{Kind: KindValidation}
	ErrDuplicateOffer     = &Error{Kind: KindValidation, Code: CodeDuplicateOffer}
	ErrInvalidState       = &Error{Kind: KindInvalidState}
	ErrAuthorization      = &Error{Kind: KindAuthorization}
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated}
	ErrAlreadyRequested   = &Error{Kind: KindAlreadyRequested}
	ErrCancellationWindow = &Error{Kind: KindCancellationWindow}
	ErrMeetingLimit       = &Error{Kind: KindMeetingLimit}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrConflict           = &Error{Kind: KindConflict}
)

func newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return newf(KindValidation, format, args...)
}

func DuplicateOffer(format string, args ...interface{}) *Error {
	e := newf(KindValidation, format, args...)
	e.Code = CodeDuplicateOffer
	return e
}

func InvalidState(format string, args ...interface{}) *Error {
	return newf(KindInvalidState, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return newf(KindAuthorization, format, args...)
}

func Unauthenticated(format string, args ...interface{}) *Error {
	return newf(KindUnauthenticated, format, args...)
}

func AlreadyRequested(format string, args ...interface{}) *Error {
	return newf(KindAlreadyRequested, format, args...)
}

func MeetingLimit(format string, args ...interface{}) *Error {
	return newf(KindMeetingLimit, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return newf(KindConflict, format, args...)
}

// CancellationWindow carries structured details alongside the readable message.
func CancellationWindow(message string, details map[string]interface{}) *Error {
	return &Error{Kind: KindCancellationWindow, Message: message, Details: details}
}

// NotFound builds a not-found error for the named entity.
func NotFound(entity string, id fmt.Stringer) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found: %s", entity, id),
		Details: map[string]interface{}{"entity": entity, "id": id.String()},
	}
}

// KindOf returns the kind of a business error, or "" for anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// As unwraps err into an *Error.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

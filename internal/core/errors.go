package core

import "fmt"

// Kind classifies a core failure so callers can branch without string
// matching.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindStorageFault Kind = "storage_fault"
	KindUnauthorized Kind = "unauthorized"
	KindConflict     Kind = "conflict"
)

// Error is the failure value returned by every core operation. Kind is
// stable; Message is user-facing and may be localized.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors of the same Kind, so errors.Is(err, core.ErrNotFound)
// works regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Kind sentinels for errors.Is checks.
var (
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrStorageFault = &Error{Kind: KindStorageFault}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrConflict     = &Error{Kind: KindConflict}
)

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func StorageFault(message string, err error) *Error {
	return &Error{Kind: KindStorageFault, Message: message, Err: err}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

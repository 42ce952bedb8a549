package motion

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies failures surfaced by the client and the task
// assembler.
type ErrorKind string

const (
	// KindMissingCredential means no API key is configured. No network call
	// was attempted.
	KindMissingCredential ErrorKind = "missing_credential"
	// KindValidation means the input was rejected before any network call.
	KindValidation ErrorKind = "validation"
	// KindInvalidReference means a workspace or project id does not exist.
	KindInvalidReference ErrorKind = "invalid_reference"
	// KindRemote means the API answered with a non-2xx status or could not
	// be reached.
	KindRemote ErrorKind = "remote_error"
	// KindNotFound is a KindRemote failure with status 404.
	KindNotFound ErrorKind = "not_found"
)

// MissingCredentialMessage is shown whenever an operation needs a key that
// has not been configured.
const MissingCredentialMessage = "API key not configured. Run `motionmcp auth set` or set MOTION_API_KEY."

// Error is the structured error returned by this package.
type Error struct {
	Kind ErrorKind
	// Status, StatusText and Body are set for remote errors; Body is the raw
	// response text.
	Status     int
	StatusText string
	Body       string
	Message    string
	Err        error
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrMissingCredential = &Error{Kind: KindMissingCredential}
	ErrValidation        = &Error{Kind: KindValidation}
	ErrInvalidReference  = &Error{Kind: KindInvalidReference}
	ErrRemote            = &Error{Kind: KindRemote}
	ErrNotFound          = &Error{Kind: KindNotFound}
)

// ErrPageLimitExceeded is wrapped when pagination stops at the page bound.
var ErrPageLimitExceeded = errors.New("pagination page limit exceeded")

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinels by kind. A NotFound error also matches ErrRemote.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Message != "" || t.Status != 0 {
		return false
	}
	if t.Kind == e.Kind {
		return true
	}
	return t.Kind == KindRemote && e.Kind == KindNotFound
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// NewValidationError returns a KindValidation error.
func NewValidationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NewInvalidReferenceError returns a KindInvalidReference error.
func NewInvalidReferenceError(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidReference, Message: fmt.Sprintf(format, args...)}
}

func newMissingCredentialError(err error) *Error {
	return &Error{Kind: KindMissingCredential, Message: MissingCredentialMessage, Err: err}
}

// newStatusError builds the error for a non-2xx response. The body is kept
// verbatim so callers can show Motion's own diagnostic.
func newStatusError(status int, body string) *Error {
	kind := KindRemote
	if status == http.StatusNotFound {
		kind = KindNotFound
	}
	statusText := http.StatusText(status)
	return &Error{
		Kind:       kind,
		Status:     status,
		StatusText: statusText,
		Body:       body,
		Message:    fmt.Sprintf("Motion API error: %d %s - %s", status, statusText, body),
	}
}

func newTransportError(err error) *Error {
	return &Error{Kind: KindRemote, Message: "Motion API request failed", Err: err}
}

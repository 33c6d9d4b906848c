// Package apierr defines the failure kinds every back-office operation can
// surface, and how each kind is presented to the operator.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Kind classifies a failure.
type Kind int

const (
	KindUnknown Kind = iota
	// Unauthenticated: no stored credential, the request was never sent.
	Unauthenticated
	// SessionExpired: the server (or the token's own expiry) rejected the credential.
	SessionExpired
	// ValidationFailed: client-side field rules failed.
	ValidationFailed
	// DuplicateConflict: a unique field collides with a loaded record.
	DuplicateConflict
	// RequestFailed: the server reported a business error.
	RequestFailed
	// NetworkError: transport failure or an unreadable response.
	NetworkError
)

func (k Kind) String() string {
	switch k {
	case Unauthenticated:
		return "unauthenticated"
	case SessionExpired:
		return "session_expired"
	case ValidationFailed:
		return "validation_failed"
	case DuplicateConflict:
		return "duplicate_conflict"
	case RequestFailed:
		return "request_failed"
	case NetworkError:
		return "network_error"
	}
	return "unknown"
}

// Error is the single error type returned across package boundaries.
type Error struct {
	Kind    Kind
	Status  int               // HTTP status, when a response was received
	Message string            // Shown to the operator verbatim
	Fields  map[string]string // Field name -> message, for local kinds
	Err     error             // Underlying cause, if any
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind, which makes the package
// sentinels usable with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Status == 0 || t.Status == e.Status)
}

// Sentinels for errors.Is checks.
var (
	ErrUnauthenticated   = &Error{Kind: Unauthenticated}
	ErrSessionExpired    = &Error{Kind: SessionExpired}
	ErrValidationFailed  = &Error{Kind: ValidationFailed}
	ErrDuplicateConflict = &Error{Kind: DuplicateConflict}
	ErrRequestFailed     = &Error{Kind: RequestFailed}
	ErrNetwork           = &Error{Kind: NetworkError}
)

const (
	msgNoToken        = "No authentication token found"
	msgSessionExpired = "Session expired. Please login again."
	msgNetwork        = "Failed to fetch"
	msgBadResponse    = "Invalid response from server. Please try again later."
)

func NewUnauthenticated() *Error {
	return &Error{Kind: Unauthenticated, Message: msgNoToken}
}

// NewSessionExpired uses the server's message when it sent one.
func NewSessionExpired(message string) *Error {
	if strings.TrimSpace(message) == "" {
		message = msgSessionExpired
	}
	return &Error{Kind: SessionExpired, Status: http.StatusUnauthorized, Message: message}
}

// NewRequestFailed passes the server message through verbatim, falling back
// to a status-based message.
func NewRequestFailed(status int, message string) *Error {
	if strings.TrimSpace(message) == "" {
		message = fmt.Sprintf("Request failed with status %d", status)
	}
	return &Error{Kind: RequestFailed, Status: status, Message: message}
}

func NewNetwork(cause error) *Error {
	return &Error{Kind: NetworkError, Message: msgNetwork, Err: cause}
}

// NewBadResponse reports a response body that could not be decoded.
func NewBadResponse(status int, cause error) *Error {
	return &Error{Kind: NetworkError, Status: status, Message: msgBadResponse, Err: cause}
}

// NewValidation wraps a field error mapping. The message names the first
// offending field in alphabetical order so it is stable.
func NewValidation(fields map[string]string) *Error {
	return &Error{Kind: ValidationFailed, Message: firstMessage(fields, "Please correct the highlighted fields"), Fields: fields}
}

func NewDuplicate(field, message string) *Error {
	return &Error{Kind: DuplicateConflict, Message: message, Fields: map[string]string{field: message}}
}

// KindOf classifies any error; errors that are not *Error are KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsAuth reports whether the Session Guard already handled err globally.
func IsAuth(err error) bool {
	k := KindOf(err)
	return k == Unauthenticated || k == SessionExpired
}

// IsLocal reports whether err is resolved next to the offending form fields.
func IsLocal(err error) bool {
	k := KindOf(err)
	return k == ValidationFailed || k == DuplicateConflict
}

// FieldErrors returns the per-field messages carried by err, if any.
func FieldErrors(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}

// BannerMessage is what a list or form shows in its dismissible error banner.
type BannerMessage struct {
	Text      string
	Retryable bool
}

// Banner returns the banner for err. Auth and field-level failures are not
// bannered: ok is false for them and for nil.
func Banner(err error) (BannerMessage, bool) {
	if err == nil || IsAuth(err) || IsLocal(err) {
		return BannerMessage{}, false
	}
	return BannerMessage{Text: err.Error(), Retryable: true}, true
}

func firstMessage(fields map[string]string, fallback string) string {
	if len(fields) == 0 {
		return fallback
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fields[keys[0]]
}

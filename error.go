package webclip

import (
	"context"
	"errors"
	"fmt"
)

// Application error codes.
const (
	ECANCELED    = "canceled"
	EDECODE      = "decode"
	EEMPTY       = "empty_response"
	EHTTP        = "http"
	EINTERNAL    = "internal"
	EINVALID     = "invalid"
	ENETWORK     = "network"
	ENOTFOUND    = "not_found"
	ERATELIMITED = "rate_limited"
	ESERVER      = "server"
)

// Error represents an application-specific error.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable error message.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("webclip error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// HTTPError is returned when a remote service answers with a non-2xx status.
// Body holds a bounded snippet of the response body.
type HTTPError struct {
	Status int
	Body   string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Body)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var he *HTTPError
	if errors.As(err, &he) {
		return EHTTP
	}
	if IsCanceled(err) {
		return ECANCELED
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Error()
	}
	if IsCanceled(err) {
		return "Operation canceled"
	}
	return "Internal error"
}

// IsCanceled reports whether err stems from a canceled or expired context.
// Such errors are never shown to the user.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Snippet returns at most n runes of s. When s is cut, the last of those n
// runes is an ellipsis.
// Used to bound diagnostic excerpts of remote payloads in error messages.
func Snippet(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

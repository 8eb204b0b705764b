package shoplens

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// These are the machine-readable identity of an error. Every error that
// crosses a package boundary carries one; the pipeline maps them to its
// escalation decisions and the outer layer maps them to numeric statuses
// via StatusCode.
const (
	EINVALID     = "invalid"     // validation failed
	EUNSUPPORTED = "unsupported" // URL does not match any known platform
	ERENDER      = "render"      // navigation or render timeout failure
	EPARSE       = "parse"       // AI response not valid JSON after repair
	EINCOMPLETE  = "incomplete"  // final record lacks a mandatory field
	EOBSTACLE    = "obstacle"    // obstacle suppression failed
	ENOTFOUND    = "not_found"   // entity does not exist (e.g. cache miss)
	EINTERNAL    = "internal"    // internal error
)

// Error represents an application-specific error. Application errors can be
// unwrapped by the caller to extract the code and message.
type Error struct {
	// Code is machine-readable, Message is human-readable.
	Code    string
	Message string
}

// Error implements the error interface. Not used by the application otherwise.
func (e *Error) Error() string {
	return fmt.Sprintf("shoplens error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// StatusCode returns the numeric classification for an error code, for use
// by thin HTTP/CLI layers: 400 for unsupported sources and invalid input,
// 404 for missing entities, 422 for incomplete results, 500 otherwise.
func StatusCode(err error) int {
	switch ErrorCode(err) {
	case "":
		return 200
	case EINVALID, EUNSUPPORTED:
		return 400
	case ENOTFOUND:
		return 404
	case EINCOMPLETE:
		return 422
	default:
		return 500
	}
}

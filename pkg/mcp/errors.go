package mcp

import (
	"errors"
	"fmt"
)

// Error is a protocol-level failure carrying a JSON-RPC error code. Handlers
// return it for failures the caller should see unchanged.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// InvalidParams reports malformed or missing caller input.
func InvalidParams(format string, args ...any) *Error {
	return &Error{Code: ErrorCodeInvalidParams, Message: fmt.Sprintf(format, args...)}
}

// MethodNotFound reports an unknown method or tool.
func MethodNotFound(format string, args ...any) *Error {
	return &Error{Code: ErrorCodeMethodNotFound, Message: fmt.Sprintf(format, args...)}
}

// InternalError reports everything else.
func InternalError(format string, args ...any) *Error {
	return &Error{Code: ErrorCodeInternalError, Message: fmt.Sprintf(format, args...)}
}

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// ErrorCodeName returns a short label for a JSON-RPC error code.
func ErrorCodeName(code int) string {
	switch code {
	case ErrorCodeParseError:
		return "ParseError"
	case ErrorCodeInvalidRequest:
		return "InvalidRequest"
	case ErrorCodeMethodNotFound:
		return "MethodNotFound"
	case ErrorCodeInvalidParams:
		return "InvalidParams"
	case ErrorCodeInternalError:
		return "InternalError"
	default:
		return fmt.Sprintf("Code(%d)", code)
	}
}

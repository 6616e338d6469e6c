package models

import "fmt"

// Domain error kinds. Handlers map each type to its own status code, so
// they must never be collapsed into a generic error on the way up.

type ErrorNotFound struct {
	Message string
}

func (e ErrorNotFound) Error() string { return e.Message }

type ErrorInvalidArgument struct {
	Message string
}

func (e ErrorInvalidArgument) Error() string { return e.Message }

type ErrorConflict struct {
	Message string
}

func (e ErrorConflict) Error() string { return e.Message }

type ErrorForbidden struct {
	Message string
}

func (e ErrorForbidden) Error() string { return e.Message }

type ErrorUnauthorized struct {
	Message string
}

func (e ErrorUnauthorized) Error() string { return e.Message }

type ErrorInternalServer struct {
	Message string
	Err     error
}

func (e ErrorInternalServer) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e ErrorInternalServer) Unwrap() error { return e.Err }

func NotFoundf(format string, a ...any) error {
	return ErrorNotFound{Message: fmt.Sprintf(format, a...)}
}

func InvalidArgumentf(format string, a ...any) error {
	return ErrorInvalidArgument{Message: fmt.Sprintf(format, a...)}
}

func Conflictf(format string, a ...any) error {
	return ErrorConflict{Message: fmt.Sprintf(format, a...)}
}

func Forbiddenf(format string, a ...any) error {
	return ErrorForbidden{Message: fmt.Sprintf(format, a...)}
}

func Unauthorizedf(format string, a ...any) error {
	return ErrorUnauthorized{Message: fmt.Sprintf(format, a...)}
}

// Internal wraps a store or unexpected failure.
func Internal(msg string, err error) error {
	return ErrorInternalServer{Message: msg, Err: err}
}

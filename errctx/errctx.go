// Package errctx wraps errors with a stack trace and the request that was
// being served when they happened, for use by reporters.
package errctx

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// DefaultMax is the default maximum number of lines to show from the stack trace.
var DefaultMax = 1024

// WithInfo adds contextual information to the info object in the context.
func WithInfo(ctx context.Context, key string, value interface{}) context.Context {
	ctx = withInfo(ctx)
	i, _ := infoFromContext(ctx)
	i.data[key] = value
	return ctx
}

// WithRequest adds information from an http.Request to the info object in the context.
func WithRequest(ctx context.Context, req *http.Request) context.Context {
	ctx = withInfo(ctx)
	i, _ := infoFromContext(ctx)
	i.request = safeCloneRequest(req)
	return ctx
}

// Recover wraps the return value of recover() to capture a panic stack correctly.
func Recover(ctx context.Context, v interface{}) (e error) {
	switch err := v.(type) {
	case nil:
		e = nil
	case *Error:
		e = err
	case error:
		e = New(ctx, err, 1)
	default:
		e = New(ctx, fmt.Errorf("%v", err), 1)
	}

	return e
}

// Error wraps an error with additional information, like a stack trace,
// contextual information, and an http request if provided.
type Error struct {
	// The error that was generated.
	Err error

	// Any freeform contextual information about that error.
	Context map[string]interface{}

	// If provided, an http request that generated the error.
	Request *http.Request

	stackTrace errors.StackTrace
}

// New returns a new Error instance. If err is already an Error instance,
// it will be returned, otherwise err will be wrapped with Error. skip is the
// number of stack frames above the caller to omit.
func New(ctx context.Context, err error, skip int) *Error {
	if e, ok := err.(*Error); ok {
		return e
	}
	e := &Error{
		Err:        err,
		Context:    map[string]interface{}{},
		stackTrace: stacktrace(err, skip+1),
	}
	if i, ok := infoFromContext(ctx); ok {
		for k, v := range i.data {
			e.Context[k] = v
		}
		e.Request = i.request
	}
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Err.Error()
}

// Cause implements the causer interface.
func (e *Error) Cause() error {
	return errors.Cause(e.Err)
}

// StackTrace implements the stackTracer interface.
func (e *Error) StackTrace() errors.StackTrace {
	return e.stackTrace
}

// ContextData returns the freeform contextual information.
func (e *Error) ContextData() map[string]interface{} {
	return e.Context
}

// HTTPRequest returns the scrubbed request the error happened in, if any.
func (e *Error) HTTPRequest() *http.Request {
	return e.Request
}

type causer interface {
	Cause() error
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// genStacktrace generates a brand new stack trace, skipping the given number
// of frames above its caller.
func genStacktrace(err error, skip int) errors.StackTrace {
	stack := errors.WithStack(err).(stackTracer).StackTrace()
	skip++

	// if it is recovering from a panic() call,
	// reset the stack trace at that point
	for index, frame := range stack {
		file := fmt.Sprintf("%s", frame)
		if file == "panic.go" {
			skip = index + 1
			break
		}
	}

	if skip > len(stack) {
		return nil
	}
	return stack[skip:]
}

// getStacktrace returns the innermost stack trace in a chain of errors
// because it is the closest to the root cause.
func getStacktrace(err error) errors.StackTrace {
	var stack errors.StackTrace
	for err != nil {
		errWithStack, stackOK := err.(stackTracer)
		if stackOK && errWithStack.StackTrace() != nil {
			stack = errWithStack.StackTrace()
		}
		if errWithCause, causerOK := err.(causer); causerOK {
			err = errWithCause.Cause()
		} else {
			break
		}
	}
	return stack
}

func stacktrace(err error, skip int) errors.StackTrace {
	stack := getStacktrace(err)
	if stack == nil {
		stack = genStacktrace(err, skip+1)
	}
	if len(stack) > DefaultMax {
		stack = stack[:DefaultMax]
	}
	return stack
}

package httpx

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/remind101/gamp/reporter"
)

// Error reports err and encodes it as a JSON error response.
func Error(ctx context.Context, err error, rw http.ResponseWriter, r *http.Request) {
	reporter.Report(ctx, err)
	EncodeError(err, rw)
}

type temporaryError interface {
	Temporary() bool // Is the error temporary?
}

type timeoutError interface {
	Timeout() bool // Is the error a timeout?
}

type statusCoder interface {
	StatusCode() int
}

// EncodeError writes err as `{"error": "..."}` with the status code from
// ErrorStatusCode.
func EncodeError(err error, rw http.ResponseWriter) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(ErrorStatusCode(err))

	errorResp := map[string]string{
		"error": err.Error(),
	}

	json.NewEncoder(rw).Encode(errorResp)
}

// ErrorStatusCode maps an error to an http status code.
func ErrorStatusCode(err error) int {
	rootErr := errors.Cause(err)
	if e, ok := rootErr.(statusCoder); ok {
		return e.StatusCode()
	}
	if e, ok := rootErr.(temporaryError); ok && e.Temporary() {
		return http.StatusServiceUnavailable
	}

	if e, ok := rootErr.(timeoutError); ok && e.Timeout() {
		return http.StatusServiceUnavailable
	}

	return http.StatusInternalServerError
}

// WithStatus annotates err with an http status code that EncodeError will
// respond with.
func WithStatus(err error, code int) error {
	return &statusError{err: err, code: code}
}

type statusError struct {
	err  error
	code int
}

func (e *statusError) Error() string   { return e.err.Error() }
func (e *statusError) StatusCode() int { return e.code }

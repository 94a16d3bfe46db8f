// package httpx provides an extra layer of convenience over package http.
package httpx

import (
	"context"
	"net/http"
)

// Handler is represents a Handler that can take a context.Context as the
// first argument. Errors returned are handled by upstream middleware.
type Handler interface {
	ServeHTTPContext(context.Context, http.ResponseWriter, *http.Request) error
}

// The HandlerFunc type is an adapter to allow the use of ordinary functions as
// httpx handlers.
type HandlerFunc func(context.Context, http.ResponseWriter, *http.Request) error

// ServeHTTPContext calls f(ctx, w, r)
func (f HandlerFunc) ServeHTTPContext(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return f(ctx, w, r)
}

// RequestID extracts a request id from a context.
func RequestID(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDKey).(string)
	return requestID
}

// WithRequestID inserts a RequestID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// key used to store context values from within this package.
type key int

const (
	varsKey key = iota
	requestIDKey
)

package svc

import (
	"context"
	"net/http"

	"github.com/remind101/gamp/httpx"
)

// NewHTTPStack wraps a plain http.Handler, such as a gorilla/mux router, in
// the standard middleware stack. Routes are reported as "unknown".
func NewHTTPStack(h http.Handler, opts HandlerOpts) http.Handler {
	hx := httpx.HandlerFunc(func(ctx context.Context, rw http.ResponseWriter, r *http.Request) error {
		h.ServeHTTP(rw, r.WithContext(ctx))
		return nil
	})

	return wrap(hx, nil, opts)
}

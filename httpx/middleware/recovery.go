package middleware

import (
	"context"
	"net/http"

	"github.com/remind101/gamp/errctx"
	"github.com/remind101/gamp/httpx"
	"github.com/remind101/gamp/reporter"
)

// Recovery is a middleware that will recover from panics, report them and
// respond with a 500.
type Recovery struct {
	// Reporter is a Reporter that will be inserted into the context. It
	// will also be used to report panics.
	reporter.Reporter

	// handler is the wrapped httpx.Handler.
	handler httpx.Handler
}

func Recover(h httpx.Handler, r reporter.Reporter) *Recovery {
	return &Recovery{
		Reporter: r,
		handler:  h,
	}
}

// ServeHTTPContext implements the httpx.Handler interface. A recovered panic
// is reported and returned as an error.
func (h *Recovery) ServeHTTPContext(ctx context.Context, w http.ResponseWriter, r *http.Request) (err error) {
	ctx = reporter.WithReporter(ctx, h.Reporter)
	ctx = errctx.WithRequest(ctx, r)
	ctx = errctx.WithInfo(ctx, "request_id", httpx.RequestID(ctx))

	defer func() {
		if e := errctx.Recover(ctx, recover()); e != nil {
			w.WriteHeader(http.StatusInternalServerError)
			reporter.Report(ctx, e)
			err = e
		}
	}()

	return h.handler.ServeHTTPContext(ctx, w, r)
}

type BasicRecovery struct {
	handler httpx.Handler
}

// ServeHTTPContext implements the httpx.Handler interface. It recovers from
// panics and returns an error for upstream middleware to handle.
func (h *BasicRecovery) ServeHTTPContext(ctx context.Context, w http.ResponseWriter, r *http.Request) (err error) {
	defer func() {
		if e := errctx.Recover(ctx, recover()); e != nil {
			err = e
		}
	}()

	return h.handler.ServeHTTPContext(ctx, w, r)
}

func BasicRecover(h httpx.Handler) *BasicRecovery {
	return &BasicRecovery{handler: h}
}

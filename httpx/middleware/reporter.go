package middleware

import (
	"context"
	"net/http"

	"github.com/remind101/gamp/errctx"
	"github.com/remind101/gamp/httpx"
	"github.com/remind101/gamp/reporter"
)

// Reporter is a middleware that adds a Reporter to the request context and adds
// the request info to the reporter context.
type Reporter struct {
	handler  httpx.Handler
	reporter reporter.Reporter
}

func (m *Reporter) ServeHTTPContext(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	ctx = reporter.WithReporter(ctx, m.reporter)
	ctx = errctx.WithRequest(ctx, r)
	ctx = errctx.WithInfo(ctx, "request_id", httpx.RequestID(ctx))

	return m.handler.ServeHTTPContext(ctx, w, r.WithContext(ctx))
}

// WithReporter inserts rep into the context of every request handled by h.
func WithReporter(h httpx.Handler, rep reporter.Reporter) *Reporter {
	return &Reporter{handler: h, reporter: rep}
}

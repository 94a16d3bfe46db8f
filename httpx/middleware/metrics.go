package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/remind101/gamp/httpx"
	"github.com/remind101/gamp/metrics"
)

// ResponseTimeReporter reports a response.time timing tagged with the matched
// route template and the response status.
//
// Usage:
//   r := httpx.NewRouter()
//   ...
//   h := ResponseTimeReporter(r, r)
//
func ResponseTimeReporter(handler httpx.Handler, router *httpx.Router) httpx.Handler {
	return &responseTimeReporter{handler, router}
}

type responseTimeReporter struct {
	handler httpx.Handler
	router  *httpx.Router
}

func (h *responseTimeReporter) ServeHTTPContext(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	t := metrics.ResponseTime()
	defer t.Done()

	rw := NewResponseWriter(w)
	err := h.handler.ServeHTTPContext(ctx, rw, r)

	path := "unknown"
	if h.router != nil {
		path = h.router.TemplatePath(r)
	}
	t.SetTags(map[string]string{
		"route":  fmt.Sprintf("%s %s", r.Method, path),
		"status": strconv.Itoa(rw.Status()),
	})

	return err
}

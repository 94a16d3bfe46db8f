package middleware

import (
	"context"
	"net/http"

	"github.com/remind101/gamp/httpx"
	"github.com/remind101/gamp/logger"
	"github.com/remind101/gamp/reporter"
)

// PageViewTracker sends a pageview hit for a request. *track.Tracker
// implements it.
type PageViewTracker interface {
	TrackPageView(context.Context, *http.Request) error
}

// PageViewTracking is middleware that tracks a pageview for every request
// answered with exactly 200 OK. The response is never modified.
type PageViewTracking struct {
	// Isolate keeps tracking failures away from the caller. When false, a
	// failed hit is returned as the request's error even though the
	// response was already written.
	Isolate bool

	tracker PageViewTracker
	handler httpx.Handler
}

// TrackPageViews returns a PageViewTracking that returns tracking failures.
func TrackPageViews(h httpx.Handler, t PageViewTracker) *PageViewTracking {
	return &PageViewTracking{
		tracker: t,
		handler: h,
	}
}

// IsolatePageViewTracking returns a PageViewTracking that reports tracking
// failures at warning level and logs them instead of returning them.
func IsolatePageViewTracking(h httpx.Handler, t PageViewTracker) *PageViewTracking {
	m := TrackPageViews(h, t)
	m.Isolate = true
	return m
}

// PageViews returns a Link for a Chain.
func PageViews(t PageViewTracker) Link {
	return func(h httpx.Handler) httpx.Handler {
		return TrackPageViews(h, t)
	}
}

// IsolatedPageViews returns a Link for a Chain.
func IsolatedPageViews(t PageViewTracker) Link {
	return func(h httpx.Handler) httpx.Handler {
		return IsolatePageViewTracking(h, t)
	}
}

func (m *PageViewTracking) ServeHTTPContext(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	rw := NewResponseWriter(w)

	if err := m.handler.ServeHTTPContext(ctx, rw, r); err != nil {
		return err
	}

	if rw.Status() != http.StatusOK {
		return nil
	}

	err := m.tracker.TrackPageView(ctx, r)
	if err == nil || !m.Isolate {
		return err
	}

	logger.Warn(ctx, "pageview tracking failed", "path", r.URL.Path, "error", err)
	if _, ok := reporter.FromContext(ctx); ok {
		reporter.ReportWithLevel(ctx, "warning", err)
	}
	return nil
}

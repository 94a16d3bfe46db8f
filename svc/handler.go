package svc

import (
	"context"
	"net/http"

	"github.com/remind101/gamp/httpx"
	"github.com/remind101/gamp/httpx/middleware"
	"github.com/remind101/gamp/reporter"
	"github.com/remind101/gamp/track"
)

type HandlerOpts struct {
	Router       *httpx.Router
	Reporter     reporter.Reporter
	ErrorHandler middleware.ErrorHandlerFunc

	// Tracker, when set, sends a pageview for every 200 response and is
	// available to handlers through track.FromContext.
	Tracker *track.Tracker

	// PropagateTrackingErrors turns a failed pageview into a request
	// error. By default failures are only reported and logged.
	PropagateTrackingErrors bool
}

// NewStandardHandler returns an http.Handler with a standard middleware stack.
// The last middleware added is the first middleware to handle the request.
// Order is pretty important as some middleware depends on others having run
// already.
func NewStandardHandler(opts HandlerOpts) http.Handler {
	var h httpx.Handler = opts.Router
	return wrap(h, opts.Router, opts)
}

func wrap(h httpx.Handler, router *httpx.Router, opts HandlerOpts) http.Handler {
	if opts.Tracker != nil {
		// Must see handler errors before they are turned into
		// responses, so that failed requests are never tracked.
		if opts.PropagateTrackingErrors {
			h = middleware.TrackPageViews(h, opts.Tracker)
		} else {
			h = middleware.IsolatePageViewTracking(h, opts.Tracker)
		}
		h = insertTracker(h, opts.Tracker)
	}

	// Recover from panics. A panic is converted to an error.
	h = middleware.BasicRecover(h)

	// Handle errors returned by endpoint handler or recovery middleware.
	// Errors will no longer be returned after this middleware.
	errorHandler := opts.ErrorHandler
	if errorHandler == nil {
		errorHandler = middleware.ReportingErrorHandler
	}
	h = middleware.HandleError(h, errorHandler)

	// Must go after the HandleError middleware in order to capture the
	// status code written to the response.
	h = middleware.ResponseTimeReporter(h, router)
	h = middleware.OpentracingTracing(h, router)

	// Insert logger into context and log requests at INFO level.
	h = middleware.LogTo(h, middleware.LoggerWithRequestID)

	// Add reporter to context and request to reporter context.
	rep := opts.Reporter
	if rep == nil {
		rep = reporter.NewLogReporter()
	}
	h = middleware.WithReporter(h, rep)

	h = middleware.GenerateRequestID(h)

	// Wrap the route in middleware to add a context.Context. This middleware must be
	// last as it acts as the adaptor between http.Handler and httpx.Handler.
	return middleware.BackgroundContext(h)
}

func insertTracker(h httpx.Handler, t *track.Tracker) httpx.Handler {
	return httpx.HandlerFunc(func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		ctx = track.WithTracker(ctx, t)
		return h.ServeHTTPContext(ctx, w, r.WithContext(ctx))
	})
}

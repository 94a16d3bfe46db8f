package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/remind101/gamp/httpx"
	"github.com/remind101/gamp/reporter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTracker struct {
	calls    int
	requests []*http.Request
	err      error
}

func (f *fakeTracker) TrackPageView(ctx context.Context, r *http.Request) error {
	f.calls++
	f.requests = append(f.requests, r)
	return f.err
}

func TestPageViewTrackingStatus(t *testing.T) {
	tests := []struct {
		name    string
		handler httpx.HandlerFunc
		tracked bool
	}{
		{"implicit 200", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			io.WriteString(w, "OK")
			return nil
		}, true},
		{"explicit 200", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusOK)
			return nil
		}, true},
		{"nothing written", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			return nil
		}, true},
		{"201", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusCreated)
			return nil
		}, false},
		{"redirect", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			http.Redirect(w, r, "/elsewhere", http.StatusFound)
			return nil
		}, false},
		{"404", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			http.NotFound(w, r)
			return nil
		}, false},
		{"500", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusInternalServerError)
			return nil
		}, false},
		{"handler error", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			return errors.New("boom")
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := &fakeTracker{}
			h := TrackPageViews(tt.handler, tracker)

			req, _ := http.NewRequest("GET", "/test-middleware", nil)
			h.ServeHTTPContext(context.Background(), httptest.NewRecorder(), req)

			if tt.tracked {
				require.Equal(t, 1, tracker.calls)
				assert.Same(t, req, tracker.requests[0])
			} else {
				assert.Equal(t, 0, tracker.calls)
			}
		})
	}
}

func TestPageViewTrackingHandlerError(t *testing.T) {
	boom := errors.New("boom")
	h := TrackPageViews(httpx.HandlerFunc(func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return boom
	}), &fakeTracker{})

	req, _ := http.NewRequest("GET", "/", nil)
	err := h.ServeHTTPContext(context.Background(), httptest.NewRecorder(), req)
	assert.Equal(t, boom, err)
}

func TestPageViewTrackingPropagatesFailure(t *testing.T) {
	failure := errors.New("gamp: sending hit: connection refused")
	h := TrackPageViews(okHandler, &fakeTracker{err: failure})

	req, _ := http.NewRequest("GET", "/", nil)
	resp := httptest.NewRecorder()
	err := h.ServeHTTPContext(context.Background(), resp, req)

	assert.Equal(t, failure, err)
	assert.Equal(t, "OK", resp.Body.String())
}

func TestIsolatePageViewTracking(t *testing.T) {
	failure := errors.New("gamp: sending hit: connection refused")

	var levels []string
	rep := reporter.ReporterFunc(func(ctx context.Context, level string, err error) error {
		levels = append(levels, level)
		return nil
	})

	h := IsolatePageViewTracking(okHandler, &fakeTracker{err: failure})

	req, _ := http.NewRequest("GET", "/", nil)
	resp := httptest.NewRecorder()
	ctx := reporter.WithReporter(context.Background(), rep)

	assert.NoError(t, h.ServeHTTPContext(ctx, resp, req))
	assert.Equal(t, []string{"warning"}, levels)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "OK", resp.Body.String())

	// Without a reporter in the context the failure is only logged.
	assert.NoError(t, h.ServeHTTPContext(context.Background(), httptest.NewRecorder(), req))
}

func TestPageViewsChain(t *testing.T) {
	tracker := &fakeTracker{}
	h := NewChain(IsolatedPageViews(tracker), PageViews(tracker)).Then(okHandler)

	req, _ := http.NewRequest("GET", "/", nil)
	require.NoError(t, h.ServeHTTPContext(context.Background(), httptest.NewRecorder(), req))
	assert.Equal(t, 2, tracker.calls)
}

var okHandler = httpx.HandlerFunc(func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	io.WriteString(w, "OK")
	return nil
})

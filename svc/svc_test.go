package svc_test

import (
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/remind101/gamp/client"
	"github.com/remind101/gamp/httpx"
	"github.com/remind101/gamp/reporter"
	"github.com/remind101/gamp/reporter/mock"
	"github.com/remind101/gamp/reporter/rollbar"
	"github.com/remind101/gamp/svc"
	"github.com/remind101/gamp/track"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	sync.Mutex
	hits []string
}

func (c *collector) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.Lock()
	defer c.Unlock()
	c.hits = append(c.hits, r.URL.Query().Get("t")+" "+r.URL.Query().Get("dl"))
}

func (c *collector) Hits() []string {
	c.Lock()
	defer c.Unlock()
	return append([]string(nil), c.hits...)
}

func newTracker(endpoint string) *track.Tracker {
	t := track.New(track.StaticConfig{Enabled: true, TrackingID: "UA-1234-5"})
	t.Dispatcher.Client = client.New()
	t.Dispatcher.Endpoint = endpoint
	return t
}

func TestStandardHandler(t *testing.T) {
	ga := &collector{}
	gaServer := httptest.NewServer(ga)
	defer gaServer.Close()

	rep := mock.NewReporter()
	r := httpx.NewRouter()

	r.Handle("/panic", httpx.HandlerFunc(func(ctx context.Context, rw http.ResponseWriter, r *http.Request) error {
		panic("I panicked")
	}))
	r.Handle("/test-middleware", httpx.HandlerFunc(func(ctx context.Context, rw http.ResponseWriter, r *http.Request) error {
		fmt.Fprint(rw, "OK")
		return nil
	}))
	r.Handle("/event", httpx.HandlerFunc(func(ctx context.Context, rw http.ResponseWriter, r *http.Request) error {
		rw.WriteHeader(http.StatusAccepted)
		return track.TrackEvent(ctx, r, track.Event{Category: "test_category", Action: "test_action"})
	}))

	h := svc.NewStandardHandler(svc.HandlerOpts{
		Router:   r,
		Reporter: rep,
		Tracker:  newTracker(gaServer.URL + "/collect"),
	})

	s := httptest.NewServer(h)
	defer s.Close()

	get := func(path string) (int, string) {
		req, _ := http.NewRequest("GET", s.URL+path, nil)
		req.Header.Add("X-Request-ID", "abc")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, _ := ioutil.ReadAll(resp.Body)
		return resp.StatusCode, string(body)
	}

	code, body := get("/test-middleware?email=foo@example.com")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "OK", body)

	code, _ = get("/panic")
	assert.Equal(t, http.StatusInternalServerError, code)
	require.Len(t, rep.Calls, 1)
	assert.Equal(t, "I panicked", rep.Calls[0].Err.Error())

	code, _ = get("/missing")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = get("/event")
	assert.Equal(t, http.StatusAccepted, code)

	host := s.Listener.Addr().String()
	assert.Equal(t, []string{
		"pageview http://" + host + "/test-middleware?email={{EMAIL}}",
		"event http://" + host + "/event",
	}, ga.Hits())
}

func TestStandardHandlerIsolatesTrackingFailures(t *testing.T) {
	gaServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer gaServer.Close()

	rep := mock.NewReporter()
	r := httpx.NewRouter()
	r.Handle("/", httpx.HandlerFunc(func(ctx context.Context, rw http.ResponseWriter, r *http.Request) error {
		fmt.Fprint(rw, "OK")
		return nil
	}))

	h := svc.NewStandardHandler(svc.HandlerOpts{
		Router:   r,
		Reporter: rep,
		Tracker:  newTracker(gaServer.URL + "/collect"),
	})

	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusOK, rw.Code)
	assert.Equal(t, "OK", rw.Body.String())
	assert.Equal(t, []string{"warning"}, rep.Levels())
}

func TestHTTPStack(t *testing.T) {
	ga := &collector{}
	gaServer := httptest.NewServer(ga)
	defer gaServer.Close()

	r := mux.NewRouter()
	r.HandleFunc("/boom", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusCreated)
		fmt.Fprintln(rw, r.Header.Get("X-Request-ID"))
	}).Methods("GET")
	r.HandleFunc("/ok", func(rw http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(rw, "ok")
	}).Methods("GET")

	h := svc.NewHTTPStack(r, svc.HandlerOpts{
		Reporter: mock.NewReporter(),
		Tracker:  newTracker(gaServer.URL + "/collect"),
	})

	req := httptest.NewRequest("GET", "/boom", nil)
	req.Header.Add("X-Request-ID", "abc")

	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, req)

	if got, want := rw.Result().StatusCode, http.StatusCreated; got != want {
		t.Errorf("got %v; expected %v", got, want)
	}

	body, _ := ioutil.ReadAll(rw.Body)
	if got, want := string(body), "abc\n"; got != want {
		t.Errorf("got %v; expected %v", got, want)
	}

	req = httptest.NewRequest("GET", "/ok", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, []string{"pageview http://example.com/ok"}, ga.Hits())
}

func TestInitReporter(t *testing.T) {
	t.Setenv(rollbar.EnvAccessToken, "")
	t.Setenv(rollbar.EnvEnvironment, "")

	rep, ok := svc.InitReporter().(reporter.MultiReporter)
	require.True(t, ok)
	require.Len(t, rep, 1)
	assert.IsType(t, &reporter.LogReporter{}, rep[0])
}

func TestInitReporterRollbarFallsBackToLog(t *testing.T) {
	t.Setenv(rollbar.EnvAccessToken, "token")
	t.Setenv(rollbar.EnvEnvironment, "test")

	rep, ok := svc.InitReporter().(reporter.MultiReporter)
	require.True(t, ok)
	require.Len(t, rep, 2)

	fb, ok := rep[1].(*reporter.FallbackReporter)
	require.True(t, ok, "expected a *reporter.FallbackReporter, got %T", rep[1])
	assert.Equal(t, rollbar.Reporter, fb.Reporter)
	assert.IsType(t, &reporter.LogReporter{}, fb.Fallback)
}

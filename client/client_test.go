package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/remind101/gamp/client"
	"github.com/remind101/gamp/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientDo(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "UA-1", r.URL.Query().Get("tid"))
		w.Write([]byte(`{"hitParsingResult":[]}`))
	}))
	defer s.Close()

	c := client.New(client.Timeout(time.Second), client.Traced("ga.collect"))

	var data map[string]interface{}
	resp, err := c.Do(context.Background(), "POST", s.URL+"/collect", url.Values{"tid": {"UA-1"}}, &data)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, data, "hitParsingResult")
}

func TestClientHTTPError(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer s.Close()

	c := client.New()
	_, err := c.Do(context.Background(), "POST", s.URL+"/collect", nil, nil)
	require.Error(t, err)

	httpErr, ok := err.(*client.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
}

func TestClientBadURL(t *testing.T) {
	c := client.New()
	_, err := c.NewRequest(context.Background(), "POST", "://nope", nil, nil)
	assert.Error(t, err)
}

func TestClientMetrics(t *testing.T) {
	r := metrics.NewRecorder()
	defer r.Install()()

	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer s.Close()

	c := client.New(client.RoundTripper(&http.Transport{}), client.Metrics("gamp.client"))
	_, err := c.Do(context.Background(), "GET", s.URL, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(1), r.CountOf("gamp.client.GotConn"))

	timing, ok := r.LastTiming("gamp.client.request.time")
	require.True(t, ok)
	assert.Equal(t, "200", timing.Tags["status"])
	assert.True(t, timing.Value >= 0)
}

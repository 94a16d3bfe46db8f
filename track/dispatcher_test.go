package track

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/remind101/gamp/client"
	"github.com/remind101/gamp/logger"
	"github.com/remind101/gamp/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validationBody = `{
  "hitParsingResult": [ {
    "valid": true,
    "parserMessage": [ ],
    "hit": "/debug/collect?v=1&t=pageview"
  } ],
  "parserMessage": [ {
    "messageType": "INFO",
    "description": "Found 1 hit in the request."
  } ]
}`

type collector struct {
	calls    int32
	paths    []string
	queries  []string
	response string
	status   int
}

func (c *collector) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&c.calls, 1)
	c.paths = append(c.paths, r.Method+" "+r.URL.Path)
	c.queries = append(c.queries, r.URL.RawQuery)
	if c.status != 0 {
		w.WriteHeader(c.status)
	}
	io.WriteString(w, c.response)
}

func newTestDispatcher(cfg Config, c *collector) (*Dispatcher, *bytes.Buffer, func()) {
	s := httptest.NewServer(c)
	buf := new(bytes.Buffer)
	d := &Dispatcher{
		Config:        StaticConfig(cfg),
		Client:        client.New(),
		Endpoint:      s.URL + "/collect",
		DebugEndpoint: s.URL + "/debug/collect",
		Logger:        logger.New(log.New(buf, "", 0), logger.DEBUG),
	}
	return d, buf, s.Close
}

var testPayload = Payload{
	KeyVersion:    "1",
	KeyTrackingID: "UA-1234-5",
	KeyClientID:   "35009a79-1a05-49d7-b876-2b884d0f825b",
	KeyHitType:    HitPageView,
}

func TestDispatcherDisabled(t *testing.T) {
	m := metrics.NewRecorder()
	defer m.Install()()

	c := &collector{}
	d, _, done := newTestDispatcher(Config{Enabled: false, Debug: true}, c)
	defer done()

	res, err := d.Send(context.Background(), testPayload)
	assert.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, int32(0), atomic.LoadInt32(&c.calls))
	assert.Equal(t, int64(1), m.CountOf("gamp.hit.skipped"))
}

func TestDispatcherSend(t *testing.T) {
	m := metrics.NewRecorder()
	defer m.Install()()

	c := &collector{response: "GIF89a"}
	d, buf, done := newTestDispatcher(Config{Enabled: true}, c)
	defer done()

	res, err := d.Send(context.Background(), testPayload)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Nil(t, res.Validation)
	assert.Equal(t, []string{"POST /collect"}, c.paths)
	assert.Equal(t, "cid=35009a79-1a05-49d7-b876-2b884d0f825b&t=pageview&tid=UA-1234-5&v=1", c.queries[0])
	assert.Empty(t, buf.String())

	last, ok := m.Last("gamp.hit.sent")
	require.True(t, ok)
	assert.Equal(t, "pageview", last.Tags["hit_type"])
	assert.Equal(t, "false", last.Tags["debug"])
	require.Len(t, m.Timings, 1)
	assert.Equal(t, "gamp.dispatch.time", m.Timings[0].Name)
}

func TestDispatcherDebug(t *testing.T) {
	c := &collector{response: validationBody}
	d, buf, done := newTestDispatcher(Config{Enabled: true, Debug: true}, c)
	defer done()

	res, err := d.Send(context.Background(), testPayload)
	require.NoError(t, err)
	assert.Equal(t, []string{"POST /debug/collect"}, c.paths)
	assert.Equal(t, d.DebugEndpoint, res.Endpoint)

	require.NotNil(t, res.Validation)
	assert.True(t, res.Validation.Valid())
	assert.Equal(t, "Found 1 hit in the request.", res.Validation.ParserMessage[0].Description)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Equal(t,
		`status=debug Tracking response: {"hitParsingResult":[{"valid":true,"parserMessage":[],"hit":"/debug/collect?v=1&t=pageview"}],"parserMessage":[{"messageType":"INFO","description":"Found 1 hit in the request."}]}`,
		lines[0])
}

func TestDispatcherDebugLogsToContext(t *testing.T) {
	c := &collector{response: `{"hitParsingResult":[{"valid":false,"parserMessage":[],"hit":""}],"parserMessage":[]}`}
	d, _, done := newTestDispatcher(Config{Enabled: true, Debug: true}, c)
	defer done()
	d.Logger = nil

	buf := new(bytes.Buffer)
	ctx := logger.WithLogger(context.Background(), logger.New(log.New(buf, "", 0), logger.DEBUG))

	res, err := d.Send(ctx, testPayload)
	require.NoError(t, err)
	assert.False(t, res.Validation.Valid())
	assert.Contains(t, buf.String(), "Tracking response: ")
}

func TestDispatcherDebugInvalidJSON(t *testing.T) {
	c := &collector{response: "not json"}
	d, _, done := newTestDispatcher(Config{Enabled: true, Debug: true}, c)
	defer done()

	_, err := d.Send(context.Background(), testPayload)
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&c.calls))
}

func TestDispatcherDebugLogsUndecodableResponse(t *testing.T) {
	c := &collector{response: `["unexpected"]`}
	d, buf, done := newTestDispatcher(Config{Enabled: true, Debug: true}, c)
	defer done()

	res, err := d.Send(context.Background(), testPayload)
	assert.Error(t, err)
	require.NotNil(t, res)
	assert.Nil(t, res.Validation)
	assert.Equal(t, "status=debug Tracking response: [\"unexpected\"]\n", buf.String())
}

func TestDispatcherHTTPError(t *testing.T) {
	m := metrics.NewRecorder()
	defer m.Install()()

	c := &collector{status: http.StatusServiceUnavailable}
	d, _, done := newTestDispatcher(Config{Enabled: true}, c)
	defer done()

	_, err := d.Send(context.Background(), testPayload)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "gamp: sending hit"))

	httpErr, ok := errors.Cause(err).(*client.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&c.calls), "no retry")
	assert.Equal(t, int64(1), m.CountOf("gamp.hit.failed"))
}

func TestDispatcherTransportError(t *testing.T) {
	c := &collector{}
	d, _, done := newTestDispatcher(Config{Enabled: true}, c)
	done()

	_, err := d.Send(context.Background(), testPayload)
	assert.Error(t, err)
}

func TestDispatcherDefaultEndpoints(t *testing.T) {
	d := NewDispatcher(StaticConfig{})
	assert.Equal(t, DefaultEndpoint, d.endpoint(false))
	assert.Equal(t, DefaultDebugEndpoint, d.endpoint(true))
}

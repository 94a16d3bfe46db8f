package client

import (
	"fmt"
	"net/http"
	"net/http/httptrace"
	"strconv"
	"time"

	"github.com/remind101/gamp/client/request"
	"github.com/remind101/gamp/metrics"
)

// requestTimer records how long a request took, tagged with the response
// status or "error" when there was no response.
func requestTimer(prefix string) request.Handler {
	return request.Handler{
		Name: "RequestTimer",
		Fn: func(r *request.Request) {
			status := "error"
			if r.HTTPResponse != nil {
				status = strconv.Itoa(r.HTTPResponse.StatusCode)
			}
			ms := float64(r.Elapsed) / float64(time.Millisecond)
			metrics.TimeInMilliseconds(prefix+".request.time", ms, map[string]string{"status": status}, 1.0)
		},
	}
}

type metricsTransport struct {
	Transport http.RoundTripper
	prefix    string
}

func (t *metricsTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	count := func(key string, tags map[string]string) {
		metrics.Count(t.prefix+"."+key, 1, tags, 1.0)
	}

	trace := &httptrace.ClientTrace{
		GotConn: func(info httptrace.GotConnInfo) {
			count("GotConn", map[string]string{
				"reused":   fmt.Sprintf("%t", info.Reused),
				"was_idle": fmt.Sprintf("%t", info.WasIdle),
			})
		},
		// Not called when keep alives are disabled.
		PutIdleConn: func(err error) {
			count("PutIdleConn", map[string]string{
				"error": fmt.Sprintf("%t", err != nil),
			})
		},
		ConnectStart: func(network, addr string) {
			count("ConnectStart", nil)
		},
		ConnectDone: func(network, addr string, err error) {
			count("ConnectDone", map[string]string{
				"error": fmt.Sprintf("%t", err != nil),
			})
		},
		DNSStart: func(info httptrace.DNSStartInfo) {
			count("DNSStart", nil)
		},
		DNSDone: func(info httptrace.DNSDoneInfo) {
			count("DNSDone", map[string]string{
				"error":     fmt.Sprintf("%t", info.Err != nil),
				"coalesced": fmt.Sprintf("%t", info.Coalesced),
			})
		},
	}
	ctx := httptrace.WithClientTrace(req.Context(), trace)

	transport := t.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	resp, err := transport.RoundTrip(req.WithContext(ctx))
	if err != nil {
		return resp, err
	}
	if resp.Close {
		count("ConnectionClosed", nil)
	}
	return resp, err
}

package client

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/remind101/gamp/client/request"
)

// HTTPError is returned when a request completes with a non 2xx status.
type HTTPError = request.Error

// Client holds request handlers and an http.Client and builds requests
// using them.
type Client struct {
	HTTPClient *http.Client
	Handlers   request.Handlers
}

// Timeout specifies a time limit for requests made by this Client.
func Timeout(t time.Duration) func(*Client) {
	return func(c *Client) {
		c.HTTPClient.Timeout = t
	}
}

// RoundTripper sets a custom transport on the underlying http Client.
func RoundTripper(r http.RoundTripper) func(*Client) {
	return func(c *Client) {
		c.HTTPClient.Transport = r
	}
}

// Metrics instruments the transport with connection level counters under
// prefix and times every request as <prefix>.request.time.
func Metrics(prefix string) func(*Client) {
	return func(c *Client) {
		c.HTTPClient.Transport = &metricsTransport{
			Transport: c.HTTPClient.Transport,
			prefix:    prefix,
		}
		c.Handlers.Complete.Append(requestTimer(prefix))
	}
}

// Traced wraps the send handlers in an opentracing span named operationName.
func Traced(operationName string) func(*Client) {
	return func(c *Client) {
		c.Handlers.Send.Swap(request.BaseSender.Name, request.WithTracing(operationName, request.BaseSender))
	}
}

// New returns a new client.
func New(options ...func(*Client)) *Client {
	c := &Client{
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   1 * time.Second,
					KeepAlive: 90 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 3 * time.Second,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 8,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		Handlers: request.DefaultHandlers(),
	}

	// Apply options
	for _, option := range options {
		option(c)
	}

	return c
}

// NewRequest builds a request for url. params are encoded by the Build
// handlers and the response is decoded into data.
func (c *Client) NewRequest(ctx context.Context, method, url string, params interface{}, data interface{}) (*request.Request, error) {
	httpReq, err := http.NewRequest(method, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "client: building %s request", method)
	}
	httpReq = httpReq.WithContext(ctx)

	r := request.New(httpReq, c.Handlers, params, data)
	r.HTTPClient = c.HTTPClient
	return r, nil
}

// Do builds and sends a request in one step.
func (c *Client) Do(ctx context.Context, method, url string, params interface{}, data interface{}) (*http.Response, error) {
	r, err := c.NewRequest(ctx, method, url, params, data)
	if err != nil {
		return nil, err
	}
	err = r.Send()
	return r.HTTPResponse, err
}

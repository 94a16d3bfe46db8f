package request

import (
	"context"
	"net/http"
	"time"
)

// Request is a single outbound call moving through the handler phases:
// Build, Sign, Send, ValidateResponse and then Decode or DecodeError.
// Complete handlers run last whatever happened.
type Request struct {
	HTTPClient   *http.Client
	Handlers     Handlers
	HTTPRequest  *http.Request
	HTTPResponse *http.Response

	// Params is encoded into the request by the Build handlers and Data
	// receives the decoded response.
	Params interface{}
	Data   interface{}

	// Error stops the phases that have not run yet.
	Error error

	// Start is when the request was created. Elapsed is set once Send
	// returns.
	Start   time.Time
	Elapsed time.Duration

	built bool
}

// New returns a Request with its own copy of handlers.
func New(httpReq *http.Request, handlers Handlers, params interface{}, data interface{}) *Request {
	return &Request{
		HTTPClient:  http.DefaultClient,
		Handlers:    handlers.Copy(),
		HTTPRequest: httpReq,
		Params:      params,
		Data:        data,
		Start:       time.Now(),
	}
}

// Context is the context of the underlying http request.
func (r *Request) Context() context.Context {
	return r.HTTPRequest.Context()
}

// Send runs the phases and returns the first error set by a handler.
func (r *Request) Send() error {
	defer func() {
		r.Elapsed = time.Since(r.Start)
		r.Handlers.Complete.Run(r)
	}()

	if r.Build(); r.Error != nil {
		return r.Error
	}

	if r.Handlers.Send.Run(r); r.Error != nil {
		return r.Error
	}

	if r.Handlers.ValidateResponse.Run(r); r.Error != nil {
		r.Handlers.DecodeError.Run(r)
		return r.Error
	}

	r.Handlers.Decode.Run(r)
	return r.Error
}

// Build runs the Build handlers and, if they succeed, the Sign handlers.
// It only does so once.
func (r *Request) Build() {
	if r.built {
		return
	}
	r.built = true

	if r.Handlers.Build.Run(r); r.Error != nil {
		return
	}
	r.Handlers.Sign.Run(r)
}

package request

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/url"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/remind101/gamp/httpx"
)

type Handlers struct {
	Build            HandlerList
	Sign             HandlerList
	Send             HandlerList
	ValidateResponse HandlerList
	Decode           HandlerList
	DecodeError      HandlerList
	Complete         HandlerList
}

// DefaultHandlers sends Params as a form encoded query and decodes a JSON
// response into Data.
func DefaultHandlers() Handlers {
	return Handlers{
		Build:            NewHandlerList(RequestIDHeader, QueryBuilder),
		Sign:             NewHandlerList(),
		Send:             NewHandlerList(BaseSender),
		ValidateResponse: NewHandlerList(StatusValidator),
		Decode:           NewHandlerList(JSONDecoder),
		DecodeError:      NewHandlerList(BodyDiscarder),
		Complete:         NewHandlerList(),
	}
}

func (h Handlers) Copy() Handlers {
	return Handlers{
		Build:            h.Build.copy(),
		Sign:             h.Sign.copy(),
		Send:             h.Send.copy(),
		ValidateResponse: h.ValidateResponse.copy(),
		Decode:           h.Decode.copy(),
		DecodeError:      h.DecodeError.copy(),
		Complete:         h.Complete.copy(),
	}
}

type HandlerList struct {
	list []Handler
}

func NewHandlerList(hh ...Handler) HandlerList {
	return HandlerList{
		list: append([]Handler{}, hh...),
	}
}

func (hl *HandlerList) Run(r *Request) {
	for _, h := range hl.list {
		h.Fn(r)
	}
}

func (hl *HandlerList) Append(h Handler) {
	hl.list = append(hl.list, h)
}

func (hl *HandlerList) Prepend(h Handler) {
	hl.list = append([]Handler{h}, hl.list...)
}

// Swap replaces the handler named name with h. It reports whether a
// handler was replaced.
func (hl *HandlerList) Swap(name string, h Handler) bool {
	for i, hh := range hl.list {
		if hh.Name == name {
			hl.list[i] = h
			return true
		}
	}
	return false
}

// Len returns the number of handlers in the list.
func (hl *HandlerList) Len() int {
	return len(hl.list)
}

func (hl *HandlerList) copy() HandlerList {
	n := HandlerList{}
	if len(hl.list) == 0 {
		return n
	}

	n.list = append(make([]Handler, 0, len(hl.list)), hl.list...)
	return n
}

type Handler struct {
	Name string
	Fn   func(*Request)
}

// BaseSender sends a request using the http.Client.
var BaseSender = Handler{
	Name: "BaseSender",
	Fn: func(r *Request) {
		r.HTTPResponse, r.Error = r.HTTPClient.Do(r.HTTPRequest)
	},
}

// QueryBuilder encodes Params, which must be url.Values or
// map[string]string, into the URL query string.
var QueryBuilder = Handler{
	Name: "QueryBuilder",
	Fn: func(r *Request) {
		var values url.Values
		switch p := r.Params.(type) {
		case nil:
			return
		case url.Values:
			values = p
		case map[string]string:
			values = url.Values{}
			for k, v := range p {
				values.Set(k, v)
			}
		default:
			r.Error = fmt.Errorf("request: cannot encode params of type %T as a query", r.Params)
			return
		}

		q := r.HTTPRequest.URL.Query()
		for k, vs := range values {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		r.HTTPRequest.URL.RawQuery = q.Encode()
		r.HTTPRequest.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	},
}

// RequestIDHeader forwards the request id found in the request context.
var RequestIDHeader = Handler{
	Name: "RequestIDHeader",
	Fn: func(r *Request) {
		if id := httpx.RequestID(r.Context()); id != "" {
			r.HTTPRequest.Header.Set("X-Request-Id", id)
		}
	},
}

// StatusValidator sets an *Error for responses outside the 2xx range.
var StatusValidator = Handler{
	Name: "StatusValidator",
	Fn: func(r *Request) {
		if r.HTTPResponse == nil {
			return
		}
		if code := r.HTTPResponse.StatusCode; code < 200 || code > 299 {
			r.Error = &Error{Path: r.HTTPRequest.URL.Path, StatusCode: code}
		}
	},
}

// JSONDecoder decodes a response as JSON.
var JSONDecoder = Handler{
	Name: "JSONDecoder",
	Fn: func(r *Request) {
		if r.HTTPResponse == nil {
			return
		}
		if r.HTTPResponse.Body != nil {
			defer r.HTTPResponse.Body.Close()
		}
		if r.Data == nil {
			_, r.Error = io.Copy(ioutil.Discard, r.HTTPResponse.Body)
			return
		}
		r.Error = json.NewDecoder(r.HTTPResponse.Body).Decode(r.Data)
	},
}

// BodyDiscarder drains and closes the response body.
var BodyDiscarder = Handler{
	Name: "BodyDiscarder",
	Fn: func(r *Request) {
		if r.HTTPResponse == nil || r.HTTPResponse.Body == nil {
			return
		}
		io.Copy(ioutil.Discard, r.HTTPResponse.Body)
		r.HTTPResponse.Body.Close()
	},
}

// WithTracing returns a Send Handler that wraps another Send Handler in a trace
// span.
func WithTracing(operationName string, h Handler) Handler {
	return Handler{
		Name: "TracedSender",
		Fn: func(r *Request) {
			span, ctx := opentracing.StartSpanFromContext(r.Context(), operationName)
			defer span.Finish()
			r.HTTPRequest = r.HTTPRequest.WithContext(ctx)

			ext.SpanKindRPCClient.Set(span)
			ext.HTTPMethod.Set(span, r.HTTPRequest.Method)
			// The query carries the hit, keep it out of the trace.
			ext.HTTPUrl.Set(span, r.HTTPRequest.URL.Scheme+"://"+r.HTTPRequest.URL.Host+r.HTTPRequest.URL.Path)

			h.Fn(r)

			if r.HTTPResponse != nil {
				ext.HTTPStatusCode.Set(span, uint16(r.HTTPResponse.StatusCode))
			}

			if r.Error != nil {
				ext.Error.Set(span, true)
				span.SetTag("error.msg", r.Error.Error())
			}
		},
	}
}

// Error is returned for non 2xx responses.
type Error struct {
	Path       string
	StatusCode int
}

func (e *Error) Error() string {
	return fmt.Sprintf("http service returned a error code when "+
		"calling %s: %d", e.Path, e.StatusCode)
}

// Temporary reports whether the failure was on the server side.
func (e *Error) Temporary() bool {
	return e.StatusCode >= 500
}

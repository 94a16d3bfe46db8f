package middleware

import (
	"context"
	"fmt"
	"net/http"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/remind101/gamp/httpx"
	ddext "gopkg.in/DataDog/dd-trace-go.v1/ddtrace/ext"
)

type OpentracingTracer struct {
	handler httpx.Handler
	router  *httpx.Router
}

// OpentracingTracing starts a "server.request" span for every request,
// continuing any trace propagated in the request headers. router is used to
// name the resource after the matched route template.
func OpentracingTracing(h httpx.Handler, router *httpx.Router) *OpentracingTracer {
	return &OpentracingTracer{h, router}
}

func (h *OpentracingTracer) ServeHTTPContext(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	route := fmt.Sprintf("%s %s", r.Method, h.templatePath(r))

	var span opentracing.Span
	wireContext, err := opentracing.GlobalTracer().Extract(
		opentracing.HTTPHeaders,
		opentracing.HTTPHeadersCarrier(r.Header))
	if err != nil {
		span = opentracing.StartSpan("server.request")
	} else {
		span = opentracing.StartSpan("server.request", ext.RPCServerOption(wireContext))
	}
	span.SetTag(ddext.ResourceName, route)
	span.SetTag(ddext.SpanType, ddext.SpanTypeWeb)
	span.SetTag(ddext.HTTPMethod, r.Method)
	span.SetTag(ddext.HTTPURL, r.URL.Path)

	if rid := httpx.RequestID(ctx); rid != "" {
		span.SetTag("request_id", rid)
	}

	defer span.Finish()
	ctx = opentracing.ContextWithSpan(ctx, span)
	r = r.WithContext(ctx)

	rw := NewResponseWriter(w)
	reqErr := h.handler.ServeHTTPContext(ctx, rw, r)
	if reqErr != nil {
		span.SetTag(ddext.Error, reqErr)
	}
	span.SetTag(ddext.HTTPCode, rw.Status())

	return reqErr
}

func (h *OpentracingTracer) templatePath(r *http.Request) string {
	if h.router == nil {
		return "unknown"
	}
	return h.router.TemplatePath(r)
}

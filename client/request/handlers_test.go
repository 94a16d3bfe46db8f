package request_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/remind101/gamp/client/request"
)

func TestHandlerListCopy(t *testing.T) {
	var calls []string
	h := func(name string) request.Handler {
		return request.Handler{Name: name, Fn: func(*request.Request) { calls = append(calls, name) }}
	}

	orig := request.NewHandlerList(h("a"))
	c := orig
	hs := request.Handlers{Build: orig}.Copy()
	hs.Build.Append(h("b"))
	hs.Build.Prepend(h("first"))

	hs.Build.Run(&request.Request{})
	if got, want := len(calls), 3; got != want {
		t.Fatalf("got %d calls; expected %d", got, want)
	}
	if calls[0] != "first" || calls[2] != "b" {
		t.Errorf("unexpected order %v", calls)
	}
	if got, want := c.Len(), 1; got != want {
		t.Errorf("original list modified: len %d", got)
	}
}

func TestHandlerListSwap(t *testing.T) {
	l := request.NewHandlerList(request.BaseSender)
	if !l.Swap("BaseSender", request.Handler{Name: "Other", Fn: func(*request.Request) {}}) {
		t.Error("expected swap to succeed")
	}
	if l.Swap("Missing", request.BaseSender) {
		t.Error("expected swap of missing handler to fail")
	}
}

func TestWithTracing(t *testing.T) {
	tracer := mocktracer.New()
	opentracing.SetGlobalTracer(tracer)
	defer opentracing.SetGlobalTracer(opentracing.NoopTracer{})

	httpReq, _ := http.NewRequest("POST", "https://www.google-analytics.com/collect?cid=secret", nil)
	r := &request.Request{HTTPRequest: httpReq}

	h := request.WithTracing("ga.collect", request.Handler{
		Name: "Fail",
		Fn: func(r *request.Request) {
			r.Error = errors.New("boom")
		},
	})
	h.Fn(r)

	spans := tracer.FinishedSpans()
	if got, want := len(spans), 1; got != want {
		t.Fatalf("got %d spans; expected %d", got, want)
	}
	span := spans[0]
	if got, want := span.OperationName, "ga.collect"; got != want {
		t.Errorf("got %s; expected %s", got, want)
	}
	if got, want := span.Tag("http.url"), "https://www.google-analytics.com/collect"; got != want {
		t.Errorf("got %v; expected %v", got, want)
	}
	if got, want := span.Tag("error"), true; got != want {
		t.Errorf("got %v; expected %v", got, want)
	}
}

package middleware

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/remind101/gamp/httpx"
	"github.com/remind101/gamp/logger"
)

func TestLogger(t *testing.T) {
	b := new(bytes.Buffer)

	h := LogTo(httpx.HandlerFunc(func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		logger.Debug(ctx, "inside")
		w.WriteHeader(201)
		return nil
	}), stdLogger(logger.INFO, b))

	resp := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	ctx := httpx.WithRequestID(context.Background(), "abc")

	if err := h.ServeHTTPContext(ctx, resp, req); err != nil {
		t.Fatal(err)
	}

	re := regexp.MustCompile(`^request_id=abc status=info request method=GET path=/ status=201 ms=\d+\n$`)
	if got := b.String(); !re.MatchString(got) {
		t.Fatalf("got %q; want match for %s", got, re)
	}
}

func TestLoggerWithRequestID(t *testing.T) {
	orig := logger.DefaultLogger
	defer func() { logger.DefaultLogger = orig }()

	b := new(bytes.Buffer)
	logger.DefaultLogger = logger.New(newTestLog(b), logger.INFO)

	l := LoggerWithRequestID(httpx.WithRequestID(context.Background(), "abc"), nil)
	l.Info("hello")

	if got, want := b.String(), "status=info hello request_id=abc\n"; got != want {
		t.Fatalf("got %q; want %q", got, want)
	}
}

func newTestLog(b *bytes.Buffer) *log.Logger {
	return log.New(b, "", 0)
}

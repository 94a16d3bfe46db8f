package reporter

import (
	"bytes"
	"context"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/remind101/gamp/logger"
	"github.com/stretchr/testify/assert"
)

func TestLogReporter(t *testing.T) {
	errWithStack := errors.WithStack(errTrackingFailed)

	tests := []struct {
		level string
		err   error
		out   string
	}{
		{"error", errTrackingFailed, `request_id=1234 status=error reported error level=error error="gamp: sending hit" file=unknown line=0` + "\n"},
		{"warning", errWithStack, `request_id=1234 status=warn reported error level=warning error="gamp: sending hit" file=logger_test.go line=15` + "\n"},
		{"critical", errTrackingFailed, `request_id=1234 status=error reported error level=critical error="gamp: sending hit" file=unknown line=0` + "\n"},
		{"debug", errTrackingFailed, ""},
	}

	for _, tt := range tests {
		b := new(bytes.Buffer)
		l := logger.New(log.New(b, "request_id=1234 ", 0), logger.INFO)
		ctx := logger.WithLogger(context.Background(), l)

		err := NewLogReporter().ReportWithLevel(ctx, tt.level, tt.err)
		assert.NoError(t, err)
		assert.Equal(t, tt.out, b.String(), tt.level)
	}
}

package reporter

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/remind101/gamp/logger"
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// LogReporter is a Reporter that logs the error through the logger in the
// context, or logger.DefaultLogger. Reports at "warning" are logged at WARN,
// "debug" and "info" at their own levels and everything else at ERROR.
type LogReporter struct{}

func NewLogReporter() *LogReporter {
	return &LogReporter{}
}

// ReportWithLevel logs the error along with where it was created.
func (h *LogReporter) ReportWithLevel(ctx context.Context, level string, err error) error {
	file, line := "unknown", "0"
	if st, ok := err.(stackTracer); ok {
		if stack := st.StackTrace(); len(stack) > 0 {
			file = fmt.Sprintf("%s", stack[0])
			line = fmt.Sprintf("%d", stack[0])
		}
	}

	log := logger.Error
	switch level {
	case "debug":
		log = logger.Debug
	case "info":
		log = logger.Info
	case "warning":
		log = logger.Warn
	}
	log(ctx, "reported error", "level", level, "error", fmt.Sprintf("%q", err.Error()), "file", file, "line", line)
	return nil
}

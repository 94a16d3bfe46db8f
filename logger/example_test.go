package logger

import (
	"context"
	"log"
	"os"
)

func ExampleLogger() {
	l := New(log.New(os.Stdout, "", 0), DEBUG)

	// Consecutive arguments after the message are treated as key value pairs.
	l.Debug("Tracking response: {}", "hit_type", "pageview")

	// Lines below the configured level are dropped.
	quiet := New(log.New(os.Stdout, "", 0), ERROR)
	Info(WithLogger(context.Background(), quiet), "not printed")

	// Output:
	// status=debug Tracking response: {} hit_type=pageview
}

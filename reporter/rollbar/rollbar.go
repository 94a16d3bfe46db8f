// Package rollbar is a reporter.Reporter that sends errors to Rollbar.
package rollbar

import (
	"context"
	"net/http"
	"os"

	"github.com/rollbar/rollbar-go"
)

const (
	EnvAccessToken = "ROLLBAR_ACCESS_TOKEN"
	EnvEnvironment = "ROLLBAR_ENVIRONMENT"
	EnvEndpoint    = "ROLLBAR_ENDPOINT"
)

type requester interface {
	HTTPRequest() *http.Request
}

type causer interface {
	Cause() error
}

type contexter interface {
	ContextData() map[string]interface{}
}

type rollbarReporter struct{}

// Reporter reports through the process wide rollbar client.
var Reporter = &rollbarReporter{}

func ConfigureReporter(token, environment string) {
	rollbar.SetToken(token)
	rollbar.SetEnvironment(environment)
}

func ConfigureFromEnvironment() {
	if token := os.Getenv(EnvAccessToken); token != "" {
		rollbar.SetToken(token)
	}
	if env := os.Getenv(EnvEnvironment); env != "" {
		rollbar.SetEnvironment(env)
	}
	if endpoint := os.Getenv(EnvEndpoint); endpoint != "" {
		rollbar.SetEndpoint(endpoint)
	}
}

func (r *rollbarReporter) ReportWithLevel(ctx context.Context, level string, err error) error {
	var request *http.Request
	var extraFields map[string]interface{}

	if e, ok := err.(contexter); ok {
		extraFields = e.ContextData()
	}

	if e, ok := err.(requester); ok {
		request = e.HTTPRequest()
	}

	if e, ok := err.(causer); ok {
		err = e.Cause() // Report the actual cause of the error.
	}

	if request != nil {
		rollbar.Log(level, request, err, extraFields)
	} else {
		rollbar.Log(level, err, extraFields)
	}
	return nil
}

func (r *rollbarReporter) Flush() {
	rollbar.Wait()
}

// Package profiling starts the Google Cloud profiling agent from a command
// line flag.
package profiling

import (
	"fmt"
	"os"

	"cloud.google.com/go/profiler"
	"github.com/pkg/errors"
	"github.com/remind101/gamp/logger"
	"github.com/urfave/cli"
)

// Environment variables read when the profiler starts.
const (
	EnvAppName            = "APP_NAME"
	EnvProcessName        = "PROCESS_NAME"
	EnvRelease            = "RELEASE"
	EnvCredentials        = "GOOGLE_APPLICATION_CREDENTIALS"
	EnvCredentialsContent = "GOOGLE_APPLICATION_CREDENTIALS_CONTENT"
)

// start is replaced in tests.
var start = func(cfg profiler.Config) error { return profiler.Start(cfg) }

// GoogleProfilerFlag starts the profiler when it is given a project id.
//
// Problems are logged, never returned.
type GoogleProfilerFlag struct{}

// Set starts the profiling agent for projectID.
func (f GoogleProfilerFlag) Set(projectID string) error {
	if projectID == "" {
		return nil
	}

	cfg, err := Config(projectID)
	if err == nil {
		err = start(cfg)
	}
	if err != nil {
		logger.DefaultLogger.Warn("profiler not started", "error", fmt.Sprintf("%+v", err))
	}
	return nil
}

func (f GoogleProfilerFlag) String() string {
	return ""
}

// Config builds the profiler config from the environment. The service is
// named <APP_NAME>.<PROCESS_NAME>.
//
// The SDK only reads credentials from the file at
// $GOOGLE_APPLICATION_CREDENTIALS, so when
// $GOOGLE_APPLICATION_CREDENTIALS_CONTENT is set it is written there first.
func Config(projectID string) (profiler.Config, error) {
	app, err := requireEnv(EnvAppName)
	if err != nil {
		return profiler.Config{}, err
	}
	process, err := requireEnv(EnvProcessName)
	if err != nil {
		return profiler.Config{}, err
	}

	if creds := os.Getenv(EnvCredentialsContent); creds != "" {
		path, err := requireEnv(EnvCredentials)
		if err != nil {
			return profiler.Config{}, err
		}
		if err := os.WriteFile(path, []byte(creds), 0600); err != nil {
			return profiler.Config{}, errors.Wrapf(err, "profiling: writing credentials to %s", path)
		}
	}

	return profiler.Config{
		Service:        fmt.Sprintf("%s.%s", app, process),
		ServiceVersion: os.Getenv(EnvRelease),
		ProjectID:      projectID,
	}, nil
}

func requireEnv(name string) (string, error) {
	v := os.Getenv(name)
	if v == "" {
		return "", errors.Errorf("profiling: missing/blank required env var %s", name)
	}
	return v, nil
}

// NewCliFlag returns a flag that will enable Cloud Profiler
func NewCliFlag() cli.Flag {
	return cli.GenericFlag{
		Name:   "google-profiler-project",
		Value:  GoogleProfilerFlag{},
		Usage:  "The Google Project ID for submitting Cloud Profiler data",
		EnvVar: "GOOGLE_PROFILER_PROJECT",
	}
}

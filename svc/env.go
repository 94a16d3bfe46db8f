package svc

import (
	"context"
	"log"
	"net"
	"os"

	"github.com/opentracing/opentracing-go"
	"github.com/remind101/gamp/logger"
	"github.com/remind101/gamp/metrics"
	"github.com/remind101/gamp/reporter"
	"github.com/remind101/gamp/reporter/rollbar"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/opentracer"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// Env holds global dependencies that need to be initialized in main() and
// injected as dependencies into an application.
type Env struct {
	Reporter reporter.Reporter
	Logger   logger.Logger
	Context  context.Context
	Close    func() // Should be called in a defer in main().
}

// InitAll will initialize all the common dependencies such as metrics, reporting,
// tracing, and logging.
func InitAll() Env {
	l := InitLogger()
	logger.DefaultLogger = l

	traceCloser := InitTracer()
	metricsCloser := InitMetrics()

	r := InitReporter()

	ctx := reporter.WithReporter(context.Background(), r)
	ctx = logger.WithLogger(ctx, l)

	runtimeCtx, stopRuntime := context.WithCancel(ctx)
	go func() {
		defer reporter.Monitor(runtimeCtx)
		metrics.Runtime(runtimeCtx)
	}()

	return Env{
		Logger:   l,
		Reporter: r,
		Context:  ctx,
		Close: func() {
			stopRuntime()
			reporter.Flush(ctx)
			traceCloser()
			metricsCloser()
		},
	}
}

// ServiceName is APP_NAME, or "gamp".
func ServiceName() string {
	if name := os.Getenv("APP_NAME"); name != "" {
		return name
	}
	return "gamp"
}

// InitTracer configures a global datadog tracer.
//
// Env Vars:
// * DDTRACE_ADDR - The host:port of the local trace agent server. Tracing
//   is left as a no-op when unset.
// * APP_NAME - The service name.
func InitTracer() func() {
	addr := os.Getenv("DDTRACE_ADDR")
	if addr == "" {
		return func() {}
	}

	t := opentracer.New(
		tracer.WithServiceName(ServiceName()),
		tracer.WithAgentAddr(addr),
	)

	// set the Datadog tracer as a GlobalTracer
	opentracing.SetGlobalTracer(t)

	return tracer.Stop
}

// InitMetrics configures package metrics.
//
// Env Vars:
// * STATSD_ADDR - The host:port of the statsd server.
// * APP_NAME - Added as the app tag.
// * PROCESS_NAME - Added as the process tag.
func InitMetrics() (fn func()) {
	fn = func() {
		metrics.Close()
	}

	addr := os.Getenv("STATSD_ADDR")
	if addr == "" {
		return
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		logger.DefaultLogger.Warn("invalid STATSD_ADDR", "addr", addr, "error", err)
		return
	}

	addrs, err := net.LookupHost(host)
	if err != nil || len(addrs) == 0 {
		logger.DefaultLogger.Warn("could not resolve statsd host", "host", host, "error", err)
		return
	}

	r, err := metrics.NewDataDogMetricsReporter(net.JoinHostPort(addrs[0], port), "")
	if err != nil {
		logger.DefaultLogger.Warn("metrics disabled", "error", err)
		return
	}

	metrics.SetAppName(ServiceName())
	if p := os.Getenv("PROCESS_NAME"); p != "" {
		metrics.SetProcessName(p)
	}
	metrics.Reporter = r

	return
}

// InitLogger configures a leveled logger.
//
// Env Vars:
// * LOG_LEVEL - The log level
//
// If you want to replace the global default logger:
//	logger.DefaultLogger = InitLogger()
func InitLogger() logger.Logger {
	return NewLogger(os.Getenv("LOG_LEVEL"))
}

// NewLogger returns a stdout logger at lvl, or ERROR when lvl is empty.
func NewLogger(lvl string) logger.Logger {
	level := logger.ERROR
	if lvl != "" {
		level = logger.ParseLevel(lvl)
	}

	return logger.New(log.New(os.Stdout, "", 0), level)
}

// InitReporter configures and returns a reporter.Reporter instance.
//
// Env Vars:
// * ROLLBAR_ACCESS_TOKEN - The Rollbar access token
// * ROLLBAR_ENVIRONMENT  - The Rollbar environment (staging, production)
// * ROLLBAR_ENDPOINT     - The Rollbar endpoint: https://api.rollbar.com/api/1/item/
func InitReporter() reporter.Reporter {
	rep := reporter.MultiReporter{}

	// Log Reporter, uses package level logger.
	rep = append(rep, reporter.NewLogReporter())

	if os.Getenv(rollbar.EnvAccessToken) != "" && os.Getenv(rollbar.EnvEnvironment) != "" {
		rollbar.ConfigureFromEnvironment()
		// A failed delivery to Rollbar is still logged.
		rep = append(rep, &reporter.FallbackReporter{
			Reporter: rollbar.Reporter,
			Fallback: reporter.NewLogReporter(),
		})
	} else {
		logger.DefaultLogger.Info("Rollbar is not configured, skipping Rollbar reporter")
	}

	return rep
}

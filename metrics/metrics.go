package metrics

import "sync"

// Usage:
//   metrics.SetAppName("gamp")
//   metrics.Reporter, _ = NewDataDogMetricsReporter("statsd:8125")
//   defer metrics.Close()
//   ...
//   metrics.Count("gamp.hit.sent", 1, map[string]string{"hit_type": "pageview"}, 1.0)
//
var Reporter MetricsReporter

var (
	tagsMu      sync.RWMutex
	defaultTags map[string]string
)

func init() {
	resetReporter()
	resetDefaultTags()
}

type MetricsReporter interface {
	Count(name string, value int64, tags map[string]string, rate float64) error
	Gauge(name string, value float64, tags map[string]string, rate float64) error
	Histogram(name string, value float64, tags map[string]string, rate float64) error
	Set(name string, value string, tags map[string]string, rate float64) error
	TimeInMilliseconds(name string, value float64, tags map[string]string, rate float64) error
	Close() error
}

// SetAppName adds a "app:<name>" tag to each metric
func SetAppName(appName string) {
	setDefaultTag("app", appName)
}

// SetProcessName adds a "process:<name>" tag to each metric
func SetProcessName(processName string) {
	setDefaultTag("process", processName)
}

func setDefaultTag(k, v string) {
	tagsMu.Lock()
	defer tagsMu.Unlock()
	defaultTags[k] = v
}

func resetDefaultTags() {
	tagsMu.Lock()
	defer tagsMu.Unlock()
	defaultTags = make(map[string]string, 1)
}

func resetReporter() {
	Reporter = &NoopMetricsReporter{}
}

func Count(name string, value int64, tags map[string]string, rate float64) error {
	return Reporter.Count(name, value, withDefaultTags(tags), rate)
}

func Gauge(name string, value float64, tags map[string]string, rate float64) error {
	return Reporter.Gauge(name, value, withDefaultTags(tags), rate)
}

func Histogram(name string, value float64, tags map[string]string, rate float64) error {
	return Reporter.Histogram(name, value, withDefaultTags(tags), rate)
}

func Set(name string, value string, tags map[string]string, rate float64) error {
	return Reporter.Set(name, value, withDefaultTags(tags), rate)
}

func TimeInMilliseconds(name string, value float64, tags map[string]string, rate float64) error {
	return Reporter.TimeInMilliseconds(name, value, withDefaultTags(tags), rate)
}

// Close closes the backend connection cleanly
func Close() error {
	return Reporter.Close()
}

// Time is a shorthand for TimeInMilliseconds for easy code block instrumentation
//
// Usage:
//   t := metrics.Time("gamp.dispatch.time", map[string]string{"hit_type": "event"}, 1.0)
//   defer t.Done()
//   ...
//   t.SetTags(map[string]string{"status": "200"}) // totally optional
func Time(name string, tags map[string]string, rate float64) *timer {
	t := &timer{name: name, tags: copyTags(tags), rate: rate}
	t.Start()
	return t
}

// ResponseTime is a shorthand for reporting web response time.
func ResponseTime() *timer {
	t := &timer{name: "response.time", rate: 1.0}
	t.Start()
	return t
}

func copyTags(tags map[string]string) map[string]string {
	if tags == nil {
		return nil
	}
	c := make(map[string]string, len(tags))
	for k, v := range tags {
		c[k] = v
	}
	return c
}

func withDefaultTags(tags map[string]string) map[string]string {
	tagsMu.RLock()
	defer tagsMu.RUnlock()
	result := make(map[string]string, len(tags)+len(defaultTags))
	for k, v := range defaultTags {
		result[k] = v
	}
	for k, v := range tags {
		result[k] = v
	}
	return result
}

package metrics

import "sync"

// Metric is a single recorded data point.
type Metric struct {
	Name  string
	Tags  map[string]string
	Rate  float64
	Value float64
}

// Recorder is an in-memory MetricsReporter that keeps every count and
// timing it receives. It is meant for tests.
type Recorder struct {
	mu      sync.Mutex
	Counts  []Metric
	Timings []Metric
	Gauges  []Metric
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// Install makes r the package Reporter and returns a func restoring the
// previous one.
func (r *Recorder) Install() func() {
	prev := Reporter
	Reporter = r
	return func() { Reporter = prev }
}

func (r *Recorder) Count(name string, value int64, tags map[string]string, rate float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Counts = append(r.Counts, Metric{name, tags, rate, float64(value)})
	return nil
}

func (r *Recorder) Gauge(name string, value float64, tags map[string]string, rate float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Gauges = append(r.Gauges, Metric{name, tags, rate, value})
	return nil
}

func (r *Recorder) Histogram(name string, value float64, tags map[string]string, rate float64) error {
	return nil
}

func (r *Recorder) Set(name string, value string, tags map[string]string, rate float64) error {
	return nil
}

func (r *Recorder) TimeInMilliseconds(name string, value float64, tags map[string]string, rate float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Timings = append(r.Timings, Metric{name, tags, rate, value})
	return nil
}

func (r *Recorder) Close() error {
	return nil
}

// CountOf sums the counts recorded under name.
func (r *Recorder) CountOf(name string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.Counts {
		if m.Name == name {
			n += int64(m.Value)
		}
	}
	return n
}

// Last returns the last count recorded under name.
func (r *Recorder) Last(name string) (Metric, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.Counts) - 1; i >= 0; i-- {
		if r.Counts[i].Name == name {
			return r.Counts[i], true
		}
	}
	return Metric{}, false
}

// LastTiming returns the last timing recorded under name.
func (r *Recorder) LastTiming(name string) (Metric, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.Timings) - 1; i >= 0; i-- {
		if r.Timings[i].Name == name {
			return r.Timings[i], true
		}
	}
	return Metric{}, false
}

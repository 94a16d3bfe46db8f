package metrics

import (
	"context"
	"runtime"
	"time"
)

// RuntimeInterval is how often Runtime samples.
var RuntimeInterval = 30 * time.Second

// Runtime reports runtime gauges every RuntimeInterval until ctx is done.
//
//	go metrics.Runtime(ctx)
func Runtime(ctx context.Context) {
	t := time.NewTicker(RuntimeInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			ReportRuntimeMetrics()
		}
	}
}

// ReportRuntimeMetrics emits a single sample of goroutine, heap and GC
// gauges under the "runtime." prefix.
func ReportRuntimeMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	gauges := map[string]float64{
		"runtime.goroutines":     float64(runtime.NumGoroutine()),
		"runtime.heap.alloc":     float64(m.HeapAlloc),
		"runtime.heap.idle":      float64(m.HeapIdle),
		"runtime.heap.inuse":     float64(m.HeapInuse),
		"runtime.heap.objects":   float64(m.HeapObjects),
		"runtime.heap.released":  float64(m.HeapReleased),
		"runtime.heap.sys":       float64(m.HeapSys),
		"runtime.stack.inuse":    float64(m.StackInuse),
		"runtime.mallocs":        float64(m.Mallocs),
		"runtime.frees":          float64(m.Frees),
		"runtime.gc.count":       float64(m.NumGC),
		"runtime.gc.next":        float64(m.NextGC),
		"runtime.gc.pause_total": float64(m.PauseTotalNs) / float64(time.Millisecond),
	}

	for name, value := range gauges {
		Gauge(name, value, nil, 1.0)
	}
}

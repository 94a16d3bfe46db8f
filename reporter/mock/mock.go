// Package mock provides a Reporter that records every call, for tests.
package mock

import (
	"context"
	"sync"
)

type Reporter struct {
	mu    sync.Mutex
	Calls []Params
}

type Params struct {
	Ctx   context.Context
	Level string
	Err   error
}

func NewReporter() *Reporter {
	return &Reporter{
		Calls: make([]Params, 0),
	}
}

func (r *Reporter) ReportWithLevel(ctx context.Context, level string, err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, Params{ctx, level, err})
	return nil
}

// Levels returns the level of every call, in order.
func (r *Reporter) Levels() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	levels := make([]string, 0, len(r.Calls))
	for _, c := range r.Calls {
		levels = append(levels, c.Level)
	}
	return levels
}

func (r *Reporter) Flush() {}

package track

import (
	"context"
	"net/http"
)

// Tracker builds and sends hits.
type Tracker struct {
	Builder    *Builder
	Dispatcher *Dispatcher
}

// New returns a Tracker where the builder and the dispatcher share c.
func New(c ConfigSource) *Tracker {
	return &Tracker{
		Builder:    NewBuilder(c),
		Dispatcher: NewDispatcher(c),
	}
}

// Track builds a hit for r with fields and sends it.
func (t *Tracker) Track(ctx context.Context, r *http.Request, fields Payload) (*Result, error) {
	p := t.Builder.Build(r, fields)
	return t.Dispatcher.Send(ctx, p)
}

// TrackPageView sends a pageview hit for r.
func (t *Tracker) TrackPageView(ctx context.Context, r *http.Request) error {
	_, err := t.Track(ctx, r, Payload{KeyHitType: HitPageView})
	return err
}

// TrackEvent sends an event hit for r.
func (t *Tracker) TrackEvent(ctx context.Context, r *http.Request, e Event) error {
	_, err := t.Track(ctx, r, e.Fields())
	return err
}

// WithTracker inserts a Tracker into the context.
func WithTracker(ctx context.Context, t *Tracker) context.Context {
	return context.WithValue(ctx, trackerKey, t)
}

// FromContext extracts a Tracker from the context.
func FromContext(ctx context.Context) (*Tracker, bool) {
	t, ok := ctx.Value(trackerKey).(*Tracker)
	return t, ok
}

// TrackEvent sends an event with the Tracker in ctx. It does nothing when
// ctx carries no Tracker.
func TrackEvent(ctx context.Context, r *http.Request, e Event) error {
	if t, ok := FromContext(ctx); ok {
		return t.TrackEvent(ctx, r, e)
	}
	return nil
}

// TrackPageView sends a pageview with the Tracker in ctx. It does nothing
// when ctx carries no Tracker.
func TrackPageView(ctx context.Context, r *http.Request) error {
	if t, ok := FromContext(ctx); ok {
		return t.TrackPageView(ctx, r)
	}
	return nil
}

type key int

const (
	trackerKey key = iota
)

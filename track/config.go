package track

import "sync/atomic"

// Config holds the switches read on every build and dispatch.
type Config struct {
	// Enabled is the master switch. Nothing is sent when it is false.
	Enabled bool

	// Debug routes hits to the validation endpoint and logs its response.
	Debug bool

	// TrackingID is the property id placed in the tid field.
	TrackingID string
}

// ConfigSource provides the current Config. Implementations must be safe for
// concurrent use.
type ConfigSource interface {
	Config() Config
}

// StaticConfig is a ConfigSource that never changes.
type StaticConfig Config

// Config returns c.
func (c StaticConfig) Config() Config {
	return Config(c)
}

// AtomicConfig is a ConfigSource that can be changed at runtime.
type AtomicConfig struct {
	v atomic.Pointer[Config]
}

// NewAtomicConfig returns an AtomicConfig holding c.
func NewAtomicConfig(c Config) *AtomicConfig {
	a := &AtomicConfig{}
	a.Store(c)
	return a
}

// Config returns the current Config, or the zero Config if none was stored.
func (a *AtomicConfig) Config() Config {
	if c := a.v.Load(); c != nil {
		return *c
	}
	return Config{}
}

// Store replaces the current Config.
func (a *AtomicConfig) Store(c Config) {
	a.v.Store(&c)
}

// Update applies fn to a copy of the current Config and stores the result.
// Concurrent updates are serialized.
func (a *AtomicConfig) Update(fn func(*Config)) {
	for {
		old := a.v.Load()
		next := Config{}
		if old != nil {
			next = *old
		}
		fn(&next)
		if a.v.CompareAndSwap(old, &next) {
			return
		}
	}
}

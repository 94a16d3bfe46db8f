// Package scrub removes personally identifiable information from free text
// before it leaves the process.
//
// A detected token is replaced by a marker naming what was found, e.g.
//
//	"contact me at jane@example.com" => "contact me at {{EMAIL}}"
package scrub

// A Scrubber will process a string and remove PII making it safe for
// logging and analytics.
type Scrubber interface {
	Scrub(string) string
}

// NoopScrubber returns its input unchanged.
type NoopScrubber struct{}

func (s *NoopScrubber) Scrub(str string) string {
	return str
}

// Default scrubs with every built-in detector except name detection. Names
// are left alone because event categories and actions routinely contain
// capitalised words that look like names.
var Default = New(Without(Name))

// PIIScrubber runs a fixed set of detectors over its input. The detector set
// is decided at construction and never changes, so a PIIScrubber is safe for
// concurrent use.
type PIIScrubber struct {
	detectors []Detector
}

// Option configures the detector set of New.
type Option func(*options)

type options struct {
	detectors []Detector
}

// With replaces the detector set with exactly ds.
func With(ds ...Detector) Option {
	return func(o *options) {
		o.detectors = append([]Detector(nil), ds...)
	}
}

// Without removes the named detectors from the set.
func Without(names ...string) Option {
	return func(o *options) {
		drop := make(map[string]bool, len(names))
		for _, n := range names {
			drop[n] = true
		}
		kept := o.detectors[:0:0]
		for _, d := range o.detectors {
			if !drop[d.Name] {
				kept = append(kept, d)
			}
		}
		o.detectors = kept
	}
}

// New returns a PIIScrubber using all built-in detectors, adjusted by opts.
func New(opts ...Option) *PIIScrubber {
	o := &options{detectors: Builtin()}
	for _, opt := range opts {
		opt(o)
	}
	return &PIIScrubber{detectors: o.detectors}
}

// Scrub replaces every detected token in s with its marker.
func (s *PIIScrubber) Scrub(str string) string {
	for _, d := range s.detectors {
		str = d.Replace(str)
	}
	return str
}

// Detectors returns the names of the detectors in the order they run.
func (s *PIIScrubber) Detectors() []string {
	names := make([]string, len(s.detectors))
	for i, d := range s.detectors {
		names[i] = d.Name
	}
	return names
}

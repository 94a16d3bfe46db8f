package track

import "net/url"

// Measurement Protocol parameter names.
const (
	KeyVersion          = "v"
	KeyTrackingID       = "tid"
	KeyClientID         = "cid"
	KeyIP               = "uip"
	KeyAnonymizeIP      = "aip"
	KeyUserAgent        = "ua"
	KeyReferrer         = "dr"
	KeyDocumentLocation = "dl"
	KeyHitType          = "t"
	KeyEventCategory    = "ec"
	KeyEventAction      = "ea"
	KeyEventLabel       = "el"
	KeyEventValue       = "ev"
)

// Hit types.
const (
	HitPageView = "pageview"
	HitEvent    = "event"
)

// ProtocolVersion is the only version of the Measurement Protocol supported.
const ProtocolVersion = "1"

// Payload is a single hit, keyed by Measurement Protocol parameter name.
type Payload map[string]string

// Values returns the payload as url.Values.
func (p Payload) Values() url.Values {
	v := make(url.Values, len(p))
	for k, s := range p {
		v.Set(k, s)
	}
	return v
}

// Copy returns a shallow copy of p.
func (p Payload) Copy() Payload {
	c := make(Payload, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// HitType returns the t field.
func (p Payload) HitType() string {
	return p[KeyHitType]
}

// Event is the caller supplied part of an event hit.
type Event struct {
	Category string
	Action   string
	// Label and Value are only sent when not empty.
	Label string
	Value string
}

// Fields returns the event as payload fields, including the hit type.
func (e Event) Fields() Payload {
	p := Payload{
		KeyHitType:       HitEvent,
		KeyEventCategory: e.Category,
		KeyEventAction:   e.Action,
	}
	if e.Label != "" {
		p[KeyEventLabel] = e.Label
	}
	if e.Value != "" {
		p[KeyEventValue] = e.Value
	}
	return p
}

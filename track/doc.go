// Package track builds Google Analytics Measurement Protocol (v1) hits from
// inbound HTTP requests and sends them to the collect endpoint.
//
// Tracking is off unless the ConfigSource says otherwise:
//
//	cfg := track.NewAtomicConfig(track.Config{Enabled: true, TrackingID: "UA-XXXX-Y"})
//	t := track.New(cfg)
//	err := t.TrackEvent(ctx, r, track.Event{Category: "signup", Action: "submit"})
//
// Every hit gets a fresh random client id, an anonymized IP and has its
// document location query values, event action and event label scrubbed
// of personal data before it leaves the process.
package track

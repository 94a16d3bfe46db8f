// Package svc wires the ambient stack of a gamp service: logging, error
// reporting, metrics, tracing and a standard middleware stack with pageview
// tracking.
//
// Recommend Usage:
//
//	func main() {
//		env := svc.InitAll()
//		defer env.Close()
//
//		r := httpx.NewRouter()
//		// ... add routes
//
//		h := svc.NewStandardHandler(svc.HandlerOpts{
//			Router:   r,
//			Reporter: env.Reporter,
//			Tracker:  track.New(track.StaticConfig{Enabled: true, TrackingID: "UA-XXXX-Y"}),
//		})
//
//		s := svc.NewServer(h, svc.WithPort("8080"))
//		svc.RunServer(s)
//	}
package svc

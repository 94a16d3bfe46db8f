package main

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
	"github.com/remind101/gamp/httpx"
	"github.com/remind101/gamp/logger"
	"github.com/remind101/gamp/svc"
	"github.com/remind101/gamp/track"
	"github.com/urfave/cli"
)

func runServe(c *cli.Context) error {
	env := svc.InitAll()
	defer env.Close()
	// InitAll reads LOG_LEVEL only; the flag wins.
	logger.DefaultLogger = svc.NewLogger(c.GlobalString("log-level"))

	cfg := track.NewAtomicConfig(configFromFlags(c))
	t, err := newTracker(c, cfg)
	if err != nil {
		return err
	}

	h := svc.NewStandardHandler(svc.HandlerOpts{
		Router:   newRouter(cfg),
		Reporter: env.Reporter,
		Tracker:  t,
	})

	return svc.RunServer(svc.NewServer(h, svc.WithPort(c.String("port"))))
}

// newRouter returns the demo site. Every 200 response is tracked as a
// pageview by the standard handler.
func newRouter(cfg *track.AtomicConfig) *httpx.Router {
	r := httpx.NewRouter()

	r.HandleFunc("/", ok).Methods("GET")
	r.HandleFunc("/test-middleware", ok).Methods("GET")
	r.HandleFunc("/test-middleware-error", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return errors.New("Not OK")
	}).Methods("GET")
	r.HandleFunc("/events", postEvent).Methods("POST")
	r.HandleFunc("/tracking", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return putTracking(ctx, w, r, cfg)
	}).Methods("PUT")

	return r
}

func ok(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	_, err := fmt.Fprint(w, "OK")
	return err
}

// postEvent tracks the event described by the category, action, label and
// value form fields.
func postEvent(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return httpx.WithStatus(err, http.StatusBadRequest)
	}

	e := track.Event{
		Category: r.PostForm.Get("category"),
		Action:   r.PostForm.Get("action"),
		Label:    r.PostForm.Get("label"),
		Value:    r.PostForm.Get("value"),
	}
	if e.Category == "" || e.Action == "" {
		return httpx.WithStatus(errors.New("category and action are required"), http.StatusUnprocessableEntity)
	}
	if e.Value != "" {
		if _, err := strconv.Atoi(e.Value); err != nil {
			return httpx.WithStatus(errors.New("value must be an integer"), http.StatusUnprocessableEntity)
		}
	}

	if err := track.TrackEvent(ctx, r, e); err != nil {
		return err
	}

	w.WriteHeader(http.StatusAccepted)
	return nil
}

// putTracking toggles the tracking switches at runtime.
func putTracking(ctx context.Context, w http.ResponseWriter, r *http.Request, cfg *track.AtomicConfig) error {
	if err := r.ParseForm(); err != nil {
		return httpx.WithStatus(err, http.StatusBadRequest)
	}

	var parseErr error
	boolField := func(name string, dst *bool) {
		v := r.PostForm.Get(name)
		if v == "" || parseErr != nil {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			parseErr = httpx.WithStatus(errors.Wrapf(err, "invalid %s", name), http.StatusUnprocessableEntity)
			return
		}
		*dst = b
	}

	next := cfg.Config()
	boolField("enabled", &next.Enabled)
	boolField("debug", &next.Debug)
	if parseErr != nil {
		return parseErr
	}
	cfg.Store(next)

	logger.Info(ctx, "tracking updated", "enabled", next.Enabled, "debug", next.Debug)
	w.WriteHeader(http.StatusNoContent)
	return nil
}

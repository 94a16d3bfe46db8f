package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/remind101/gamp/logger"
	"github.com/remind101/gamp/profiling"
	"github.com/remind101/gamp/svc"
	"github.com/remind101/gamp/track"
	"github.com/urfave/cli"
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "gamp"
	app.Usage = "Google Analytics Measurement Protocol tracking"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:   "track-events",
			Usage:  "Send hits. Nothing leaves the process without it.",
			EnvVar: "GA_MEASUREMENT_PROTOCOL_TRACK_EVENTS",
		},
		cli.BoolFlag{
			Name:   "debug",
			Usage:  "Send hits to the validation endpoint and log its response.",
			EnvVar: "GA_MEASUREMENT_PROTOCOL_DEBUG",
		},
		cli.StringFlag{
			Name:   "tracking-id",
			Usage:  "Property id placed in the tid field, e.g. UA-XXXX-Y.",
			EnvVar: "GA_MEASUREMENT_PROTOCOL_UA",
		},
		cli.StringSliceFlag{
			Name:   "trusted-proxy",
			Usage:  "CIDR or address of a proxy allowed to set forwarding headers. Repeatable.",
			EnvVar: "GA_MEASUREMENT_PROTOCOL_TRUSTED_PROXIES",
		},
		cli.StringFlag{
			Name:   "log-level",
			Value:  "error",
			Usage:  "One of debug, info, warn, error, crit.",
			EnvVar: "LOG_LEVEL",
		},
		profiling.NewCliFlag(),
	}
	app.Before = func(c *cli.Context) error {
		logger.DefaultLogger = svc.NewLogger(c.String("log-level"))
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:  "serve",
			Usage: "Run a demo site with pageview tracking",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:   "port",
					Value:  "8080",
					EnvVar: "PORT",
				},
			},
			Action: runServe,
		},
		{
			Name:      "event",
			Usage:     "Send a single event hit",
			ArgsUsage: "<category> <action> [label] [value]",
			Flags:     []cli.Flag{urlFlag},
			Action:    runEvent,
		},
		{
			Name:   "pageview",
			Usage:  "Send a single pageview hit",
			Flags:  []cli.Flag{urlFlag},
			Action: runPageView,
		},
	}
	return app
}

var urlFlag = cli.StringFlag{
	Name:  "url",
	Value: "http://localhost/",
	Usage: "Document location of the hit.",
}

// configFromFlags reads the tracking switches from the global flags.
func configFromFlags(c *cli.Context) track.Config {
	return track.Config{
		Enabled:    c.GlobalBool("track-events"),
		Debug:      c.GlobalBool("debug"),
		TrackingID: c.GlobalString("tracking-id"),
	}
}

func newTracker(c *cli.Context, cfg track.ConfigSource) (*track.Tracker, error) {
	proxies, err := track.ParseTrustedProxies(c.GlobalStringSlice("trusted-proxy"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid --trusted-proxy")
	}

	t := track.New(cfg)
	t.Builder.IPResolver = &track.IPResolver{TrustedProxies: proxies}
	return t, nil
}

func runEvent(c *cli.Context) error {
	args := c.Args()
	if len(args) < 2 {
		return errors.New("event requires a category and an action")
	}
	e := track.Event{
		Category: args.Get(0),
		Action:   args.Get(1),
		Label:    args.Get(2),
		Value:    args.Get(3),
	}
	return sendOne(c, e.Fields())
}

func runPageView(c *cli.Context) error {
	return sendOne(c, track.Payload{track.KeyHitType: track.HitPageView})
}

func sendOne(c *cli.Context, fields track.Payload) error {
	cfg := configFromFlags(c)
	t, err := newTracker(c, track.StaticConfig(cfg))
	if err != nil {
		return err
	}

	r, err := http.NewRequest("GET", c.String("url"), nil)
	if err != nil {
		return errors.Wrap(err, "invalid --url")
	}

	ctx := logger.WithLogger(context.Background(), logger.DefaultLogger)
	res, err := t.Track(ctx, r, fields)
	if err != nil {
		return err
	}
	return printResult(c.App.Writer, res)
}

func printResult(w io.Writer, res *track.Result) error {
	if res == nil {
		fmt.Fprintln(w, "tracking disabled, nothing sent (see --track-events)")
		return nil
	}
	if res.Validation == nil {
		fmt.Fprintf(w, "sent to %s: %d\n", res.Endpoint, res.StatusCode)
		return nil
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res.Validation); err != nil {
		return err
	}
	if !res.Validation.Valid() {
		return errors.New("hit is not valid")
	}
	return nil
}

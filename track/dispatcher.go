package track

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/remind101/gamp/client"
	"github.com/remind101/gamp/logger"
	"github.com/remind101/gamp/metrics"
)

const (
	// DefaultEndpoint collects hits.
	DefaultEndpoint = "https://www.google-analytics.com/collect"

	// DefaultDebugEndpoint validates hits without recording them.
	DefaultDebugEndpoint = "https://www.google-analytics.com/debug/collect"
)

// Result describes a delivered hit.
type Result struct {
	Endpoint   string
	StatusCode int

	// Validation is only set in debug mode.
	Validation *ValidationResponse
}

// ValidationResponse is the body returned by the debug endpoint.
type ValidationResponse struct {
	HitParsingResult []HitParsingResult `json:"hitParsingResult"`
	ParserMessage    []ParserMessage    `json:"parserMessage"`
}

// Valid reports whether every hit in the response was accepted.
func (v *ValidationResponse) Valid() bool {
	for _, h := range v.HitParsingResult {
		if !h.Valid {
			return false
		}
	}
	return true
}

// HitParsingResult is the verdict on one hit.
type HitParsingResult struct {
	Valid         bool            `json:"valid"`
	ParserMessage []ParserMessage `json:"parserMessage"`
	Hit           string          `json:"hit"`
}

// ParserMessage explains a problem found in a hit.
type ParserMessage struct {
	MessageType string `json:"messageType"`
	Description string `json:"description"`
	MessageCode string `json:"messageCode,omitempty"`
	Parameter   string `json:"parameter,omitempty"`
}

// Dispatcher sends hits to the collect endpoint.
type Dispatcher struct {
	Config ConfigSource

	// Client performs the POST. The zero value uses a client traced as
	// "ga.collect".
	Client *client.Client

	// Endpoints, overridable for tests.
	Endpoint      string
	DebugEndpoint string

	// Logger receives the debug response. When nil, the logger in the
	// context is used.
	Logger logger.Logger
}

// NewDispatcher returns a Dispatcher reading c on every send.
func NewDispatcher(c ConfigSource) *Dispatcher {
	return &Dispatcher{
		Config: c,
		Client: client.New(client.Metrics("gamp.client"), client.Traced("ga.collect")),
	}
}

// Send delivers p. It returns nil, nil without any network call when
// tracking is disabled. Delivery is attempted exactly once.
func (d *Dispatcher) Send(ctx context.Context, p Payload) (*Result, error) {
	cfg := d.Config.Config()
	tags := map[string]string{
		"hit_type": p.HitType(),
		"debug":    strconv.FormatBool(cfg.Debug),
	}

	if !cfg.Enabled {
		metrics.Count("gamp.hit.skipped", 1, tags, 1.0)
		return nil, nil
	}

	t := metrics.Time("gamp.dispatch.time", tags, 1.0)
	defer t.Done()

	endpoint := d.endpoint(cfg.Debug)

	var (
		body json.RawMessage
		data interface{}
	)
	if cfg.Debug {
		data = &body
	}

	resp, err := d.client().Do(ctx, "POST", endpoint, p.Values(), data)
	if err != nil {
		metrics.Count("gamp.hit.failed", 1, tags, 1.0)
		return nil, errors.Wrap(err, "gamp: sending hit")
	}
	metrics.Count("gamp.hit.sent", 1, tags, 1.0)

	res := &Result{Endpoint: endpoint, StatusCode: resp.StatusCode}
	if cfg.Debug {
		d.logResponse(ctx, body)

		var v ValidationResponse
		if err := json.Unmarshal(body, &v); err != nil {
			return res, errors.Wrap(err, "gamp: decoding validation response")
		}
		res.Validation = &v
	}

	return res, nil
}

func (d *Dispatcher) logResponse(ctx context.Context, body []byte) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, body); err != nil {
		buf.Reset()
		buf.Write(body)
	}
	msg := fmt.Sprintf("Tracking response: %s", buf.String())

	if d.Logger != nil {
		d.Logger.Debug(msg)
		return
	}
	logger.Debug(ctx, msg)
}

func (d *Dispatcher) endpoint(debug bool) string {
	if debug {
		if d.DebugEndpoint != "" {
			return d.DebugEndpoint
		}
		return DefaultDebugEndpoint
	}
	if d.Endpoint != "" {
		return d.Endpoint
	}
	return DefaultEndpoint
}

var defaultClient = client.New(client.Traced("ga.collect"))

func (d *Dispatcher) client() *client.Client {
	if d.Client == nil {
		return defaultClient
	}
	return d.Client
}

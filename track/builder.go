package track

import (
	"net/http"

	"github.com/pborman/uuid"
	"github.com/remind101/gamp/scrub"
)

// Builder assembles hits from inbound requests.
type Builder struct {
	Config ConfigSource

	// Scrubber cleans the document location query, event action and event
	// label. The zero value uses scrub.Default.
	Scrubber scrub.Scrubber

	// IPResolver finds the uip value. The zero value uses an IPResolver
	// with the default headers and no trusted proxies.
	IPResolver *IPResolver

	// NewClientID generates a cid per hit. The zero value uses random
	// v4 UUIDs.
	NewClientID func() string
}

// NewBuilder returns a Builder with the default scrubber, IP resolver and
// client ids.
func NewBuilder(c ConfigSource) *Builder {
	return &Builder{Config: c}
}

// Build returns the scrubbed hit for r. fields are merged last and win over
// the values derived from the request.
func (b *Builder) Build(r *http.Request, fields Payload) Payload {
	ip := b.ipResolver().ClientIP(r)
	if ip == "" {
		ip = UnknownIP
	}

	p := Payload{
		KeyVersion:          ProtocolVersion,
		KeyTrackingID:       b.Config.Config().TrackingID,
		KeyClientID:         b.newClientID(),
		KeyIP:               ip,
		KeyAnonymizeIP:      "1",
		KeyDocumentLocation: AbsoluteURL(r),
	}
	if ua := r.UserAgent(); ua != "" {
		p[KeyUserAgent] = ua
	}
	if ref := r.Referer(); ref != "" {
		p[KeyReferrer] = ref
	}
	for k, v := range fields {
		p[k] = v
	}

	return ScrubPayload(b.scrubber(), p)
}

func (b *Builder) ipResolver() *IPResolver {
	if b.IPResolver == nil {
		return &IPResolver{}
	}
	return b.IPResolver
}

func (b *Builder) scrubber() scrub.Scrubber {
	if b.Scrubber == nil {
		return scrub.Default
	}
	return b.Scrubber
}

func (b *Builder) newClientID() string {
	if b.NewClientID == nil {
		return uuid.New()
	}
	return b.NewClientID()
}

// AbsoluteURL rebuilds the full URL a request was made to.
func AbsoluteURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	host := r.Host
	if host == "" {
		host = r.URL.Host
	}
	return scheme + "://" + host + r.URL.RequestURI()
}

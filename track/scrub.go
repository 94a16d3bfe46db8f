package track

import (
	"net/url"
	"strings"

	"github.com/remind101/gamp/scrub"
)

// ScrubPayload returns a copy of p with personal data removed from the
// document location query values, the event action and the event label.
// p is not modified.
func ScrubPayload(s scrub.Scrubber, p Payload) Payload {
	scrubbed := p.Copy()

	if dl, ok := scrubbed[KeyDocumentLocation]; ok {
		scrubbed[KeyDocumentLocation] = scrubLocation(s, dl)
	}

	for _, k := range []string{KeyEventLabel, KeyEventAction} {
		if v, ok := scrubbed[k]; ok {
			scrubbed[k] = s.Scrub(v)
		}
	}

	return scrubbed
}

// scrubLocation scrubs the value of every query parameter of a URL. Only
// the query changes. Parameters with blank values are dropped and the order
// of the remaining ones is kept.
func scrubLocation(s scrub.Scrubber, dl string) string {
	u, err := url.Parse(dl)
	if err != nil {
		return dl
	}

	var pairs []string
	for _, part := range strings.Split(u.RawQuery, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		key, value := queryUnescape(k), queryUnescape(v)
		if value == "" {
			continue
		}
		pairs = append(pairs, queryEscape(key)+"="+queryEscape(s.Scrub(value)))
	}

	u.RawQuery = strings.Join(pairs, "&")
	u.ForceQuery = false
	return u.String()
}

// queryUnescape decodes s, keeping it as literal text when it holds an
// invalid escape.
func queryUnescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return strings.ReplaceAll(s, "+", " ")
}

var braces = strings.NewReplacer("%7B", "{", "%7D", "}")

// queryEscape form encodes s, leaving { and } alone so replacement
// markers stay readable.
func queryEscape(s string) string {
	return braces.Replace(url.QueryEscape(s))
}

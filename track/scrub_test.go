package track

import (
	"testing"

	"github.com/remind101/gamp/scrub"
	"github.com/stretchr/testify/assert"
)

func TestScrubPayloadLocation(t *testing.T) {
	tests := []struct {
		dl       string
		expected string
	}{
		{"http://testserver/test-url/", "http://testserver/test-url/"},
		{"http://testserver/test-url/?email=foo@example.com", "http://testserver/test-url/?email={{EMAIL}}"},
		{"http://testserver/?b=2&a=1", "http://testserver/?b=2&a=1"},
		{"http://testserver/?a=1&blank=&bare", "http://testserver/?a=1"},
		{"http://testserver/?blank=", "http://testserver/"},
		{"http://testserver/?q=hello+world&q=again", "http://testserver/?q=hello+world&q=again"},
		{"http://testserver/?next=https%3A%2F%2Fevil.example.com%2F", "http://testserver/?next={{URL}}"},
		{"http://testserver/?tag=%7Bkeep%7D", "http://testserver/?tag={keep}"},
		{"http://testserver/?user_email=a%40b.co", "http://testserver/?user_email={{EMAIL}}"},
		// Only the query is scrubbed.
		{"http://testserver/users/jane@example.com/?x=1", "http://testserver/users/jane@example.com/?x=1"},
		{"http://testserver/#frag", "http://testserver/#frag"},
		// Invalid escapes are kept as text.
		{"http://testserver/?a=%zz&b=1", "http://testserver/?a=%25zz&b=1"},
		{"http://testserver/?%zz=1", "http://testserver/?%25zz=1"},
		// Digits that are not phone numbers survive.
		{"http://testserver/?id=12345678", "http://testserver/?id=12345678"},
		{"http://testserver/?ts=1697712345", "http://testserver/?ts=1697712345"},
		{"http://testserver/?ip=192.168.100.200", "http://testserver/?ip=192.168.100.200"},
		{"http://testserver/?session=550e8400-e29b-41d4-a716-446655440000", "http://testserver/?session=550e8400-e29b-41d4-a716-446655440000"},
		{"http://testserver/?phone=%28201%29+555-0123", "http://testserver/?phone={{PHONE}}"},
	}

	for _, tt := range tests {
		p := ScrubPayload(scrub.Default, Payload{KeyDocumentLocation: tt.dl})
		assert.Equal(t, tt.expected, p[KeyDocumentLocation], tt.dl)
	}
}

func TestScrubPayloadDoesNotMutate(t *testing.T) {
	in := Payload{
		KeyDocumentLocation: "http://testserver/?e=foo@example.com",
		KeyEventAction:      "foo@example.com",
		KeyEventLabel:       "foo@example.com",
		KeyEventCategory:    "foo@example.com",
	}
	out := ScrubPayload(scrub.Default, in)

	assert.Equal(t, "foo@example.com", in[KeyEventAction])
	assert.Equal(t, "http://testserver/?e=foo@example.com", in[KeyDocumentLocation])
	assert.Equal(t, "{{EMAIL}}", out[KeyEventAction])
	assert.Equal(t, "{{EMAIL}}", out[KeyEventLabel])
	// The category is a fixed label chosen by the caller.
	assert.Equal(t, "foo@example.com", out[KeyEventCategory])
}

func TestScrubPayloadMissingKeys(t *testing.T) {
	out := ScrubPayload(scrub.Default, Payload{KeyHitType: HitPageView})
	assert.Equal(t, Payload{KeyHitType: HitPageView}, out)
}

func TestScrubPayloadNoop(t *testing.T) {
	out := ScrubPayload(&scrub.NoopScrubber{}, Payload{KeyEventAction: "foo@example.com"})
	assert.Equal(t, "foo@example.com", out[KeyEventAction])
}

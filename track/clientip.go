package track

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// UnknownIP is sent as uip when no client address can be determined. It is
// in the TEST-NET-1 documentation range and never routable.
const UnknownIP = "192.0.2.0"

// DefaultIPHeaders are inspected in order before falling back to
// RemoteAddr.
var DefaultIPHeaders = []string{
	"X-Forwarded-For",
	"Client-Ip",
	"X-Real-Ip",
	"X-Forwarded",
	"X-Cluster-Client-Ip",
	"Forwarded-For",
	"Forwarded",
	"Via",
}

// IPResolver finds the address of the client that originated a request.
//
// Within a comma separated proxy chain the left-most entry is the client. A
// publicly routable address wins over private ones. When nothing public is
// found the first private address is used and loopback addresses are used
// last.
type IPResolver struct {
	// Headers to inspect, in order. The zero value uses DefaultIPHeaders.
	Headers []string

	// TrustedProxies, when set, restricts header inspection to requests
	// whose immediate peer (RemoteAddr) is inside one of these prefixes.
	// Requests from other peers only consider RemoteAddr.
	TrustedProxies []netip.Prefix
}

// ParseTrustedProxies parses a list of CIDR prefixes or bare addresses.
func ParseTrustedProxies(ss []string) ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	for _, s := range ss {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if !strings.Contains(s, "/") {
			addr, err := netip.ParseAddr(s)
			if err != nil {
				return nil, err
			}
			prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
			continue
		}
		p, err := netip.ParsePrefix(s)
		if err != nil {
			return nil, err
		}
		prefixes = append(prefixes, p.Masked())
	}
	return prefixes, nil
}

// ClientIP returns the client address of r, or "" if none could be found.
func (res *IPResolver) ClientIP(r *http.Request) string {
	headers := res.Headers
	if headers == nil {
		headers = DefaultIPHeaders
	}

	var private, loopback netip.Addr
	consider := func(addr netip.Addr) bool {
		switch {
		case !addr.IsValid():
		case addr.IsLoopback():
			if !loopback.IsValid() {
				loopback = addr
			}
		case addr.IsPrivate(), addr.IsLinkLocalUnicast(), addr.IsUnspecified():
			if !private.IsValid() {
				private = addr
			}
		default:
			return true
		}
		return false
	}

	peer := parseAddr(r.RemoteAddr)

	if res.trusted(peer) {
		for _, h := range headers {
			v := r.Header.Get(h)
			if v == "" {
				continue
			}
			chain := splitChain(h, v)
			if len(chain) == 0 {
				continue
			}
			if addr := chain[0]; consider(addr) {
				return addr.String()
			}
		}
	}

	if consider(peer) {
		return peer.String()
	}

	if private.IsValid() {
		return private.String()
	}
	if loopback.IsValid() {
		return loopback.String()
	}
	return ""
}

func (res *IPResolver) trusted(peer netip.Addr) bool {
	if len(res.TrustedProxies) == 0 {
		return true
	}
	for _, p := range res.TrustedProxies {
		if p.Contains(peer) {
			return true
		}
	}
	return false
}

// splitChain parses every hop of a header value. Unparseable hops are
// dropped.
func splitChain(header, v string) []netip.Addr {
	var addrs []netip.Addr
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		switch strings.ToLower(header) {
		case "forwarded":
			part = forwardedFor(part)
		case "via":
			// "1.1 10.0.0.1" or "1.1 proxy.example.com"
			if fields := strings.Fields(part); len(fields) > 1 {
				part = fields[1]
			}
		}
		if addr := parseAddr(part); addr.IsValid() {
			addrs = append(addrs, addr)
		}
	}
	return addrs
}

// forwardedFor extracts the for= parameter of a RFC 7239 element.
func forwardedFor(element string) string {
	for _, pair := range strings.Split(element, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if ok && strings.EqualFold(k, "for") {
			return strings.Trim(v, `"`)
		}
	}
	return ""
}

// parseAddr accepts a bare address, a host:port pair or a bracketed IPv6
// address with or without a port.
func parseAddr(s string) netip.Addr {
	s = strings.TrimSpace(s)
	if s == "" {
		return netip.Addr{}
	}
	if addr, err := netip.ParseAddr(s); err == nil {
		return addr.Unmap()
	}
	if host, _, err := net.SplitHostPort(s); err == nil {
		s = host
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	if addr, err := netip.ParseAddr(s); err == nil {
		return addr.Unmap()
	}
	return netip.Addr{}
}

// Package trustproxy decides which peers may speak for the client through
// X-Forwarded-* headers, and derives the client address and the secure flag
// of a request from them.
package trustproxy

import (
	"context"
	"fmt"
	"net/http"
	"net/netip"
	"strings"

	"go4.org/netipx"
)

// DefaultValue is the trust setting used when none is configured.
const DefaultValue = "127.0.0.1"

// named address groups accepted in a trust list.
var named = map[string][]string{
	"loopback":    {"127.0.0.1/8", "::1/128"},
	"linklocal":   {"169.254.0.0/16", "fe80::/10"},
	"uniquelocal": {"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16", "fc00::/7"},
}

// Set is an immutable set of trusted proxy addresses.
type Set struct {
	all  bool
	ips  *netipx.IPSet
	spec string
}

// Parse builds a Set from "true", "false" or a comma separated list of
// addresses, CIDR prefixes, ranges and the names loopback, linklocal and
// uniquelocal.
func Parse(value string) (*Set, error) {
	value = strings.TrimSpace(value)
	switch value {
	case "true":
		return &Set{all: true, spec: value}, nil
	case "false", "":
		return &Set{ips: &netipx.IPSet{}, spec: "false"}, nil
	}

	var b netipx.IPSetBuilder
	for _, token := range strings.Split(value, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		entries, ok := named[token]
		if !ok {
			entries = []string{token}
		}
		for _, entry := range entries {
			r, err := parseRange(entry)
			if err != nil {
				return nil, err
			}
			b.AddRange(r)
		}
	}

	ips, err := b.IPSet()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	return &Set{ips: ips, spec: value}, nil
}

func parseRange(s string) (netipx.IPRange, error) {
	if addr, err := netip.ParseAddr(s); err == nil {
		return netipx.IPRangeFrom(addr, addr), nil
	}
	if prefix, err := netip.ParsePrefix(s); err == nil {
		return netipx.RangeOfPrefix(prefix.Masked()), nil
	}
	r, err := netipx.ParseIPRange(s)
	if err != nil {
		return netipx.IPRange{}, fmt.Errorf("%w %q", ErrInvalidAddress, s)
	}
	return r, nil
}

// Trusts reports whether addr is a trusted proxy. A nil Set trusts nobody.
func (s *Set) Trusts(addr netip.Addr) bool {
	if s == nil || !addr.IsValid() {
		return false
	}
	if s.all {
		return true
	}
	return s.ips.Contains(addr.Unmap())
}

// String returns the setting the Set was parsed from.
func (s *Set) String() string {
	if s == nil {
		return "false"
	}
	return s.spec
}

type ctxKey struct{}

// WithSet returns a copy of ctx carrying s.
func WithSet(ctx context.Context, s *Set) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the Set attached to ctx, nil when absent.
func FromContext(ctx context.Context) *Set {
	s, _ := ctx.Value(ctxKey{}).(*Set)
	return s
}

// peer returns the address of the directly connected peer.
func peer(r *http.Request) netip.Addr {
	if ap, err := netip.ParseAddrPort(r.RemoteAddr); err == nil {
		return ap.Addr().Unmap()
	}
	if addr, err := netip.ParseAddr(r.RemoteAddr); err == nil {
		return addr.Unmap()
	}
	return netip.Addr{}
}

// IsSecure reports whether the client reached the server over HTTPS: the
// connection itself uses TLS, or a trusted peer forwarded
// X-Forwarded-Proto: https.
func IsSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	if !FromContext(r.Context()).Trusts(peer(r)) {
		return false
	}

	proto, _, _ := strings.Cut(r.Header.Get("X-Forwarded-Proto"), ",")
	return strings.EqualFold(strings.TrimSpace(proto), "https")
}

// ClientIP returns the client address. X-Forwarded-For is walked from the
// closest hop while hops are trusted; the first untrusted hop is the client.
func ClientIP(r *http.Request) string {
	set := FromContext(r.Context())
	addr := peer(r)
	if !addr.IsValid() {
		return r.RemoteAddr
	}

	var hops []string
	for _, v := range r.Header.Values("X-Forwarded-For") {
		hops = append(hops, strings.Split(v, ",")...)
	}

	for i := len(hops) - 1; i >= 0 && set.Trusts(addr); i-- {
		next, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			break
		}
		addr = next.Unmap()
	}
	return addr.String()
}

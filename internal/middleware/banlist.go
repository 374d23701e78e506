package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// BanList rejects requests from configured IPs and CIDR ranges. It expects
// to run after chi's RealIP middleware so RemoteAddr reflects the client.
type BanList struct {
	ips  map[string]struct{}
	nets []*net.IPNet
}

// NewBanList parses a mixed list of IP addresses and CIDR ranges.
func NewBanList(entries []string) (*BanList, error) {
	b := &BanList{ips: make(map[string]struct{})}
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if strings.Contains(e, "/") {
			_, ipNet, err := net.ParseCIDR(e)
			if err != nil {
				return nil, fmt.Errorf("banlist: bad CIDR %q: %w", e, err)
			}
			b.nets = append(b.nets, ipNet)
			continue
		}
		ip := net.ParseIP(e)
		if ip == nil {
			return nil, fmt.Errorf("banlist: bad IP %q", e)
		}
		b.ips[ip.String()] = struct{}{}
	}
	return b, nil
}

// Banned reports whether addr (host or host:port) is on the list.
func (b *BanList) Banned(addr string) bool {
	host := addr
	if h, _, err := net.SplitHostPort(addr); err == nil {
		host = h
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	if _, ok := b.ips[ip.String()]; ok {
		return true
	}
	for _, n := range b.nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// Middleware rejects banned clients with 403 before any other processing.
func (b *BanList) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if b.Banned(r.RemoteAddr) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"forbidden"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

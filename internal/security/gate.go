// Package security implements the IPv4 allow/deny gate applied to a peer's
// identified listen addresses.
package security

import (
	"log/slog"
	"net"
	"sync"

	ma "github.com/multiformats/go-multiaddr"
)

// Gate decides whether a peer's observed listen addresses pass the
// configured allow/deny lists. Unlike a libp2p ConnectionGater (which runs
// before a peer ID is even known), this gate runs once identify completes,
// because the lists are IPv4-address based rather than peer-ID based.
type Gate struct {
	mu        sync.RWMutex
	allowlist []net.IP
	denylist  []net.IP
}

// New builds a Gate from configured allow/deny IPv4 address strings.
// Malformed entries are dropped with a warning rather than failing startup,
// matching the tolerant posture of the rest of the config loader.
func New(allow, deny []string) *Gate {
	g := &Gate{}
	g.allowlist = parseIPs(allow)
	g.denylist = parseIPs(deny)
	return g
}

func parseIPs(in []string) []net.IP {
	var out []net.IP
	for _, s := range in {
		ip := net.ParseIP(s)
		if ip == nil {
			slog.Warn("security: ignoring unparsable IPv4 entry", "value", s)
			continue
		}
		if v4 := ip.To4(); v4 != nil {
			out = append(out, v4)
		} else {
			slog.Warn("security: ignoring non-IPv4 entry", "value", s)
		}
	}
	return out
}

// firstIPv4 extracts the IPv4 address from the first /ip4 component of addr,
// returning ok=false for addresses whose leading component isn't /ip4 (e.g.
// /ip6 or /dns4), which matches the original's "non-IP4 counts as a miss"
// behavior for both lists.
func firstIPv4(addr ma.Multiaddr) (net.IP, bool) {
	comps := addr.Protocols()
	if len(comps) == 0 {
		return nil, false
	}
	if comps[0].Code != ma.P_IP4 {
		return nil, false
	}
	val, err := addr.ValueForProtocol(ma.P_IP4)
	if err != nil {
		return nil, false
	}
	ip := net.ParseIP(val)
	if ip == nil {
		return nil, false
	}
	return ip.To4(), true
}

// Allowed reports whether every listen address in addrs is present on the
// allow list. An empty allow list is treated as "allow list not in effect"
// and passes trivially.
func (g *Gate) Allowed(addrs []ma.Multiaddr) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if len(g.allowlist) == 0 {
		return true
	}
	for _, addr := range addrs {
		ip, ok := firstIPv4(addr)
		if !ok || !containsIP(g.allowlist, ip) {
			return false
		}
	}
	return true
}

// Denied reports whether any listen address in addrs appears on the deny
// list.
func (g *Gate) Denied(addrs []ma.Multiaddr) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if len(g.denylist) == 0 {
		return false
	}
	for _, addr := range addrs {
		ip, ok := firstIPv4(addr)
		if ok && containsIP(g.denylist, ip) {
			return true
		}
	}
	return false
}

// Check runs the combined deny-then-allow decision used when a peer's
// identify information is received: deny list is checked first, then the
// allow list, mirroring the original security handler's precedence.
func (g *Gate) Check(addrs []ma.Multiaddr) (ok bool, reason string) {
	if g.Denied(addrs) {
		return false, "blacklisted"
	}
	if !g.Allowed(addrs) {
		return false, "not whitelisted"
	}
	return true, ""
}

func containsIP(list []net.IP, ip net.IP) bool {
	for _, l := range list {
		if l.Equal(ip) {
			return true
		}
	}
	return false
}

// UpdateLists replaces the allow/deny lists, e.g. after a config reload.
func (g *Gate) UpdateLists(allow, deny []string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.allowlist = parseIPs(allow)
	g.denylist = parseIPs(deny)
}

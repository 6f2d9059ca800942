package engine

import (
	"fmt"

	"github.com/libp2p/go-libp2p/core/peer"
	ma "github.com/multiformats/go-multiaddr"
)

// DefaultRelay is the well-known relay multiaddress compiled into the
// binary, overridable at build time with -ldflags -X:
//
//	go build -ldflags "-X github.com/Onboardbase/secure-share/internal/engine.DefaultRelay=/ip4/1.2.3.4/tcp/4001/p2p/12D3Koo..."
var DefaultRelay = "/ip4/168.119.183.30/tcp/4001/p2p/12D3KooWDpJ7As7BWAwRMfu1VU2WCqNjvq387JEYKDBj4kx6nXTN"

// RelayInfo parses the configured relay multiaddr into an AddrInfo.
func RelayInfo(relayAddr string) (peer.AddrInfo, error) {
	maddr, err := ma.NewMultiaddr(relayAddr)
	if err != nil {
		return peer.AddrInfo{}, fmt.Errorf("engine: invalid relay address %q: %w", relayAddr, err)
	}
	info, err := peer.AddrInfoFromP2pAddr(maddr)
	if err != nil {
		return peer.AddrInfo{}, fmt.Errorf("engine: relay address %q has no /p2p component: %w", relayAddr, err)
	}
	return *info, nil
}

// CircuitAddr builds the "<relay>/p2p-circuit/p2p/<target>" multiaddr used
// to dial a remote peer through the relay circuit hop.
func CircuitAddr(relayAddr string, target peer.ID) (ma.Multiaddr, error) {
	return ma.NewMultiaddr(relayAddr + "/p2p-circuit/p2p/" + target.String())
}

// ReservationAddr builds the "<relay>/p2p-circuit" multiaddr a receiver
// listens on to obtain a relay reservation.
func ReservationAddr(relayAddr string) (ma.Multiaddr, error) {
	return ma.NewMultiaddr(relayAddr + "/p2p-circuit")
}

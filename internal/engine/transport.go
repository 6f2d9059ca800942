package engine

import (
	"fmt"
	"time"

	"github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/event"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
	libp2pquic "github.com/libp2p/go-libp2p/p2p/transport/quic"
	"github.com/libp2p/go-libp2p/p2p/transport/tcp"
)

// identifyProtocolVersion is the application-level identify tag this host
// advertises to the peers it identifies with. The engine does not check
// the tag that a remote advertises.
const identifyProtocolVersion = "/SHARE/0.0.1"

// listenBarrier is how long NewHost waits for the first listen addresses
// to come up before giving up: a brief (~1 second) barrier.
const listenBarrier = time.Second

// NewHost builds the libp2p host used by both roles: a relay-capable,
// hole-punch-capable, TCP+QUIC host authenticated with priv.
//
// go-libp2p has no single "Transport" combinator the way rust-libp2p's
// relay⨁or_else(tcp⨁quic) chain does; instead transports are registered as
// host options and relay/hole-punch support are separate host-level
// capabilities (EnableRelay / EnableHolePunching).
func NewHost(priv crypto.PrivKey, port int) (host.Host, error) {
	opts := []libp2p.Option{
		libp2p.Identity(priv),
		libp2p.ListenAddrStrings(
			fmt.Sprintf("/ip4/0.0.0.0/udp/%d/quic-v1", port),
			fmt.Sprintf("/ip4/0.0.0.0/tcp/%d", port),
		),
		libp2p.Transport(tcp.NewTCPTransport),
		libp2p.Transport(libp2pquic.NewTransport),
		libp2p.ProtocolVersion(identifyProtocolVersion),
		libp2p.EnableRelay(),
		libp2p.EnableHolePunching(),
	}

	h, err := libp2p.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("engine: create libp2p host: %w", err)
	}

	if err := awaitListenAddrs(h); err != nil {
		h.Close()
		return nil, err
	}
	return h, nil
}

// awaitListenAddrs blocks until the host has at least one listen address
// or listenBarrier elapses. Any NewListenAddr arriving within the window
// satisfies the barrier; a host that never gets one (e.g. both transports
// failed to bind) is not treated as fatal here — NewHost still returns
// it, since ListenAddrStrings itself already surfaced a bind error had
// one occurred.
func awaitListenAddrs(h host.Host) error {
	sub, err := h.EventBus().Subscribe(new(event.EvtLocalAddressesUpdated))
	if err != nil {
		return fmt.Errorf("engine: subscribe to listen events: %w", err)
	}
	defer sub.Close()

	if len(h.Addrs()) > 0 {
		return nil
	}

	timer := time.NewTimer(listenBarrier)
	defer timer.Stop()
	select {
	case <-sub.Out():
		return nil
	case <-timer.C:
		return nil
	}
}

// ConnNotifiee adapts network.Notifiee to the one event the engine cares
// about post-startup: a fresh connection, which bookkeeping needs to
// remember by ID for the security gate to close later.
type ConnNotifiee struct {
	network.NoopNotifiee
	OnConnected func(network.Network, network.Conn)
}

// Connected overrides the no-op embedded default to forward to OnConnected,
// if set.
func (n ConnNotifiee) Connected(net network.Network, conn network.Conn) {
	if n.OnConnected != nil {
		n.OnConnected(net, conn)
	}
}

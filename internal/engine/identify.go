package engine

import (
	"fmt"
	"log/slog"

	"github.com/libp2p/go-libp2p/core/event"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	ma "github.com/multiformats/go-multiaddr"
)

// IdentifyEvent is the engine's tagged-union view of the two identify
// notifications the Observing phase drives on. go-libp2p's identify
// service only surfaces "we finished identifying a remote peer" on the
// event bus (event.EvtPeerIdentificationCompleted); it has no public "we
// pushed our info to them" event the way rust-libp2p's IdentifyEvent::Sent
// does, so this engine treats the underlying connection's establishment
// as the "Sent" signal (go-libp2p's identify pushes automatically on
// every new connection) and EvtPeerIdentificationCompleted as "Received".
type IdentifyEvent struct {
	Kind IdentifyKind
	Peer peer.ID

	// ListenAddrs are the remote's advertised listen addresses, the input
	// to the security gate's allow/deny decision.
	ListenAddrs []ma.Multiaddr

	// ObservedAddr is the address the remote saw this host dial from —
	// the "observed address" the Observing phase records as an external
	// address.
	ObservedAddr ma.Multiaddr
}

// IdentifyKind distinguishes the identify notifications: Sent, Received,
// and Failed (identification of a remote peer did not complete).
type IdentifyKind int

const (
	IdentifySent IdentifyKind = iota
	IdentifyReceived
	IdentifyFailed
)

func (k IdentifyKind) String() string {
	switch k {
	case IdentifySent:
		return "Sent"
	case IdentifyReceived:
		return "Received"
	case IdentifyFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// identifySubscription wraps the event-bus subscriptions the Observing
// phase needs: identification completion and failure. There is no feed for
// "Sent"; as described above, that is derived from connection
// establishment.
type identifySubscription struct {
	completed event.Subscription
	failed    event.Subscription
}

func subscribeIdentify(h host.Host) (*identifySubscription, error) {
	completed, err := h.EventBus().Subscribe(new(event.EvtPeerIdentificationCompleted))
	if err != nil {
		return nil, fmt.Errorf("engine: subscribe identify completed: %w", err)
	}
	failed, err := h.EventBus().Subscribe(new(event.EvtPeerIdentificationFailed))
	if err != nil {
		completed.Close()
		return nil, fmt.Errorf("engine: subscribe identify failed: %w", err)
	}
	return &identifySubscription{completed: completed, failed: failed}, nil
}

func (s *identifySubscription) Close() {
	s.completed.Close()
	s.failed.Close()
}

// next blocks for the next identify-related event, translating it into the
// engine's IdentifyEvent shape, or returns ok=false if stop fires first.
// It never observes IdentifySent directly — callers derive that from a
// successful connection of their own (Session.observe counts a completed
// relay dial), per the doc comment on IdentifyEvent above.
func (s *identifySubscription) next(stop <-chan struct{}) (IdentifyEvent, bool) {
	select {
	case evt, ok := <-s.completed.Out():
		if !ok {
			return IdentifyEvent{}, false
		}
		e := evt.(event.EvtPeerIdentificationCompleted)
		return IdentifyEvent{
			Kind:         IdentifyReceived,
			Peer:         e.Peer,
			ListenAddrs:  e.ListenAddrs,
			ObservedAddr: e.ObservedAddr,
		}, true
	case evt, ok := <-s.failed.Out():
		if !ok {
			return IdentifyEvent{}, false
		}
		e := evt.(event.EvtPeerIdentificationFailed)
		slog.Debug("engine: identify failed", "peer", e.Peer, "reason", e.Reason)
		return IdentifyEvent{Kind: IdentifyFailed, Peer: e.Peer}, true
	case <-stop:
		return IdentifyEvent{}, false
	}
}

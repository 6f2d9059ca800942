// Package engine implements the peer-connectivity core: transport setup,
// the session state machine, the security gate wiring, and the batch
// request/response exchange.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"

	"github.com/Onboardbase/secure-share/internal/bookkeeping"
	"github.com/Onboardbase/secure-share/internal/item"
	"github.com/Onboardbase/secure-share/internal/security"
)

// Role fixes what a Session does once connected: send a batch or wait to
// receive one. The third CLI mode, "list", never reaches the engine at
// all, so it has no Role constant here.
type Role int

const (
	RoleSend Role = iota
	RoleReceive
)

func (r Role) String() string {
	if r == RoleSend {
		return "send"
	}
	return "receive"
}

// PeerDirectoryHook is invoked once per successful exchange, on both
// sides, with the remote peer ID and (if known) its observed multiaddr.
// The core treats a non-nil error as a non-fatal warning.
type PeerDirectoryHook func(remote peer.ID, observedAddr string) error

// Session drives the seven-phase state machine for one run of the CLI:
// Init (implicit, via NewSession) -> Listening (NewHost already performed
// this) -> Observing -> RoleEngaged -> Connected -> Exchanging ->
// Terminating.
type Session struct {
	Host  host.Host
	Role  Role
	Relay string // compiled/configured relay multiaddr

	// Send-only.
	RemotePeer peer.ID
	Batch      []item.Item

	// Receive-only.
	SaveDir string

	Gate        *security.Gate
	Bookkeeping *bookkeeping.Holder
	OnPeerKnown PeerDirectoryHook

	toldRelay       bool
	learnedObserved bool
	observedAddr    string
}

// NewSession wires a freshly-built host into a Session ready to Run.
func NewSession(h host.Host, role Role, relay string, gate *security.Gate) *Session {
	return &Session{
		Host:        h,
		Role:        role,
		Relay:       relay,
		Gate:        gate,
		Bookkeeping: bookkeeping.NewHolder(),
	}
}

// Run executes Observing through Terminating and returns the process exit
// code. The historical CLI always exits 1 once the engine has run,
// regardless of outcome; only a pre-flight validation failure (e.g. an
// empty batch) short-circuits before Run is even called.
func (s *Session) Run(ctx context.Context) int {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.installConnNotifiee()

	if err := s.observe(ctx); err != nil {
		slog.Error("engine: observing phase failed", "error", err)
		return 1
	}

	if err := s.engageRole(ctx); err != nil {
		slog.Error("engine: role-engaged phase failed", "role", s.Role, "error", err)
		return 1
	}

	idSub, err := subscribeIdentify(s.Host)
	if err != nil {
		slog.Error("engine: subscribe identify for gate", "error", err)
		return 1
	}
	defer idSub.Close()

	gateDone := make(chan struct{})
	go s.runGateLoop(idSub, gateDone, cancel)
	defer close(gateDone)

	switch s.Role {
	case RoleSend:
		if err := s.exchangeSend(ctx); err != nil {
			slog.Error("engine: exchanging phase failed", "error", err)
			return 1
		}
	case RoleReceive:
		if err := s.exchangeReceive(ctx); err != nil {
			slog.Error("engine: exchanging phase failed", "error", err)
			return 1
		}
	}

	return 1
}

// installConnNotifiee registers the bookkeeping hook: the most recent
// inbound connection ID is remembered so the gate can close it by handle
// later.
func (s *Session) installConnNotifiee() {
	s.Host.Network().Notify(&ConnNotifiee{
		OnConnected: func(_ network.Network, conn network.Conn) {
			if conn.Stat().Direction == network.DirInbound {
				s.Bookkeeping.Save(conn.ID())
			}
		},
	})
}

// observe implements the Observing phase: dial the relay, then loop
// consuming identify events until both told_relay and learned_observed
// are true. Ping and ordinary dial events are silently absorbed; anything
// else is logged and ignored.
func (s *Session) observe(ctx context.Context) error {
	relayInfo, err := RelayInfo(s.Relay)
	if err != nil {
		return err
	}

	idSub, err := subscribeIdentify(s.Host)
	if err != nil {
		return err
	}
	defer idSub.Close()

	if err := s.Host.Connect(ctx, relayInfo); err != nil {
		return fmt.Errorf("engine: dial relay %s: %w", relayInfo.ID, err)
	}
	// go-libp2p pushes our identify info automatically on every new
	// connection; there is no separate "Sent" event to wait for (see
	// IdentifyEvent's doc comment), so a successful relay dial already
	// satisfies told_relay.
	s.toldRelay = true

	// No phase deadline here: the loop blocks until the relay's identify
	// arrives or the run is interrupted. The only timed wait in the engine
	// is the listen barrier in NewHost.
	for !s.learnedObserved {
		evt, ok := idSub.next(ctx.Done())
		if !ok {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fmt.Errorf("engine: identify event stream closed before relay observation completed")
		}
		switch evt.Kind {
		case IdentifyReceived:
			if evt.Peer == relayInfo.ID {
				s.learnedObserved = true
				if evt.ObservedAddr != nil {
					s.observedAddr = evt.ObservedAddr.String()
					slog.Info("engine: relay observed our external address", "addr", s.observedAddr)
				}
			} else {
				slog.Debug("engine: identify received from non-relay peer during observing", "peer", evt.Peer)
			}
		case IdentifyFailed:
			slog.Debug("engine: identify failed during observing", "peer", evt.Peer)
		}
	}
	return nil
}

// engageRole implements the RoleEngaged phase: a sender dials the remote
// through the relay circuit; a receiver reserves a relay slot so the
// remote can dial in.
func (s *Session) engageRole(ctx context.Context) error {
	switch s.Role {
	case RoleSend:
		circuit, err := CircuitAddr(s.Relay, s.RemotePeer)
		if err != nil {
			return err
		}
		return s.dialCircuit(ctx, circuit)
	case RoleReceive:
		return s.reserveRelaySlot(ctx)
	default:
		return fmt.Errorf("engine: unknown role %v", s.Role)
	}
}

// runGateLoop applies the security gate to every identify-received event
// observed after the Observing phase. A failing check closes the stored
// inbound connection and cancels the session context, which unblocks the
// exchange loop so Run can terminate with a non-zero status instead of
// waiting for a batch that will never arrive.
func (s *Session) runGateLoop(idSub *identifySubscription, done <-chan struct{}, abort context.CancelFunc) {
	for {
		evt, ok := idSub.next(done)
		if !ok {
			return
		}
		if evt.Kind != IdentifyReceived {
			continue
		}
		ok, reason := s.Gate.Check(evt.ListenAddrs)
		if ok {
			continue
		}
		slog.Error("engine: security gate closed connection", "peer", evt.Peer, "reason", reason)
		if id, has := s.Bookkeeping.ID(); has {
			for _, conn := range s.Host.Network().ConnsToPeer(evt.Peer) {
				if conn.ID() == id {
					conn.Close()
				}
			}
		}
		abort()
		return
	}
}

package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/libp2p/go-libp2p/core/peer"
	circuitv2client "github.com/libp2p/go-libp2p/p2p/protocol/circuitv2/client"
	ma "github.com/multiformats/go-multiaddr"

	"github.com/Onboardbase/secure-share/internal/item"
)

// dialCircuit implements the sender half of RoleEngaged: dial the target
// through the relay circuit address built by CircuitAddr. A successful
// dial here is what the Connected phase keys off of for the send role.
func (s *Session) dialCircuit(ctx context.Context, circuit ma.Multiaddr) error {
	targetInfo, err := peer.AddrInfoFromP2pAddr(circuit)
	if err != nil {
		return fmt.Errorf("engine: parse circuit address: %w", err)
	}
	if err := s.Host.Connect(ctx, *targetInfo); err != nil {
		return fmt.Errorf("engine: dial %s via relay circuit: %w", s.RemotePeer, err)
	}
	slog.Info("engine: connected to remote via relay circuit", "peer", s.RemotePeer)
	return nil
}

// reserveRelaySlot implements the receiver half of RoleEngaged: obtain a
// circuit-v2 reservation on the relay so a sender can dial in. Only the
// receive role ever makes a reservation.
func (s *Session) reserveRelaySlot(ctx context.Context) error {
	relayInfo, err := RelayInfo(s.Relay)
	if err != nil {
		return err
	}
	if _, err := circuitv2client.Reserve(ctx, s.Host, relayInfo); err != nil {
		return fmt.Errorf("engine: reserve relay slot on %s: %w", relayInfo.ID, err)
	}
	circuit, err := ReservationAddr(s.Relay)
	if err != nil {
		return err
	}
	slog.Info("engine: relay reservation accepted, dialable through circuit",
		"relay", relayInfo.ID,
		"addr", circuit.String()+"/p2p/"+s.Host.ID().String())
	return nil
}

// exchangeSend implements the sender half of the Exchanging phase:
// dispatch the batch and log the aggregate response, surfacing any
// non-zero failure count as a warning. On success it invokes the
// peer-directory hook before returning.
func (s *Session) exchangeSend(ctx context.Context) error {
	resp, err := SendBatch(ctx, s.Host, s.RemotePeer, s.Batch)
	if err != nil {
		return fmt.Errorf("engine: send batch: %w", err)
	}
	if resp.NoOfFails > 0 {
		slog.Warn("engine: batch partially failed", "n_success", resp.NoOfSuccess, "n_fail", resp.NoOfFails, "err", resp.Err)
	} else {
		slog.Info("engine: batch delivered", "n_success", resp.NoOfSuccess)
	}
	s.notifyPeerDirectory(s.RemotePeer)
	return nil
}

// exchangeReceive implements the receiver half of the Exchanging phase:
// wait for the one incoming batch, save each item in order, and reply
// with the aggregate response (handled inside RegisterReceiver's
// callback). On success it invokes the peer-directory hook.
func (s *Session) exchangeReceive(ctx context.Context) error {
	done := make(chan peer.ID, 1)
	RegisterReceiver(s.Host, func(remote peer.ID, items []item.Item) item.Response {
		resp := item.SaveAll(items, s.SaveDir)
		done <- remote
		return resp
	})

	select {
	case remote := <-done:
		s.notifyPeerDirectory(remote)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) notifyPeerDirectory(remote peer.ID) {
	if s.OnPeerKnown == nil {
		return
	}
	if err := s.OnPeerKnown(remote, s.observedAddr); err != nil {
		slog.Warn("engine: peer-directory hook failed", "peer", remote, "error", err)
	}
}

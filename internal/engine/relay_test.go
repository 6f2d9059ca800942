package engine

import (
	"strings"
	"testing"

	"github.com/libp2p/go-libp2p/core/peer"
)

const testPeerID = "12D3KooWDpJ7As7BWAwRMfu1VU2WCqNjvq387JEYKDBj4kx6nXTN"

func TestRelayInfoParsesDefaultRelay(t *testing.T) {
	info, err := RelayInfo(DefaultRelay)
	if err != nil {
		t.Fatalf("RelayInfo: %v", err)
	}
	if info.ID.String() != testPeerID {
		t.Fatalf("unexpected relay peer id %s", info.ID)
	}
	if len(info.Addrs) != 1 {
		t.Fatalf("expected one transport address, got %v", info.Addrs)
	}
}

func TestRelayInfoRejectsGarbage(t *testing.T) {
	if _, err := RelayInfo("not-a-multiaddr"); err == nil {
		t.Fatalf("expected error for invalid multiaddr")
	}
}

func TestRelayInfoRejectsMissingPeerComponent(t *testing.T) {
	if _, err := RelayInfo("/ip4/1.2.3.4/tcp/4001"); err == nil {
		t.Fatalf("expected error for address without /p2p component")
	}
}

func TestCircuitAddrShape(t *testing.T) {
	target, err := peer.Decode(testPeerID)
	if err != nil {
		t.Fatalf("decode peer id: %v", err)
	}
	addr, err := CircuitAddr("/ip4/1.2.3.4/tcp/4001/p2p/"+testPeerID, target)
	if err != nil {
		t.Fatalf("CircuitAddr: %v", err)
	}
	if !strings.Contains(addr.String(), "/p2p-circuit/p2p/"+testPeerID) {
		t.Fatalf("unexpected circuit address %s", addr)
	}
}

func TestReservationAddrShape(t *testing.T) {
	addr, err := ReservationAddr("/ip4/1.2.3.4/tcp/4001/p2p/" + testPeerID)
	if err != nil {
		t.Fatalf("ReservationAddr: %v", err)
	}
	if !strings.HasSuffix(addr.String(), "/p2p-circuit") {
		t.Fatalf("unexpected reservation address %s", addr)
	}
}

// Package identity derives deterministic peer keypairs from a seed string.
package identity

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
)

const seedLen = 32

// PadSeed pads s with trailing spaces to 32 bytes, or truncates it to the
// first 32 bytes if it is longer. Matches the historical secure-share CLI's
// seed handling so that a given seed string always derives the same keypair.
func PadSeed(s string) []byte {
	b := []byte(s)
	if len(b) >= seedLen {
		return b[:seedLen]
	}
	out := make([]byte, seedLen)
	copy(out, b)
	for i := len(b); i < seedLen; i++ {
		out[i] = ' '
	}
	return out
}

// RandomSeed returns a fresh cryptographically random 32-byte seed, used
// when the caller has not configured one explicitly.
func RandomSeed() ([]byte, error) {
	seed := make([]byte, seedLen)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("generate random seed: %w", err)
	}
	return seed, nil
}

// FromSeed derives an Ed25519 keypair deterministically from a padded
// 32-byte seed. The same seed always yields the same key, and therefore the
// same peer ID, which is what lets a "send" peer and a "receive" peer agree
// on identities out of band.
func FromSeed(seed []byte) (crypto.PrivKey, error) {
	if len(seed) != seedLen {
		return nil, fmt.Errorf("identity: seed must be %d bytes, got %d", seedLen, len(seed))
	}
	stdPriv := ed25519.NewKeyFromSeed(seed)
	priv, err := crypto.UnmarshalEd25519PrivateKey(stdPriv)
	if err != nil {
		return nil, fmt.Errorf("unmarshal derived ed25519 key: %w", err)
	}
	return priv, nil
}

// FromSeedString pads/truncates s and derives the keypair from it.
func FromSeedString(s string) (crypto.PrivKey, error) {
	return FromSeed(PadSeed(s))
}

// PeerID returns the libp2p peer ID for a private key.
func PeerID(priv crypto.PrivKey) (peer.ID, error) {
	id, err := peer.IDFromPrivateKey(priv)
	if err != nil {
		return "", fmt.Errorf("derive peer ID: %w", err)
	}
	return id, nil
}

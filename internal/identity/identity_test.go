package identity

import (
	"bytes"
	"testing"

	"pgregory.net/rapid"
)

func TestPadSeedPadsShortStrings(t *testing.T) {
	got := PadSeed("hello")
	if len(got) != seedLen {
		t.Fatalf("expected %d bytes, got %d", seedLen, len(got))
	}
	want := append([]byte("hello"), bytes.Repeat([]byte(" "), seedLen-5)...)
	if !bytes.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPadSeedTruncatesLongStrings(t *testing.T) {
	long := bytes.Repeat([]byte("x"), 64)
	got := PadSeed(string(long))
	if len(got) != seedLen {
		t.Fatalf("expected %d bytes, got %d", seedLen, len(got))
	}
	if !bytes.Equal(got, long[:seedLen]) {
		t.Fatalf("truncation mismatch")
	}
}

func TestPadSeedIsPadThenTruncate(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "seed")
		got := PadSeed(s)
		if len(got) != seedLen {
			t.Fatalf("expected %d bytes, got %d", seedLen, len(got))
		}
		b := []byte(s)
		if len(b) >= seedLen {
			if !bytes.Equal(got, b[:seedLen]) {
				t.Fatalf("long seed should truncate to its first %d bytes", seedLen)
			}
			return
		}
		if !bytes.Equal(got[:len(b)], b) {
			t.Fatalf("short seed should be preserved as a prefix")
		}
		for i := len(b); i < seedLen; i++ {
			if got[i] != ' ' {
				t.Fatalf("byte %d should be a space, got %#x", i, got[i])
			}
		}
	})
}

func TestPadSeedTwoByteBoundary(t *testing.T) {
	got := PadSeed("ab")
	if got[0] != 'a' || got[1] != 'b' {
		t.Fatalf("expected seed prefix preserved, got %q", got[:2])
	}
	for i := 2; i < seedLen; i++ {
		if got[i] != 0x20 {
			t.Fatalf("byte %d should be 0x20, got %#x", i, got[i])
		}
	}
}

func TestPadSeedExactLength(t *testing.T) {
	exact := bytes.Repeat([]byte("a"), seedLen)
	got := PadSeed(string(exact))
	if !bytes.Equal(got, exact) {
		t.Fatalf("exact-length seed should be unchanged")
	}
}

func TestFromSeedStringIsDeterministic(t *testing.T) {
	priv1, err := FromSeedString("correct horse battery staple")
	if err != nil {
		t.Fatalf("FromSeedString: %v", err)
	}
	priv2, err := FromSeedString("correct horse battery staple")
	if err != nil {
		t.Fatalf("FromSeedString: %v", err)
	}
	id1, err := PeerID(priv1)
	if err != nil {
		t.Fatalf("PeerID: %v", err)
	}
	id2, err := PeerID(priv2)
	if err != nil {
		t.Fatalf("PeerID: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("same seed produced different peer IDs: %s vs %s", id1, id2)
	}
}

func TestFromSeedStringDiffersByInput(t *testing.T) {
	priv1, err := FromSeedString("seed-one")
	if err != nil {
		t.Fatalf("FromSeedString: %v", err)
	}
	priv2, err := FromSeedString("seed-two")
	if err != nil {
		t.Fatalf("FromSeedString: %v", err)
	}
	id1, _ := PeerID(priv1)
	id2, _ := PeerID(priv2)
	if id1 == id2 {
		t.Fatalf("different seeds produced the same peer ID")
	}
}

func TestFromSeedRejectsWrongLength(t *testing.T) {
	if _, err := FromSeed([]byte("too short")); err == nil {
		t.Fatalf("expected error for short seed")
	}
}

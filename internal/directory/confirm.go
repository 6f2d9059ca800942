package directory

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

// RememberPeer implements the post-exchange peer-directory prompt: after a
// successful batch exchange, look up the remote by peer ID; if unknown,
// prompt the operator (via the injected reader/writer, so this is
// unit-testable without a real terminal) and persist a PeerRecord on
// confirmation.
//
// Persistence failures are reported as errors to the caller, which treats
// them as non-fatal warnings rather than aborting the run.
func RememberPeer(store *Store, stdin io.Reader, stdout io.Writer, peerID, observedAddr string) error {
	if _, known, err := store.GetByPeerID(peerID); err != nil {
		return fmt.Errorf("directory: lookup peer %s: %w", peerID, err)
	} else if known {
		return nil
	}

	reader := bufio.NewReader(stdin)
	fmt.Fprintf(stdout, "save this peer? [Y/n] ")
	answer, _ := reader.ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer != "" && answer != "y" && answer != "yes" {
		return nil
	}

	fmt.Fprint(stdout, "name: ")
	name, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("directory: read nickname: %w", err)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("directory: nickname cannot be empty")
	}

	return store.Save(Record{
		Name:     name,
		Addrs:    observedAddr,
		PeerID:   peerID,
		LastSeen: time.Now().UTC(),
	})
}

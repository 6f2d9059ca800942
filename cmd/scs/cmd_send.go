package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/libp2p/go-libp2p/core/peer"

	"github.com/Onboardbase/secure-share/internal/config"
	"github.com/Onboardbase/secure-share/internal/directory"
	"github.com/Onboardbase/secure-share/internal/engine"
	"github.com/Onboardbase/secure-share/internal/item"
	"github.com/Onboardbase/secure-share/internal/termcolor"
)

// runSend implements the "send" CLI mode: assemble a batch from -s/-m/-f
// (and any config-file equivalents), resolve the remote peer ID from -r
// or -n, and hand off to the engine.
func runSend(args []string) int {
	fs := flag.NewFlagSet("send", flag.ContinueOnError)
	sf := sharedFlags{}
	fs.IntVar(&sf.port, "p", 0, "listen port (0 = ephemeral)")
	fs.IntVar(&sf.port, "port", 0, "listen port (0 = ephemeral)")
	fs.Var(&sf.debug, "d", "increase debug verbosity (repeatable)")
	fs.Var(&sf.debug, "debug", "increase debug verbosity (repeatable)")
	fs.StringVar(&sf.config, "c", "", "path to YAML config file")
	fs.StringVar(&sf.config, "config", "", "path to YAML config file")
	fs.Var(&sf.secrets, "s", "secret as key,value (repeatable)")
	fs.Var(&sf.secrets, "secret", "secret as key,value (repeatable)")
	fs.Var(&sf.message, "m", "message text (repeatable)")
	fs.Var(&sf.message, "message", "message text (repeatable)")
	fs.Var(&sf.files, "f", "file path (repeatable)")
	fs.Var(&sf.files, "file", "file path (repeatable)")
	remotePeerID := fs.String("r", "", "remote peer ID (mutually exclusive with -n)")
	fs.StringVar(remotePeerID, "remote-peer-id", "", "remote peer ID (mutually exclusive with -n)")
	nickname := fs.String("n", "", "nickname to resolve from the peer directory")
	fs.StringVar(nickname, "name", "", "nickname to resolve from the peer directory")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if *remotePeerID != "" && *nickname != "" {
		fmt.Fprintln(os.Stderr, "send: -r/--remote-peer-id and -n/--name are mutually exclusive")
		return 1
	}
	if *remotePeerID == "" && *nickname == "" {
		fmt.Fprintln(os.Stderr, "send: one of -r/--remote-peer-id or -n/--name is required")
		return 1
	}

	cfg, err := resolveConfig(sf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "send: %v\n", err)
		return 1
	}
	// A send with nothing to send exits before opening the transport.
	if err := config.ValidateSend(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "send: %v\n", err)
		return 1
	}

	b, err := bootstrap(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "send: %v\n", err)
		return 1
	}
	defer b.Directory.Close()

	var target peer.ID
	if *remotePeerID != "" {
		target, err = peer.Decode(*remotePeerID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "send: invalid peer id %q: %v\n", *remotePeerID, err)
			return 1
		}
	} else {
		rec, err := b.Directory.GetByName(*nickname)
		if err != nil {
			fmt.Fprintf(os.Stderr, "send: %v\n", err)
			return 1
		}
		target, err = peer.Decode(rec.PeerID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "send: stored peer id for %q is invalid: %v\n", *nickname, err)
			return 1
		}
	}

	batch, err := item.Build(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "send: %v\n", err)
		return 1
	}

	h, err := engine.NewHost(b.Priv, cfg.Port)
	if err != nil {
		fmt.Fprintf(os.Stderr, "send: %v\n", err)
		return 1
	}
	defer h.Close()

	sess := engine.NewSession(h, engine.RoleSend, engine.DefaultRelay, b.Gate)
	sess.RemotePeer = target
	sess.Batch = batch
	sess.OnPeerKnown = func(remote peer.ID, observedAddr string) error {
		return directory.RememberPeer(b.Directory, os.Stdin, os.Stdout, remote.String(), observedAddr)
	}

	slog.Info("send: starting session", "remote", target, "items", len(batch))
	code := sess.Run(context.Background())
	termcolor.Faint("session with %s ended\n", target)
	return code
}

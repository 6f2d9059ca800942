package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/libp2p/go-libp2p/core/peer"

	"github.com/Onboardbase/secure-share/internal/directory"
	"github.com/Onboardbase/secure-share/internal/engine"
)

// runReceive implements the "receive" CLI mode: stand up the transport,
// reserve a relay slot, and wait for exactly one inbound batch.
func runReceive(args []string) int {
	fs := flag.NewFlagSet("receive", flag.ContinueOnError)
	sf := sharedFlags{}
	fs.IntVar(&sf.port, "p", 0, "listen port (0 = ephemeral)")
	fs.IntVar(&sf.port, "port", 0, "listen port (0 = ephemeral)")
	fs.Var(&sf.debug, "d", "increase debug verbosity (repeatable)")
	fs.Var(&sf.debug, "debug", "increase debug verbosity (repeatable)")
	fs.StringVar(&sf.config, "c", "", "path to YAML config file")
	fs.StringVar(&sf.config, "config", "", "path to YAML config file")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	cfg, err := resolveConfig(sf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "receive: %v\n", err)
		return 1
	}

	b, err := bootstrap(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "receive: %v\n", err)
		return 1
	}
	defer b.Directory.Close()

	h, err := engine.NewHost(b.Priv, cfg.Port)
	if err != nil {
		fmt.Fprintf(os.Stderr, "receive: %v\n", err)
		return 1
	}
	defer h.Close()

	sess := engine.NewSession(h, engine.RoleReceive, engine.DefaultRelay, b.Gate)
	sess.SaveDir = cfg.SavePath
	sess.OnPeerKnown = func(remote peer.ID, observedAddr string) error {
		return directory.RememberPeer(b.Directory, os.Stdin, os.Stdout, remote.String(), observedAddr)
	}

	slog.Info("receive: waiting for a peer", "save_path", cfg.SavePath)
	return sess.Run(context.Background())
}

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Onboardbase/secure-share/internal/directory"
	"github.com/Onboardbase/secure-share/internal/termcolor"
)

// runList implements the "list" CLI mode: it returns before the engine
// ever runs, touching only the peer directory.
func runList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	configFlag := fs.String("c", "", "path to YAML config file")
	fs.StringVar(configFlag, "config", "", "path to YAML config file")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	dataDir, err := localDataDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "list: %v\n", err)
		return 1
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		fmt.Fprintf(os.Stderr, "list: %v\n", err)
		return 1
	}
	store, err := directory.Open(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "list: %v\n", err)
		return 1
	}
	defer store.Close()

	records, err := store.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "list: %v\n", err)
		return 1
	}
	if len(records) == 0 {
		termcolor.Faint("no remembered peers\n")
		return 0
	}
	for _, r := range records {
		termcolor.Green("%-20s %-52s %s", r.Name, r.PeerID, r.LastSeen.Format("2006-01-02 15:04"))
	}
	return 0
}

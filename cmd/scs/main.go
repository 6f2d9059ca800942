// Command scs is the secure-share CLI: a peer-to-peer transport for
// secrets, messages and files between two NATed machines via a DCUTR
// relay.
package main

import (
	"fmt"
	"os"

	"github.com/Onboardbase/secure-share/internal/termcolor"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var code int
	switch os.Args[1] {
	case "send":
		code = runSend(os.Args[2:])
	case "receive":
		code = runReceive(os.Args[2:])
	case "list":
		code = runList(os.Args[2:])
	case "version", "--version":
		fmt.Println("scs dev")
		return
	default:
		termcolor.Red("unknown mode: %s", os.Args[1])
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}
	os.Exit(code)
}

func printUsage() {
	fmt.Println("Usage: scs <send|receive|list> [options]")
	fmt.Println()
	fmt.Println("  send     -r <peer-id> | -n <nickname>  send secrets/messages/files")
	fmt.Println("           -s <key,value>   (repeatable)")
	fmt.Println("           -m <text>        (repeatable)")
	fmt.Println("           -f <path>        (repeatable)")
	fmt.Println("           -p <port> -d -c <config.yaml>")
	fmt.Println()
	fmt.Println("  receive  -p <port> -d -c <config.yaml>")
	fmt.Println()
	fmt.Println("  list     show remembered peers")
}

// Command problemtimer splits a session into equal problems and announces
// each one aloud.
//
// Usage:
//
//	problemtimer [flags]            desktop window with tray menu
//	problemtimer tui [flags]        terminal UI
//	problemtimer voices             list speech voices
//	problemtimer say <phrase...>    speak a phrase through the announcer
package main

import (
	"fmt"
	"os"

	"problemtimer/cmd/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/vsantana/radarbdr/cmd/radar/commands"
)

// main is the entry point for the Radar BDR CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

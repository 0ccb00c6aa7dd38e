// Package main is the entry point for the guildstore command.
// It manages the guild channel schema, inspects stored channels and members,
// and runs the Discord sync daemon.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

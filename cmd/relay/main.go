// Package main implements the relay CLI.
// It exposes the facade's run and compute operations along with
// configuration, journal and health-check commands.
package main

import (
	"os"

	"github.com/l3aro/go-relay/cmd/relay/commands"
)

var version = "dev"

func main() {
	commands.RootCmd.Version = version

	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

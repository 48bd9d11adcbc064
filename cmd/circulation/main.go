// Command circulation runs the library circulation service.
//
//	circulation migrate   apply the database schema
//	circulation seed      migrate, then fill the database with a reproducible demo library
//	circulation serve     migrate, then serve the HTTP API until SIGINT or SIGTERM
//
// Configuration comes from the environment and an optional .env file, see the config package.
package main

import (
	"fmt"
	"os"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

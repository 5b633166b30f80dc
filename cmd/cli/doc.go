// Package cli wires the ghops root command: configuration loading, structured
// logging, and the cleanup and change subcommands.
package cli

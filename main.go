// Package main is the entry point for the ampliquid CLI.
package main

import "ampliquid.dev/pkg/ampliquid/cmd"

func main() {
	cmd.Execute()
}

/*
Package main provides the CLI entry point for mailbolt.
*/
package main

import (
	"os"

	"github.com/mailbolt/mailbolt/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

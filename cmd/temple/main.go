// Package main provides the temple CLI for administering the record store.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "temple:", err)
		os.Exit(exitCode(err))
	}
}

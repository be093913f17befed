// Package main is the entry point for the nova CLI.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "nova: %v\n", err)
		os.Exit(1)
	}
}

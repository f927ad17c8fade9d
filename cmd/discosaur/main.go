// Package main is the command line entry point for the Discosaur engine.
//
// Build:
//
//	go build -o build/discosaur ./cmd/discosaur
//
// Run:
//
//	./build/discosaur scan ~/Music/Albums
//	./build/discosaur play
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

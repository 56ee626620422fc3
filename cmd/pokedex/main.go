// Package main is the entry point for the pokedex CLI
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newCLI(deps{}).execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := retryHint(err); hint != "" {
			fmt.Fprintln(os.Stderr, hint)
		}
		os.Exit(1)
	}
}

// Package main is the entry point for the switchyard packet tool.
package main

import (
	"fmt"
	"os"

	"github.com/liulalala/switchyard/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

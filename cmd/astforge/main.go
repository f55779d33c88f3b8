// Package main provides the entry point for the astforge CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/Sumatoshi-tech/astforge/cmd/astforge/commands"
)

func main() {
	err := commands.NewRootCommand().Execute()
	if err != nil {
		code := commands.ExitCode(err)
		if !commands.IsReported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}

		os.Exit(code)
	}
}

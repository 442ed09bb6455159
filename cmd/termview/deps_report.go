package main

import (
	"fmt"
	"io"

	"termview/internal/config"
	"termview/internal/deps"
)

// reportDependencies prints tool availability to the error stream. Purely
// diagnostic: only the kitty pre-flight in the composer gates execution.
func reportDependencies(w io.Writer, tools config.Tools) {
	for _, status := range deps.CheckBinaries(toolRequirements(tools)) {
		state := "ok"
		if !status.Available {
			state = "missing"
			if status.Optional {
				state = "missing (optional)"
			}
		}
		fmt.Fprintf(w, "dependency %-22s %-12s %s", status.Name, state, status.Command)
		if status.Detail != "" {
			fmt.Fprintf(w, " (%s)", status.Detail)
		}
		fmt.Fprintln(w)
	}
}

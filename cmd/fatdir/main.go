package main

import (
	"fmt"
	"os"

	"github.com/aligator/fatdir/checkpoint"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if verbose {
			for _, line := range checkpoint.Trace(err) {
				fmt.Fprintf(os.Stderr, "\t%s\n", line)
			}
		}
		os.Exit(1)
	}
}

// ABOUTME: Entry point for the classeviva CLI
// ABOUTME: Command-line client for the Classeviva gateway

package main

import (
	"fmt"
	"os"

	"github.com/markalston/classeviva-gateway/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Package main provides the operator CLI for the freeresumetools backend.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "frt",
	Short: "FreeResumeTools backend CLI",
	Long:  "Run the API server, push a resume through a tool, or open a donation checkout from a terminal. Configuration comes from the environment and .env.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// ABOUTME: Entry point for the gymlog CLI.
// ABOUTME: Invokes the root Cobra command.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Execute runs the root command and releases storage afterwards.
func Execute() error {
	err := rootCmd.Execute()
	if closeErr := closeRepo(); err == nil {
		err = closeErr
	}
	return err
}

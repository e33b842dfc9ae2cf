// Command trackerctl runs tracker bulk edits and exports from a terminal.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jpp0ca/DV360Trackers-API/internal/domain"
)

// Exit codes.
const (
	exitError        = 1
	exitAuthRequired = 2
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrAuthExpired):
		fmt.Fprintln(os.Stderr, "run `trackerctl auth url` and `trackerctl auth exchange <code>` to authorize")
		return exitAuthRequired
	default:
		return exitError
	}
}

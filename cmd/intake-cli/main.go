package main

import (
	"errors"
	"fmt"
	"os"
)

const (
	exitOK      = 0
	exitFailed  = 1
	exitAborted = 130
)

// exitError carries a process exit code out of a command without printing.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func main() {
	os.Exit(execute())
}

func execute() int {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			return exit.code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitFailed
	}
	return exitOK
}

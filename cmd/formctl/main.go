// cmd/formctl/main.go
//
// formctl – run the employee validator from a terminal.
//
//	formctl validate --intent submit --name Ada --email hey@conform.guide --title CTO
//	formctl validate --server http://localhost:8080 ...
//
// The client-side schema runs first.  When only the uniqueness check is
// missing and --server is given, the payload is posted to the action and
// the server's submission is printed instead.  Exit status is 1 when the
// final submission is invalid.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

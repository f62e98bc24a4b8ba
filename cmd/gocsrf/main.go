// Command gocsrf generates secrets, mints and checks anti-forgery tokens, and
// benchmarks the codec from the command line.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := newApp(os.Stdout, os.Stderr)
	err := app.Run(os.Args)
	if err == nil {
		return
	}

	if msg := err.Error(); msg != "" {
		fmt.Fprintln(os.Stderr, "error:", msg)
	}
	if code, ok := exitCodeOf(err); ok {
		os.Exit(code)
	}
	os.Exit(1)
}

// exitCodeOf finds the first cli.ExitCoder in err, looking inside the
// multi-errors urfave/cli builds when hooks and actions both fail.
func exitCodeOf(err error) (int, bool) {
	var multi cli.MultiError
	if errors.As(err, &multi) {
		for _, e := range multi.Errors() {
			if code, ok := exitCodeOf(e); ok {
				return code, true
			}
		}
	}
	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), true
	}
	return 0, false
}

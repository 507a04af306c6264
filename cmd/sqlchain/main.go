// Command sqlchain builds SQL statements from clause scripts.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/sqlchain/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		// ExitErrors have already been reported in the chosen format.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	os.Exit(cli.GetExitCode(err))
}

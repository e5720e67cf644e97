// Command namedrop is the CLI entrypoint for NameDrop, the batch file
// renamer.
//
// It parses flags, loads the optional rules file, and runs one of the
// preview, apply, watch or check commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

// errFilesFailed marks a run that finished with per-file errors. The errors
// have already been reported, so only the exit status changes.
var errFilesFailed = errors.New("one or more files could not be renamed")

func init() {
	// -v is --verbose; --version keeps only its long form.
	cli.VersionFlag = &cli.BoolFlag{Name: "version", Usage: "Print the version"}
}

func main() {
	os.Exit(run(os.Args, os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	cmd := newRootCommand(stdout)
	if err := cmd.Run(context.Background(), args); err != nil {
		if !errors.Is(err, errFilesFailed) {
			fmt.Fprintf(os.Stderr, "namedrop: %v\n", err)
		}
		return 1
	}
	return 0
}

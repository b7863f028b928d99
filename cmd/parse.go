package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/masmgr/repominer/internal/git"
	"github.com/masmgr/repominer/internal/output"
	"github.com/urfave/cli/v2"
)

// ParseCmd creates the parse command, which converts a captured
// "git log --numstat" output into CSV rows.
func ParseCmd() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Convert captured git log output into CSV rows",
		ArgsUsage: "[log file, default: stdin]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output CSV path (default: stdout)",
				Value:   output.StdoutPath,
			},
		},
		Action: parseAction,
	}
}

func parseAction(c *cli.Context) error {
	var in io.Reader = os.Stdin
	if c.NArg() > 0 && c.Args().Get(0) != output.StdoutPath {
		f, err := os.Open(c.Args().Get(0))
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		in = f
	}

	path := c.String("output")
	var sink *output.CSVSink
	if path == output.StdoutPath {
		sink = output.NewCSVSink(c.App.Writer)
	} else {
		var err error
		if sink, err = output.OpenCSVSink(path); err != nil {
			return err
		}
	}

	parseErr := git.ParseNumstat(in, sink.WriteRow)
	if err := sink.Close(); err != nil && parseErr == nil {
		parseErr = err
	}
	if parseErr != nil {
		return fmt.Errorf("parse log: %w", parseErr)
	}
	return nil
}

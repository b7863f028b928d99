package cmd

import (
	"github.com/masmgr/repominer/internal/output"
	"github.com/urfave/cli/v2"
)

// ListCmd creates the list command.
func ListCmd() *cli.Command {
	return &cli.Command{
		Name:   "list",
		Usage:  "Print the repositories a mine run would process",
		Flags:  sourceFlags(),
		Action: listAction,
	}
}

func listAction(c *cli.Context) error {
	cmdCtx, err := NewCommandContext(c)
	if err != nil {
		return err
	}

	jobs, err := cmdCtx.Jobs(c.Context)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		cmdCtx.Reporter.Warn("No repositories found.")
		return nil
	}
	return output.WriteJobs(c.App.Writer, jobs)
}

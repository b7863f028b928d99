package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/masmgr/repominer/internal/git"
	"github.com/masmgr/repominer/internal/mining"
	"github.com/masmgr/repominer/internal/output"
	"github.com/urfave/cli/v2"
)

const mineDescription = `Repositories that cannot be cloned or read are reported and left out of the output.
The exit status is non-zero only when no repository could be mined, the output could not
be written, or the configuration is invalid.`

// MineCmd creates the mine command.
func MineCmd() *cli.Command {
	flags := append(sourceFlags(),
		&cli.StringSliceFlag{
			Name:  "identity",
			Usage: "Author name or email to exclude, instead of the user's GitHub profile (can be specified multiple times)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output CSV path, - for stdout (default: <user>.csv)",
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"w"},
			Usage:   "Number of concurrent workers (default: 4)",
		},
		&cli.IntFlag{
			Name:  "batch-size",
			Usage: "Maximum jobs a worker takes from the backlog at once (default: 32)",
		},
		&cli.StringFlag{
			Name:  "git-binary",
			Usage: "git executable (default: git)",
		},
		&cli.StringFlag{
			Name:  "clone-backend",
			Usage: "Clone backend (cli, go-git)",
		},
		&cli.DurationFlag{
			Name:  "clone-timeout",
			Usage: "Time limit per clone, e.g. 5m (default: none)",
		},
		&cli.DurationFlag{
			Name:  "extract-timeout",
			Usage: "Time limit per history read (default: none)",
		},
		&cli.StringFlag{
			Name:  "temp-dir",
			Usage: "Directory that holds the working copies (default: system temp dir)",
		},
		&cli.BoolFlag{
			Name:  "keep-workdirs",
			Usage: "Keep cloned working copies after the run",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Print a line per repository",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Print nothing but errors",
		},
	)

	return &cli.Command{
		Name:        "mine",
		Usage:       "Clone every repository and write a CSV row per foreign commit",
		Description: mineDescription,
		Flags:       flags,
		Action:      mineAction,
	}
}

func mineAction(c *cli.Context) error {
	cmdCtx, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	cfg := cmdCtx.Config

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	filter, err := cmdCtx.IdentityFilter(ctx)
	if err != nil {
		return err
	}
	jobs, err := cmdCtx.Jobs(ctx)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		cmdCtx.Reporter.Warn("No repositories to mine.")
	}

	backend, err := git.ParseBackend(cfg.Git.CloneBackend)
	if err != nil {
		return err
	}
	runner := git.Runner{Binary: cfg.Git.Binary}
	acquirer := git.NewAcquirer(git.CloneOptions{
		Backend: backend,
		Timeout: cfg.Git.CloneTimeout.Std(),
		Runner:  runner,
	})
	extractor := &git.LogExtractor{
		Runner:  runner,
		Timeout: cfg.Git.ExtractTimeout.Std(),
	}

	outputPath := cmdCtx.OutputPath()
	sink, err := output.OpenCSVSink(outputPath)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	miner, err := mining.New(acquirer, extractor, sink, filter, cmdCtx.Reporter, mining.Options{
		Workers:      cfg.Workers.Count,
		BatchSize:    cfg.Workers.BatchSize,
		TempDir:      cfg.Git.TempDir,
		KeepWorkdirs: cfg.Git.KeepWorkdirs,
		RunID:        runID,
	})
	if err != nil {
		sink.Close()
		return err
	}

	cmdCtx.Reporter.Start(runID, len(jobs), cfg.Workers.Count)
	summary, runErr := miner.Run(ctx, jobs)
	closeErr := sink.Close()

	cmdCtx.Reporter.Summary(summary.Succeeded, summary.Failed, summary.Rows, summary.Elapsed)

	if runErr != nil {
		return fmt.Errorf("mining failed: %w", runErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close output %s: %w", outputPath, closeErr)
	}
	if summary.Jobs > 0 && summary.Succeeded == 0 {
		return errors.New("no repository could be mined")
	}
	return nil
}

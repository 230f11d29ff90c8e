package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/riskibarqy/castaway-fantasy/internal/app"
	"github.com/riskibarqy/castaway-fantasy/internal/config"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/episode"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/rules"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/castaway-fantasy/internal/infrastructure/snapshot"
	"github.com/riskibarqy/castaway-fantasy/internal/platform/logging"
)

const (
	snapshotFlag  = "snapshot"
	rulesFlag     = "rules"
	nowFlag       = "now"
	outputFlag    = "output"
	leagueFlag    = "league"
	stdoutCLIName = "-"
)

var build string
var semanticVersion = "v0.1.0-dev" + build

func main() {
	os.Exit(run(os.Args))
}

// run returns the process exit code so deferred cleanup finishes before exit.
func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, args); err != nil {
		log.Print(err)
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		return 1
	}
	return 0
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "scorer",
		Usage:   "Compile castaway fantasy league scores",
		Version: semanticVersion,
		// run maps ExitCoder errors to the process exit code.
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			compileCommand(),
			leaderboardCommand(),
			pollCommand(),
			recompileCommand(),
		},
	}
}

func snapshotFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     snapshotFlag,
			Aliases:  []string{"s"},
			Usage:    "Path to the league snapshot JSON file",
			Required: true,
		},
		&cli.StringFlag{
			Name:  rulesFlag,
			Usage: "Optional YAML rules file overriding the snapshot rules",
		},
		&cli.TimestampFlag{
			Name:   nowFlag,
			Usage:  "Evaluation time, overrides the snapshot's now",
			Layout: time.RFC3339,
		},
		&cli.StringFlag{
			Name:    outputFlag,
			Aliases: []string{"o"},
			Usage:   "Where to write the JSON result. A file path or \"-\" for stdout.",
			Value:   stdoutCLIName,
		},
	}
}

func compileCommand() *cli.Command {
	return &cli.Command{
		Name:  "compile",
		Usage: "Compile a snapshot file and print every timeline and score series",
		Flags: snapshotFlags(),
		Action: func(cCtx *cli.Context) error {
			input, err := loadInput(cCtx)
			if err != nil {
				return err
			}
			output := scoring.Compile(input, cliLogger())
			return writeJSON(cCtx.String(outputFlag), output)
		},
	}
}

func leaderboardCommand() *cli.Command {
	return &cli.Command{
		Name:  "leaderboard",
		Usage: "Compile a snapshot file and print the ranked members",
		Flags: snapshotFlags(),
		Action: func(cCtx *cli.Context) error {
			input, err := loadInput(cCtx)
			if err != nil {
				return err
			}
			output := scoring.Compile(input, cliLogger())
			return writeJSON(cCtx.String(outputFlag), output.Leaderboard())
		},
	}
}

type pollResult struct {
	Now         time.Time           `json:"now"`
	KeyEpisodes episode.KeyEpisodes `json:"keyEpisodes"`
	Pending     bool                `json:"pending"`
	IntervalMs  int64               `json:"intervalMs"`
}

func pollCommand() *cli.Command {
	return &cli.Command{
		Name:  "poll",
		Usage: "Print the key episodes and how long to wait before re-checking air statuses",
		Flags: snapshotFlags(),
		Action: func(cCtx *cli.Context) error {
			input, err := loadInput(cCtx)
			if err != nil {
				return err
			}
			interval, pending := episode.PollingInterval(input.Episodes, input.Now)
			return writeJSON(cCtx.String(outputFlag), pollResult{
				Now:         input.Now,
				KeyEpisodes: episode.ResolveKeyEpisodes(input.Episodes, input.Now),
				Pending:     pending,
				IntervalMs:  interval.Milliseconds(),
			})
		},
	}
}

func recompileCommand() *cli.Command {
	return &cli.Command{
		Name:  "recompile",
		Usage: "Recompile leagues from the configured store (all active leagues when none are given)",
		Flags: []cli.Flag{
			&cli.Int64SliceFlag{
				Name:    leagueFlag,
				Aliases: []string{"l"},
				Usage:   "League id to recompile, repeatable",
			},
			&cli.StringFlag{
				Name:    outputFlag,
				Aliases: []string{"o"},
				Usage:   "Where to write the JSON result. A file path or \"-\" for stdout.",
				Value:   stdoutCLIName,
			},
		},
		Action: func(cCtx *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := app.NewLogger(cfg)

			svc, err := app.New(cCtx.Context, cfg, logger)
			if err != nil {
				logger.Error("build app", "error", err)
				return err
			}
			defer svc.Close()

			result, err := svc.Scoring.RecompileLeagues(cCtx.Context, cCtx.Int64Slice(leagueFlag))
			if err != nil {
				return err
			}
			if err := writeJSON(cCtx.String(outputFlag), result); err != nil {
				return err
			}
			if result.FailedCount > 0 {
				return cli.Exit(fmt.Sprintf("%d of %d leagues failed", result.FailedCount, result.LeagueCount), 2)
			}
			return nil
		},
	}
}

func loadInput(cCtx *cli.Context) (scoring.Input, error) {
	input, fileNow, err := snapshot.Load(cCtx.String(snapshotFlag))
	if err != nil {
		return scoring.Input{}, err
	}

	if path := cCtx.String(rulesFlag); path != "" {
		loaded, err := rules.LoadFile(path)
		if err != nil {
			return scoring.Input{}, fmt.Errorf("load rules: %w", err)
		}
		input.Rules = loaded
	}

	switch {
	case cCtx.Timestamp(nowFlag) != nil:
		input.Now = cCtx.Timestamp(nowFlag).UTC()
	case fileNow != nil:
		input.Now = fileNow.UTC()
	default:
		input.Now = time.Now().UTC()
	}

	return input, nil
}

func cliLogger() *logging.Logger {
	return logging.New(logging.Options{
		Level:       logging.LevelWarn,
		ServiceName: "scorer",
		Output:      os.Stderr,
	})
}

func writeJSON(location string, v any) error {
	var w io.Writer = os.Stdout
	if location != "" && location != stdoutCLIName {
		f, err := os.OpenFile(location, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return fmt.Errorf("open output: %w", err)
		}
		defer f.Close()
		w = f
	}
	return snapshot.Encode(w, v)
}

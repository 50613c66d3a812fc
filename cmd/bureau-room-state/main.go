// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/roomstate/internal/cli"
	"github.com/bureau-foundation/roomstate/lib/config"
	"github.com/bureau-foundation/roomstate/lib/version"
	"github.com/bureau-foundation/roomstate/roomstate"
)

// defaultCheckpointPath is the --save-checkpoint value meaning "the
// room's file in the configured checkpoint directory".
const defaultCheckpointPath = "default"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		var exitError *cli.ExitError
		if errors.As(err, &exitError) {
			os.Exit(exitError.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var toolError *cli.ToolError
		if errors.As(err, &toolError) {
			os.Exit(toolError.ExitCode())
		}
		os.Exit(1)
	}
}

// options holds the parsed command line.
type options struct {
	room           string
	self           string
	direction      string
	fromCheckpoint string
	saveCheckpoint string
	compression    string
	logLevel       string
	configPath     string
	member         string
	dumpCheckpoint bool
	outputJSON     bool
	noColor        bool
	eventsPath     string
}

func newFlagSet(opts *options) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("bureau-room-state", pflag.ContinueOnError)
	flagSet.StringVar(&opts.room, "room", "", "room ID (required when the events name no room)")
	flagSet.StringVar(&opts.self, "self", "", "user ID to compute the room name and pagination for (default: self_user_id from config)")
	flagSet.StringVar(&opts.direction, "direction", "forward", "replay direction: forward or revert")
	flagSet.StringVar(&opts.fromCheckpoint, "from-checkpoint", "", "start from the room state saved in this checkpoint file")
	flagSet.StringVar(&opts.saveCheckpoint, "save-checkpoint", "", "save the resulting state to this file (bare flag: the configured checkpoint directory)")
	flagSet.Lookup("save-checkpoint").NoOptDefVal = defaultCheckpointPath
	flagSet.StringVar(&opts.compression, "compression", "", "checkpoint compression: none, lz4, or zstd (default: from config)")
	flagSet.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (default: from config)")
	flagSet.StringVar(&opts.configPath, "config", "", "config file (default: $"+config.EnvironmentVariable+", else built-in defaults)")
	flagSet.StringVar(&opts.member, "member", "", "print only this member; exits 1 when the user is not in the room")
	flagSet.BoolVar(&opts.dumpCheckpoint, "dump-checkpoint", false, "print the --from-checkpoint body in CBOR diagnostic notation and exit")
	flagSet.BoolVar(&opts.outputJSON, "json", false, "output as JSON")
	flagSet.BoolVar(&opts.noColor, "no-color", false, "disable ANSI styling")
	flagSet.BoolP("help", "h", false, "show help")
	return flagSet
}

func run(args []string, stdout, stderr io.Writer) error {
	// Handle --version before flag parsing to match other Bureau binaries.
	if len(args) > 0 && args[0] == "--version" {
		fmt.Fprintf(stdout, "bureau-room-state %s\n", version.Info())
		return nil
	}

	var opts options
	flagSet := newFlagSet(&opts)
	flagSet.SetOutput(io.Discard)
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stderr, flagSet)
			return nil
		}
		return cli.Validation("%w", err).WithHint("Run 'bureau-room-state --help' for usage.")
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(stderr, flagSet)
		return nil
	}

	if opts.dumpCheckpoint {
		if opts.fromCheckpoint == "" {
			return cli.Validation("--dump-checkpoint needs --from-checkpoint")
		}
		return dumpCheckpoint(stdout, opts.fromCheckpoint)
	}

	switch positional := flagSet.Args(); len(positional) {
	case 0:
		if opts.fromCheckpoint == "" {
			return cli.Validation("no events file given").
				WithHint("Pass an events file, or --from-checkpoint to inspect a saved state.")
		}
	case 1:
		opts.eventsPath = positional[0]
	default:
		return cli.Validation("expected one events file, got %d arguments", len(positional))
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg, &opts)
	if err := cfg.Validate(); err != nil {
		return cli.Validation("invalid configuration:\n%w", err)
	}

	level, _ := cfg.LogLevel()
	logger := cli.NewCommandLogger(stderr, level).With("command", "room-state")

	direction, err := roomstate.ParseDirection(opts.direction)
	if err != nil {
		return cli.Validation("--direction: %w", err)
	}

	result, err := replay(replayRequest{
		roomID:         opts.room,
		eventsPath:     opts.eventsPath,
		fromCheckpoint: opts.fromCheckpoint,
		direction:      direction,
		logger:         logger,
	})
	if err != nil {
		return err
	}

	if opts.saveCheckpoint != "" {
		if err := saveCheckpoint(cfg, opts.saveCheckpoint, result.state, logger); err != nil {
			return err
		}
	}

	view := newReportView(result, cfg)
	styles := newStyles(stdout, colorMode(cfg, opts.noColor), cfg.Display.DisambiguationColor)

	if opts.member != "" {
		member, ok := view.member(opts.member)
		if !ok {
			fmt.Fprintf(stderr, "%s is not in %s\n", opts.member, result.state.RoomID())
			return &cli.ExitError{Code: 1}
		}
		if opts.outputJSON {
			return cli.WriteJSON(stdout, member)
		}
		return writeMember(stdout, styles, member)
	}

	report := view.report()
	if opts.outputJSON {
		return cli.WriteJSON(stdout, report)
	}
	return writeReport(stdout, styles, report)
}

// loadConfig loads the explicit config file, else the one named by the
// environment, else the built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		cfg, err := config.LoadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, cli.NotFound("config file %s does not exist", path)
			}
			return nil, cli.Validation("loading config: %w", err)
		}
		return cfg, nil
	}

	cfg, err := config.Load()
	if errors.Is(err, config.ErrNotConfigured) {
		return config.Default(), nil
	}
	if err != nil {
		return nil, cli.Validation("loading config: %w", err)
	}
	return cfg, nil
}

func applyFlagOverrides(cfg *config.Config, opts *options) {
	if opts.self != "" {
		cfg.SelfUserID = opts.self
	}
	if opts.compression != "" {
		cfg.Checkpoint.Compression = opts.compression
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
}

func colorMode(cfg *config.Config, noColor bool) string {
	if noColor {
		return "never"
	}
	return cfg.Display.Color
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `bureau-room-state replays Matrix state events and prints the resulting room.

Usage:
  bureau-room-state [flags] <events-file>
  bureau-room-state --from-checkpoint FILE [flags] [events-file]

The events file holds a JSON array of client events, one event per line,
or a /sync response. // and /* */ comments and trailing commas are allowed.

Examples:
  # Show a room from a sync response, as @me sees it
  bureau-room-state --room '!lobby:example.org' --self @me:example.org sync.json

  # Continue from a checkpoint and save the result back
  bureau-room-state --from-checkpoint lobby.rsck --save-checkpoint=lobby.rsck more.jsonl

  # Inspect what a checkpoint holds
  bureau-room-state --from-checkpoint lobby.rsck --dump-checkpoint

  # Look up one member
  bureau-room-state --member @alice:example.org --json events.jsonl

Flags:
`)
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
}

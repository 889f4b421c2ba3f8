package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.coldcutz.net/mococli/internal/config"
	"go.coldcutz.net/mococli/internal/prompt"
	"golang.org/x/term"
)

var (
	debugFlag  bool
	configFlag string
)

// app is the environment of the running command, built in setup.
var app *env

var rootCmd = &cobra.Command{
	Use:   "mococli",
	Short: "Track your time in Moco from the command line",
	Long: `mococli lists, books and edits Moco activities, controls timers and reports overtime.

Commands:
  login        Log in to Moco or switch to the local backend
  list         List activities of a day, week or month
  new          Book a new activity (starts a timer when no hours are given)
  edit         Edit date, duration and description of an activity
  edit-simple  Edit the duration of one of today's activities
  rm           Delete an activity
  timer        Start or stop an activity timer
  overtime     Show your overtime
  project      List, add or deactivate projects and tasks

Whenever an id flag is missing or unknown, mococli lists the candidates and asks you to pick one.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if app != nil {
		if cerr := app.close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default $XDG_CONFIG_HOME/mococli/config.yaml, or $"+config.EnvConfig+")")
}

// noBackend marks commands that neither open a backend nor read prompts.
const noBackend = "no-backend"

func setup(cmd *cobra.Command, args []string) error {
	logger := newLogger(os.Stderr, debugFlag)

	path := configFlag
	if path == "" {
		p, err := config.Path()
		if err != nil {
			return err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	logger.Debug("loaded config", "path", path, "backend", cfg.Backend)

	out := cmd.OutOrStdout()
	interactive := stdinIsTerminal()
	if cmd.Annotations[noBackend] != "" {
		// huh reads the terminal itself, so only scripted input goes through a line reader.
		var in prompt.LineReader
		if !interactive {
			in = prompt.NewPlainReader(os.Stdin, out)
		}
		app = newEnv(cfg, path, in, out, logger)
		app.interactive = interactive
		return nil
	}

	in, closeIn, err := newLineReader(out, interactive)
	if err != nil {
		return err
	}
	e := newEnv(cfg, path, in, out, logger)
	e.interactive = interactive
	if closeIn != nil {
		e.closers = append(e.closers, closeIn)
	}
	if err := e.openBackend(); err != nil {
		e.close()
		return err
	}
	app = e
	return nil
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// stdinIsTerminal reports whether prompts can use line editing.
func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func newLineReader(out io.Writer, interactive bool) (prompt.LineReader, io.Closer, error) {
	if interactive {
		rl, err := prompt.NewReadlineReader(os.Stdin, out)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to set up line editing: %w", err)
		}
		return rl, rl, nil
	}
	return prompt.NewPlainReader(os.Stdin, out), nil, nil
}

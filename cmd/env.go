package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.coldcutz.net/mococli/internal/config"
	"go.coldcutz.net/mococli/internal/daterange"
	"go.coldcutz.net/mococli/internal/moco"
	"go.coldcutz.net/mococli/internal/prompt"
	"go.coldcutz.net/mococli/internal/resolve"
	"go.coldcutz.net/mococli/internal/store"
	"go.coldcutz.net/mococli/internal/tracker"
)

// env holds what a command needs: the loaded config, the backend and the terminal.
type env struct {
	cfg     config.Config
	cfgPath string
	out     io.Writer
	logger  *slog.Logger
	styles  styles

	// interactive is set when stdin is a terminal.
	interactive bool

	prompt   *prompt.Prompter
	dates    *daterange.Calculator
	backend  tracker.Backend
	resolver *resolve.Resolver

	// mocoOptions are passed to every Moco client the env creates.
	mocoOptions []moco.Option
	closers     []io.Closer
}

func newEnv(cfg config.Config, cfgPath string, in prompt.LineReader, out io.Writer, logger *slog.Logger) *env {
	return &env{
		cfg:     cfg,
		cfgPath: cfgPath,
		out:     out,
		logger:  logger,
		styles:  newStyles(out),
		prompt:  prompt.New(in, out, logger),
		dates:   daterange.NewCalculator(cfg.FirstDayOfWeek()),
	}
}

func (e *env) openBackend() error {
	switch e.cfg.Backend {
	case config.BackendLocal:
		path, err := e.cfg.LocalDBPath()
		if err != nil {
			return err
		}
		s, err := e.openStore(path)
		if err != nil {
			return err
		}
		e.closers = append(e.closers, s)
		e.setBackend(s)
	default:
		if !e.cfg.MocoLoggedIn() {
			return tracker.ErrNotLoggedIn
		}
		e.setBackend(e.mocoClient(e.cfg.Moco))
	}
	return nil
}

func (e *env) openStore(path string) (*store.Store, error) {
	s, err := store.New(path,
		store.WithDailyTarget(e.cfg.DailyTargetHours),
		store.WithClock(func() time.Time { return e.dates.Now() }),
		store.WithLogger(e.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open local database: %w", err)
	}
	return s, nil
}

func (e *env) mocoClient(cfg config.MocoConfig) *moco.Client {
	opts := append([]moco.Option{moco.WithLogger(e.logger)}, e.mocoOptions...)
	return moco.New(cfg, opts...)
}

func (e *env) setBackend(b tracker.Backend) {
	e.backend = b
	e.resolver = resolve.New(b, e.prompt, e.dates, e.logger)
}

func (e *env) close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i].Close())
	}
	e.closers = nil
	return errors.Join(errs...)
}

func (e *env) today() time.Time {
	return e.dates.Today().From
}

func (e *env) heading(format string, args ...any) {
	fmt.Fprintln(e.out, e.styles.heading.Render(fmt.Sprintf(format, args...)))
}

func (e *env) success(format string, args ...any) {
	fmt.Fprintln(e.out, e.styles.success.Render(fmt.Sprintf(format, args...)))
}

func (e *env) warn(format string, args ...any) {
	fmt.Fprintln(e.out, e.styles.warning.Render(fmt.Sprintf(format, args...)))
}

func parseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(daterange.DateFormat, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

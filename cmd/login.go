package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"go.coldcutz.net/mococli/internal/config"
	"go.coldcutz.net/mococli/internal/prompt"
)

var loginDB string

var loginCmd = &cobra.Command{
	Use:   "login [moco|local]",
	Short: "Log in to Moco or switch to the local backend",
	Long: `Log in to Moco: asks for your company, your personal API key, the Bot API key (needed for
the overtime report) and your name, looks up your user id and stores everything in the config file.

"login local" switches to a local SQLite database instead.`,
	Args:        cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs:   []string{config.BackendMoco, config.BackendLocal},
	Annotations: map[string]string{noBackend: "true"},
	RunE:        runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginDB, "db", "", "Database path for the local backend")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	system := config.BackendMoco
	if len(args) == 1 {
		system = args[0]
	}

	if system == config.BackendLocal {
		return app.loginLocal(loginDB)
	}

	creds := mocoLogin{
		company:   app.cfg.Moco.Company,
		apiKey:    app.cfg.Moco.APIKey,
		botAPIKey: app.cfg.Moco.BotAPIKey,
	}
	if err := app.askMocoLogin(cmd.Context(), &creds); err != nil {
		return err
	}
	return app.loginMoco(cmd.Context(), creds)
}

type mocoLogin struct {
	company   string
	apiKey    string
	botAPIKey string
	firstname string
	lastname  string
}

func required(s string) error {
	if msg := prompt.Mandatory(strings.TrimSpace(s)); msg != "" {
		return errors.New(msg)
	}
	return nil
}

type loginField struct {
	title       string
	description string
	value       *string
	secret      bool
}

func (l *mocoLogin) fields() []loginField {
	return []loginField{
		{title: "Moco company name", description: "<company>.mocoapp.com", value: &l.company},
		{title: "Personal API key", value: &l.apiKey, secret: true},
		{title: "Moco Bot API key", value: &l.botAPIKey, secret: true},
		{title: "First name", value: &l.firstname},
		{title: "Last name", value: &l.lastname},
	}
}

// askMocoLogin runs the login form on a terminal and falls back to line prompts otherwise.
func (e *env) askMocoLogin(ctx context.Context, l *mocoLogin) error {
	e.heading("Moco Login")
	if !e.interactive {
		return e.askMocoLoginLines(l)
	}

	var inputs []huh.Field
	for _, f := range l.fields() {
		in := huh.NewInput().Title(f.title).Description(f.description).Value(f.value).Validate(required)
		if f.secret {
			in = in.EchoMode(huh.EchoModePassword)
		}
		inputs = append(inputs, in)
	}
	form := huh.NewForm(
		huh.NewGroup(inputs[:3]...),
		huh.NewGroup(inputs[3:]...),
	).WithOutput(e.out)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return prompt.ErrInputExhausted
		}
		return fmt.Errorf("failed to read login: %w", err)
	}
	return nil
}

// askMocoLoginLines asks for every login field on its own line. Known values are the defaults.
func (e *env) askMocoLoginLines(l *mocoLogin) error {
	for _, f := range l.fields() {
		var (
			answer string
			err    error
		)
		if *f.value != "" {
			answer, err = e.prompt.AskDefault(fmt.Sprintf("%s - Default '%s': ", f.title, shown(*f.value, f.secret)), *f.value, nil)
		} else {
			answer, err = e.prompt.Ask(f.title+": ", prompt.Mandatory)
		}
		if err != nil {
			return err
		}
		*f.value = answer
	}
	return nil
}

func shown(value string, secret bool) string {
	if secret {
		return "current"
	}
	return value
}

// loginMoco looks up the user id with the given credentials and saves them as the new config.
func (e *env) loginMoco(ctx context.Context, l mocoLogin) error {
	creds := config.MocoConfig{
		Company:   strings.TrimSpace(l.company),
		APIKey:    strings.TrimSpace(l.apiKey),
		BotAPIKey: strings.TrimSpace(l.botAPIKey),
	}
	id, err := e.mocoClient(creds).UserID(ctx, strings.TrimSpace(l.firstname), strings.TrimSpace(l.lastname))
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	creds.UserID = &id

	cfg := e.cfg
	cfg.Backend = config.BackendMoco
	cfg.Moco = creds
	if err := config.Save(e.cfgPath, cfg); err != nil {
		return err
	}
	e.cfg = cfg
	e.logger.Debug("saved moco login", "path", e.cfgPath, "user_id", id)
	e.success("🤩 Logged in 🤩")
	return nil
}

// loginLocal switches to the local backend, creating the database if needed.
func (e *env) loginLocal(dbPath string) error {
	cfg := e.cfg
	cfg.Backend = config.BackendLocal
	if dbPath != "" {
		cfg.Local.DBPath = dbPath
	}
	path, err := cfg.LocalDBPath()
	if err != nil {
		return err
	}

	s, err := e.openStore(path)
	if err != nil {
		return err
	}
	if err := s.Close(); err != nil {
		return err
	}

	if err := config.Save(e.cfgPath, cfg); err != nil {
		return err
	}
	e.cfg = cfg
	e.success("Using local database %s", path)
	return nil
}

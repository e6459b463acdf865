package cli

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"taskdeck/internal/api"
	"taskdeck/internal/board"
	"taskdeck/internal/config"
	"taskdeck/internal/logging"
	"taskdeck/internal/session"
	"taskdeck/internal/store"
	"taskdeck/internal/ui"
)

// App holds the wired-up dependencies shared by every command. They are
// built lazily so `taskdeck version` works without a config file.
type App struct {
	Config  *config.Config
	DB      *store.DB
	Client  *api.Client
	Session *session.Session
	Board   *board.Board
	Archive *store.Archive
}

// setup loads config, opens the local store and builds the API client.
// Safe to call once per process.
func (a *App) setup() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.Config = cfg

	logging.Init(cfg.LogFile, cfg.LogLevel)

	db, err := store.Open(filepath.Join(cfg.DataDir, "taskdeck.db"))
	if err != nil {
		return fmt.Errorf("opening local store: %w", err)
	}
	a.DB = db

	a.Client = api.New(cfg.BaseURL, db)
	a.Session = session.New(db, a.Client)
	a.Archive = store.NewArchive(db)
	a.Board = board.New(a.Client, a.Archive)
	return nil
}

func (a *App) close() {
	if a.DB != nil {
		a.DB.Close()
	}
}

// NewRootCmd builds the command tree. With no subcommand the interactive
// TUI starts.
func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "taskdeck",
		Short:        "Task and group management TUI over a remote server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newRegisterCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newArchiveCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func runTUI(app *App) error {
	if err := app.setup(); err != nil {
		return err
	}
	defer app.close()

	model := ui.NewApp(app.DB, app.Session, app.Board, app.Archive)
	p := tea.NewProgram(model, tea.WithAltScreen())

	app.Client.OnUnauthorized(func() {
		// Invalidation is idempotent; the TUI additionally reacts to
		// the AuthError itself by switching to the login screen.
		if app.Session.Invalidate() {
			logging.Logger.Warn("server rejected the stored token")
		}
	})

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running application: %w", err)
	}
	return nil
}

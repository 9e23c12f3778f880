package app

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/nhle/mailwatch/internal/credential"
	"github.com/nhle/mailwatch/internal/model"
	"github.com/nhle/mailwatch/internal/source"
	"github.com/nhle/mailwatch/internal/store"
	appsync "github.com/nhle/mailwatch/internal/sync"
)

// App wires configuration, credentials, the mailbox and the stores
// together for the command line.
type App struct {
	cfg      *model.AppConfig
	log      *log.Logger
	stdout   io.Writer
	resolver *credential.Resolver

	// connect opens a mailbox session for the given credentials. Tests
	// replace it with a fake.
	connect func(creds credential.Credentials) appsync.ConnectFunc
}

// New creates an App. Reports are printed to stdout.
func New(cfg *model.AppConfig, logger *log.Logger, stdout io.Writer) *App {
	a := &App{
		cfg:      cfg,
		log:      logger,
		stdout:   stdout,
		resolver: credential.NewResolver(),
	}
	a.connect = a.imapConnector
	return a
}

// Config returns the loaded configuration.
func (a *App) Config() *model.AppConfig {
	return a.cfg
}

// Credentials resolves the mailbox login from the environment, the
// credentials file and the keyring.
func (a *App) Credentials() (credential.Credentials, error) {
	fileValues, err := credential.LoadFile(a.cfg.CredentialsFile)
	if err != nil {
		return credential.Credentials{}, err
	}
	return a.resolver.Resolve(fileValues)
}

// RunJob executes the named job once and returns its report.
func (a *App) RunJob(ctx context.Context, name string) (*model.Report, error) {
	job, ok := a.cfg.Job(name)
	if !ok {
		return nil, &source.ConfigError{
			Key:     "jobs",
			Message: fmt.Sprintf("unknown job %q (configured: %v)", name, a.cfg.JobNames()),
		}
	}

	creds, err := a.Credentials()
	if err != nil {
		return nil, err
	}

	runner := appsync.New(a.connect(creds), a.cfg.IMAP.Folder, a.log)
	runner.Out = a.stdout

	history, err := a.openHistory()
	if err != nil {
		a.log.Warn("alert history unavailable", "path", a.cfg.HistoryDB, "error", err)
	}
	if history != nil {
		defer history.Close()
		runner.History = history
	}

	reports := store.NewFileStore(job.StatePath, a.log)
	return runner.Run(ctx, job, reports)
}

// Alerts lists recorded alerts. It fails when no history database is
// configured.
func (a *App) Alerts(ctx context.Context, filter store.AlertFilter) ([]model.Alert, error) {
	history, err := a.openHistory()
	if err != nil {
		return nil, err
	}
	if history == nil {
		return nil, &source.ConfigError{
			Key:     "history_db",
			Message: "alert history is disabled; set history_db in the config",
		}
	}
	defer history.Close()

	return history.GetAlerts(ctx, filter)
}

// openHistory opens the SQLite alert history, or returns nil when it is
// disabled.
func (a *App) openHistory() (*store.SQLiteStore, error) {
	if a.cfg.HistoryDB == "" {
		return nil, nil
	}
	if err := ensureDir(a.cfg.HistoryDB); err != nil {
		return nil, err
	}
	return store.NewSQLiteStore(a.cfg.HistoryDB)
}

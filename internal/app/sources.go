package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nhle/mailwatch/internal/credential"
	"github.com/nhle/mailwatch/internal/source/email"
	appsync "github.com/nhle/mailwatch/internal/sync"
)

// imapConnector returns a ConnectFunc that logs into the configured IMAP
// server with creds.
func (a *App) imapConnector(creds credential.Credentials) appsync.ConnectFunc {
	adapter := email.NewAdapter(a.cfg.IMAP, creds.Username, creds.Password)

	return func(ctx context.Context) (appsync.Mailbox, error) {
		session, err := adapter.Open(ctx)
		if err != nil {
			return nil, err
		}
		return session, nil
	}
}

// ValidateLogin logs in with creds and returns the unread count of the
// configured folder.
func (a *App) ValidateLogin(ctx context.Context, creds credential.Credentials) (int, error) {
	adapter := email.NewAdapter(a.cfg.IMAP, creds.Username, creds.Password)
	return adapter.ValidateConnection(ctx)
}

// SaveCredentials stores creds in the system keyring.
func (a *App) SaveCredentials(creds credential.Credentials) error {
	if err := credential.SaveCredentials(creds); err != nil {
		return err
	}
	a.log.Info("credentials stored in keyring", "user", creds.Username)
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}

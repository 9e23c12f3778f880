package email

import (
	"context"
	"fmt"

	"github.com/nhle/mailwatch/internal/model"
)

// Adapter binds an IMAP client to the server settings and folder of the
// application config.
type Adapter struct {
	client   *IMAPClient
	folder   string
	username string
}

// NewAdapter creates a new mailbox adapter.
func NewAdapter(cfg model.IMAPConfig, username, password string) *Adapter {
	return &Adapter{
		client:   NewIMAPClient(cfg.Host, cfg.Port, username, password, cfg.TLS),
		folder:   cfg.Folder,
		username: username,
	}
}

// Folder returns the folder jobs read from.
func (a *Adapter) Folder() string {
	return a.folder
}

// Open connects and authenticates. The caller owns the returned session.
func (a *Adapter) Open(ctx context.Context) (*Session, error) {
	return a.client.Connect(ctx)
}

// ValidateConnection verifies the credentials by logging in and searching
// the configured folder. It returns the number of unread messages.
func (a *Adapter) ValidateConnection(ctx context.Context) (int, error) {
	session, err := a.client.Connect(ctx)
	if err != nil {
		return 0, fmt.Errorf("validating mailbox connection: %w", err)
	}
	defer func() { _ = session.Logout() }()

	if err := session.Select(ctx, a.folder); err != nil {
		return 0, err
	}

	ids, err := session.SearchUnseen(ctx)
	if err != nil {
		return 0, err
	}

	return len(ids), nil
}

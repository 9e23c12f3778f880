package email

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"github.com/nhle/mailwatch/internal/source"
)

// headerFields are the only header lines fetched per message.
var headerFields = []string{"From", "Subject", "Date"}

// IMAPClient wraps go-imap v2 for connecting to an IMAP server.
type IMAPClient struct {
	host     string
	port     string
	username string
	password string
	tls      bool
}

// NewIMAPClient creates a new IMAP client configuration.
func NewIMAPClient(
	host, port, username, password string, tls bool,
) *IMAPClient {
	return &IMAPClient{
		host:     host,
		port:     port,
		username: username,
		password: password,
		tls:      tls,
	}
}

// Session is an authenticated IMAP connection. It is owned by a single
// caller for the duration of a run and must be released with Logout.
type Session struct {
	client   *imapclient.Client
	username string
	folder   string
}

// Connect establishes a connection to the IMAP server, authenticates,
// and returns the session. The caller is responsible for calling Logout
// on the returned session.
func (c *IMAPClient) Connect(
	_ context.Context,
) (*Session, error) {
	addr := c.host + ":" + c.port

	var client *imapclient.Client
	var err error

	if c.tls {
		client, err = imapclient.DialTLS(addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(addr, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(c.username, c.password).Wait(); err != nil {
		_ = client.Logout().Wait()
		_ = client.Close()
		return nil, &source.AuthError{
			Username: c.username,
			Message:  fmt.Sprintf("login rejected by %s: %v", addr, err),
		}
	}

	return &Session{client: client, username: c.username}, nil
}

// Select opens folder read-only so that nothing done by this session can
// change message flags.
func (s *Session) Select(_ context.Context, folder string) error {
	options := &imap.SelectOptions{ReadOnly: true}
	if _, err := s.client.Select(folder, options).Wait(); err != nil {
		return &source.SearchError{
			Folder: folder,
			Err:    fmt.Errorf("selecting folder: %w", err),
		}
	}
	s.folder = folder
	return nil
}

// SearchUnseen returns the UIDs of every message without the \Seen flag,
// in ascending order, rendered as decimal strings.
func (s *Session) SearchUnseen(_ context.Context) ([]string, error) {
	if s.folder == "" {
		return nil, &source.SearchError{
			Err: errors.New("no folder selected"),
		}
	}

	criteria := &imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
	}

	searchData, err := s.client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, &source.SearchError{Folder: s.folder, Err: err}
	}

	uids := searchData.AllUIDs()
	ids := make([]string, 0, len(uids))
	for _, uid := range uids {
		ids = append(ids, strconv.FormatUint(uint64(uid), 10))
	}
	return ids, nil
}

// FetchHeaders returns the raw From, Subject and Date header block of the
// message with the given UID. BODY.PEEK is used so the message stays unread.
func (s *Session) FetchHeaders(
	_ context.Context, id string,
) ([]byte, error) {
	uid, err := parseUID(id)
	if err != nil {
		return nil, &source.FetchError{ID: id, Err: err}
	}

	bodySection := &imap.FetchItemBodySection{
		Specifier:    imap.PartSpecifierHeader,
		HeaderFields: headerFields,
		Peek:         true,
	}

	fetchOpts := &imap.FetchOptions{
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	}

	fetchCmd := s.client.Fetch(imap.UIDSetNum(imap.UID(uid)), fetchOpts)
	defer fetchCmd.Close()

	msg := fetchCmd.Next()
	if msg == nil {
		return nil, &source.FetchError{
			ID:  id,
			Err: errors.New("message not found"),
		}
	}

	buf, err := msg.Collect()
	if err != nil {
		return nil, &source.FetchError{
			ID:  id,
			Err: fmt.Errorf("collecting message data: %w", err),
		}
	}

	raw := buf.FindBodySection(bodySection)
	if raw == nil {
		return nil, &source.FetchError{
			ID:  id,
			Err: errors.New("server returned no header section"),
		}
	}

	if err := fetchCmd.Close(); err != nil {
		return nil, &source.FetchError{
			ID:  id,
			Err: fmt.Errorf("closing fetch: %w", err),
		}
	}

	return raw, nil
}

// Logout ends the session and closes the connection.
func (s *Session) Logout() error {
	logoutErr := s.client.Logout().Wait()
	closeErr := s.client.Close()
	if logoutErr != nil {
		return fmt.Errorf("logging out %s: %w", s.username, logoutErr)
	}
	return closeErr
}

// parseUID converts a message identifier to a UID.
func parseUID(id string) (uint32, error) {
	uid, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid UID %q: %w", id, err)
	}
	if uid == 0 {
		return 0, fmt.Errorf("invalid UID %q: must be positive", id)
	}
	return uint32(uid), nil
}

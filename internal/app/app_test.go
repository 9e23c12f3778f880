package app

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/nhle/mailwatch/internal/credential"
	"github.com/nhle/mailwatch/internal/model"
	"github.com/nhle/mailwatch/internal/source"
	"github.com/nhle/mailwatch/internal/store"
	appsync "github.com/nhle/mailwatch/internal/sync"
	"github.com/nhle/mailwatch/tests/testutil"
)

type stubMailbox struct {
	subjects map[string]string
	order    []string
}

func (s *stubMailbox) Select(context.Context, string) error { return nil }

func (s *stubMailbox) SearchUnseen(context.Context) ([]string, error) {
	return s.order, nil
}

func (s *stubMailbox) FetchHeaders(_ context.Context, id string) ([]byte, error) {
	return []byte(fmt.Sprintf("From: alerts@github.com\r\nSubject: %s\r\n\r\n", s.subjects[id])), nil
}

func (s *stubMailbox) Logout() error { return nil }

func testApp(t *testing.T, env map[string]string) (*App, *bytes.Buffer, *model.AppConfig) {
	t.Helper()

	dir := t.TempDir()
	cfg := &model.AppConfig{
		CredentialsFile: filepath.Join(dir, "missing.env"),
		HistoryDB:       filepath.Join(dir, "db", "history.db"),
		IMAP:            model.IMAPConfig{Host: "imap.example.com", Port: "993", TLS: true, Folder: "INBOX"},
		Jobs: []model.JobConfig{{
			Name:            model.JobCheck,
			StatePath:       filepath.Join(dir, "state", "check.json"),
			UnreadWindow:    300,
			SeenBound:       100,
			DiffAgainstSeen: true,
			ReportCap:       15,
			LatestCap:       10,
			Rules:           model.RulesConfig{Senders: []string{"github.com"}},
		}},
	}

	var out bytes.Buffer
	a := New(cfg, testutil.DiscardLogger(), &out)
	a.resolver = &credential.Resolver{
		LookupEnv: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
	}
	a.connect = func(credential.Credentials) appsync.ConnectFunc {
		return func(context.Context) (appsync.Mailbox, error) {
			return &stubMailbox{
				order:    []string{"1", "2"},
				subjects: map[string]string{"1": "Build failed", "2": "PR merged"},
			}, nil
		}
	}
	return a, &out, cfg
}

var validEnv = map[string]string{
	credential.EnvUser:        "me@gmail.com",
	credential.EnvAppPassword: "abcd-efgh",
}

func TestRunJobUnknownJob(t *testing.T) {
	a, _, _ := testApp(t, validEnv)

	_, err := a.RunJob(context.Background(), "nope")
	if !source.IsConfigError(err) {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestRunJobMissingCredentials(t *testing.T) {
	a, out, cfg := testApp(t, nil)

	_, err := a.RunJob(context.Background(), model.JobCheck)
	if !source.IsConfigError(err) {
		t.Fatalf("expected config error, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("nothing should be printed, got %q", out.String())
	}
	if _, err := os.Stat(cfg.Jobs[0].StatePath); !os.IsNotExist(err) {
		t.Fatalf("state file must not exist, stat err = %v", err)
	}
}

func TestRunJobWritesStateAndHistory(t *testing.T) {
	a, out, cfg := testApp(t, validEnv)
	ctx := context.Background()

	report, err := a.RunJob(ctx, model.JobCheck)
	if err != nil {
		t.Fatalf("RunJob: %v", err)
	}
	if report.ImportantNewCount != 2 {
		t.Fatalf("important = %d, want 2", report.ImportantNewCount)
	}
	if out.Len() == 0 {
		t.Fatalf("expected the report on stdout")
	}

	saved := store.NewFileStore(cfg.Jobs[0].StatePath, testutil.DiscardLogger()).Load()
	if len(saved.SeenIDs) != 2 {
		t.Fatalf("saved seen ids = %v", saved.SeenIDs)
	}

	alerts, err := a.Alerts(ctx, store.AlertFilter{})
	if err != nil {
		t.Fatalf("Alerts: %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("alerts = %+v", alerts)
	}

	second, err := a.RunJob(ctx, model.JobCheck)
	if err != nil {
		t.Fatalf("second RunJob: %v", err)
	}
	if second.NewUnreadCount != 0 {
		t.Fatalf("second run new = %d", second.NewUnreadCount)
	}
}

func TestAlertsDisabled(t *testing.T) {
	a, _, cfg := testApp(t, validEnv)
	cfg.HistoryDB = ""

	_, err := a.Alerts(context.Background(), store.AlertFilter{})
	if !source.IsConfigError(err) {
		t.Fatalf("expected config error, got %v", err)
	}
}

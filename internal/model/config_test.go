package model

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := LoadConfig(filepath.Join(home, "nope", "config.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.IMAP.Host != "imap.gmail.com" || cfg.IMAP.Port != "993" || !cfg.IMAP.TLS || cfg.IMAP.Folder != "INBOX" {
		t.Fatalf("imap = %+v", cfg.IMAP)
	}
	if got := cfg.JobNames(); len(got) != 2 || got[0] != JobCheck || got[1] != JobING {
		t.Fatalf("jobs = %v", got)
	}

	check, _ := cfg.Job(JobCheck)
	if !check.DiffAgainstSeen || check.SeenBound != 5000 || check.UnreadWindow != 300 ||
		check.ReportCap != 15 || check.LatestCap != 10 {
		t.Fatalf("check job = %+v", check)
	}
	if check.StatePath != filepath.Join(home, ".local", "state", "mailwatch", "gmail-state.json") {
		t.Fatalf("check state path = %q", check.StatePath)
	}

	ing, _ := cfg.Job(JobING)
	if ing.DiffAgainstSeen || ing.ReportCap != 30 || ing.LatestCap != 0 {
		t.Fatalf("ing job = %+v", ing)
	}
	if cfg.CredentialsFile != filepath.Join(home, ".config", "mailwatch", ".env") {
		t.Fatalf("credentials file = %q", cfg.CredentialsFile)
	}
}

func TestLoadConfigJobs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
history_db: ~/mailwatch/history.db
imap:
  folder: "[Gmail]/All Mail"
jobs:
  - name: work
    unread_window: 50
    rules:
      senders: [jira.example.com]
  - name: bank
    diff_against_seen: false
    state_path: ~/bank.json
    report_cap: 5
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.IMAP.Folder != "[Gmail]/All Mail" || cfg.IMAP.Host != "imap.gmail.com" {
		t.Fatalf("imap = %+v", cfg.IMAP)
	}
	if cfg.HistoryDB != filepath.Join(home, "mailwatch", "history.db") {
		t.Fatalf("history db = %q", cfg.HistoryDB)
	}
	if got := cfg.JobNames(); len(got) != 2 || got[0] != "work" || got[1] != "bank" {
		t.Fatalf("jobs = %v", got)
	}

	work, _ := cfg.Job("work")
	if !work.DiffAgainstSeen {
		t.Fatalf("diff_against_seen should default to true")
	}
	if work.UnreadWindow != 50 || work.SeenBound != 5000 || work.ReportCap != 15 {
		t.Fatalf("work job = %+v", work)
	}
	if work.StatePath != filepath.Join(home, ".local", "state", "mailwatch", "work.json") {
		t.Fatalf("work state path = %q", work.StatePath)
	}
	if len(work.Rules.Senders) != 1 || work.Rules.Senders[0] != "jira.example.com" {
		t.Fatalf("work rules = %+v", work.Rules)
	}

	bank, _ := cfg.Job("bank")
	if bank.DiffAgainstSeen {
		t.Fatalf("explicit diff_against_seen: false must be kept")
	}
	if bank.StatePath != filepath.Join(home, "bank.json") || bank.ReportCap != 5 {
		t.Fatalf("bank job = %+v", bank)
	}

	if _, ok := cfg.Job("check"); ok {
		t.Fatalf("configured jobs replace the built-in ones")
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MAILWATCH_IMAP_HOST", "imap.example.com")
	t.Setenv("MAILWATCH_IMAP_PORT", "1993")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.IMAP.Host != "imap.example.com" || cfg.IMAP.Port != "1993" {
		t.Fatalf("imap = %+v", cfg.IMAP)
	}
}

func TestLoadConfigRejectsUnnamedJob(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConfig(t, "jobs:\n  - unread_window: 10\n")

	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for a job without a name")
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConfig(t, "imap: [unterminated\n")

	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := LoadConfig(filepath.Join(home, "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	path := filepath.Join(home, "out", "config.yaml")
	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("reloading: %v", err)
	}

	ing, ok := loaded.Job(JobING)
	if !ok || ing.DiffAgainstSeen {
		t.Fatalf("ing job after round trip = %+v", ing)
	}
	check, ok := loaded.Job(JobCheck)
	if !ok || !check.DiffAgainstSeen || check.LatestCap != 10 {
		t.Fatalf("check job after round trip = %+v", check)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got := ExpandHome("~/x/y"); got != filepath.Join(home, "x", "y") {
		t.Fatalf("ExpandHome = %q", got)
	}
	if got := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Fatalf("ExpandHome = %q", got)
	}
	if got := ExpandHome(""); got != "" {
		t.Fatalf("ExpandHome = %q", got)
	}
}

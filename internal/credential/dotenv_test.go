package credential

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nhle/mailwatch/internal/source"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func envFrom(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestLoadFileParsesKeyValues(t *testing.T) {
	path := writeFile(t, "# mailbox\n\nGMAIL_USER=me@gmail.com\nGMAIL_APP_PASSWORD=abcd-efgh\n")

	values, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if values[EnvUser] != "me@gmail.com" {
		t.Fatalf("user = %q", values[EnvUser])
	}
	if values[EnvAppPassword] != "abcd-efgh" {
		t.Fatalf("password = %q", values[EnvAppPassword])
	}
	if len(values) != 2 {
		t.Fatalf("unexpected keys: %v", values)
	}
}

func TestLoadFileMissingIsNoop(t *testing.T) {
	values, err := LoadFile(filepath.Join(t.TempDir(), "absent.env"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(values) != 0 {
		t.Fatalf("expected empty map, got %v", values)
	}
}

func TestLoadFileDoesNotTouchEnvironment(t *testing.T) {
	t.Setenv("MAILWATCH_TEST_ONLY", "")
	os.Unsetenv("MAILWATCH_TEST_ONLY")

	path := writeFile(t, "MAILWATCH_TEST_ONLY=1\n")
	if _, err := LoadFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := os.LookupEnv("MAILWATCH_TEST_ONLY"); ok {
		t.Fatalf("LoadFile must not modify the process environment")
	}
}

func TestResolveEnvironmentWins(t *testing.T) {
	r := &Resolver{
		LookupEnv: envFrom(map[string]string{EnvUser: "env@gmail.com"}),
	}
	creds, err := r.Resolve(map[string]string{
		EnvUser:        "file@gmail.com",
		EnvAppPassword: "file-secret",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creds.Username != "env@gmail.com" {
		t.Fatalf("username = %q, want the environment value", creds.Username)
	}
	if creds.Password != "file-secret" {
		t.Fatalf("password = %q, want the file value", creds.Password)
	}
}

func TestResolveFallsBackToKeyring(t *testing.T) {
	var asked []string
	r := &Resolver{
		LookupEnv: envFrom(nil),
		Keyring: func(key string) (string, error) {
			asked = append(asked, key)
			if key == KeyAppPassword {
				return "ring-secret", nil
			}
			return "", errors.New("not found")
		},
	}
	creds, err := r.Resolve(map[string]string{EnvUser: "file@gmail.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creds.Password != "ring-secret" {
		t.Fatalf("password = %q", creds.Password)
	}
	if len(asked) != 1 || asked[0] != KeyAppPassword {
		t.Fatalf("keyring consulted for %v", asked)
	}
}

func TestResolveMissingIsConfigError(t *testing.T) {
	r := &Resolver{LookupEnv: envFrom(map[string]string{EnvAppPassword: "   "})}

	_, err := r.Resolve(map[string]string{EnvUser: "me@gmail.com"})
	if !source.IsConfigError(err) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	var cfgErr *source.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Key != EnvAppPassword {
		t.Fatalf("expected missing %s, got %v", EnvAppPassword, err)
	}
}

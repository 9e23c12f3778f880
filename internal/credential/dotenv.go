package credential

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/nhle/mailwatch/internal/source"
)

// Environment keys holding the mailbox credentials.
const (
	EnvUser        = "GMAIL_USER"
	EnvAppPassword = "GMAIL_APP_PASSWORD"
)

// Credentials are the mailbox login details.
type Credentials struct {
	Username string
	Password string
}

// LoadFile parses a KEY=VALUE credentials file. Blank lines and lines
// starting with # are skipped. A missing file yields an empty map; the
// process environment is never modified.
func LoadFile(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}

	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading credentials file %s: %w", path, err)
	}

	return values, nil
}

// Resolver merges credential sources. Values already present in the
// environment win over the file; the keyring is consulted last.
type Resolver struct {
	// LookupEnv reads the ambient environment. Defaults to os.LookupEnv.
	LookupEnv func(key string) (string, bool)

	// Keyring reads a secret by key. Nil disables the keyring fallback.
	Keyring func(key string) (string, error)
}

// NewResolver returns a resolver backed by the process environment and
// the system keyring.
func NewResolver() *Resolver {
	return &Resolver{
		LookupEnv: os.LookupEnv,
		Keyring:   Get,
	}
}

// Resolve returns the username and app password, or a *source.ConfigError
// naming the first missing key.
func (r *Resolver) Resolve(fileValues map[string]string) (Credentials, error) {
	creds := Credentials{
		Username: r.lookup(fileValues, EnvUser, KeyUsername),
		Password: r.lookup(fileValues, EnvAppPassword, KeyAppPassword),
	}

	if creds.Username == "" {
		return Credentials{}, &source.ConfigError{
			Key:     EnvUser,
			Message: "not set in the environment, credentials file or keyring",
		}
	}
	if creds.Password == "" {
		return Credentials{}, &source.ConfigError{
			Key:     EnvAppPassword,
			Message: "not set in the environment, credentials file or keyring",
		}
	}

	return creds, nil
}

// lookup resolves one value: environment, then file, then keyring.
func (r *Resolver) lookup(
	fileValues map[string]string, envKey, keyringKey string,
) string {
	lookupEnv := r.LookupEnv
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}

	if v, ok := lookupEnv(envKey); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	if v := strings.TrimSpace(fileValues[envKey]); v != "" {
		return v
	}
	if r.Keyring == nil {
		return ""
	}
	v, err := r.Keyring(keyringKey)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(v)
}

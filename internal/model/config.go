package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Built-in job names.
const (
	JobCheck = "check"
	JobING   = "ing"
)

// IMAPConfig holds the mailbox server settings.
type IMAPConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`

	// TLS selects implicit TLS; false uses STARTTLS.
	TLS bool `mapstructure:"tls" yaml:"tls"`

	// Folder is the mailbox selected before searching.
	Folder string `mapstructure:"folder" yaml:"folder"`
}

// RulesConfig lists the case-insensitive substrings that make a message
// important. A match in either list is enough.
type RulesConfig struct {
	Senders  []string `mapstructure:"senders" yaml:"senders"`
	Subjects []string `mapstructure:"subjects" yaml:"subjects"`
}

// JobConfig parameterizes one classification job.
type JobConfig struct {
	// Name selects the job on the command line.
	Name string `mapstructure:"name" yaml:"name"`

	// StatePath is where the JSON report is written and reloaded from.
	StatePath string `mapstructure:"state_path" yaml:"state_path"`

	// UnreadWindow caps how many of the most recent unread messages are
	// fetched per run.
	UnreadWindow int `mapstructure:"unread_window" yaml:"unread_window"`

	// SeenBound caps the persisted seen history.
	SeenBound int `mapstructure:"seen_bound" yaml:"seen_bound"`

	// DiffAgainstSeen enables novelty detection against the previous run.
	// When false every message in the window is reported on every run.
	DiffAgainstSeen bool `mapstructure:"diff_against_seen" yaml:"diff_against_seen"`

	// ReportCap caps the important list in the report.
	ReportCap int `mapstructure:"report_cap" yaml:"report_cap"`

	// LatestCap caps the latest-activity list in the report.
	LatestCap int `mapstructure:"latest_cap" yaml:"latest_cap"`

	Rules RulesConfig `mapstructure:"rules" yaml:"rules"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	// CredentialsFile is a KEY=VALUE file holding GMAIL_USER and
	// GMAIL_APP_PASSWORD. It is optional.
	CredentialsFile string `mapstructure:"credentials_file" yaml:"credentials_file"`

	// HistoryDB is the SQLite alert history path. Empty disables history.
	HistoryDB string `mapstructure:"history_db" yaml:"history_db"`

	IMAP IMAPConfig  `mapstructure:"imap" yaml:"imap"`
	Jobs []JobConfig `mapstructure:"jobs" yaml:"jobs"`
}

// Job returns the job configuration with the given name.
func (c *AppConfig) Job(name string) (JobConfig, bool) {
	for _, j := range c.Jobs {
		if j.Name == name {
			return j, true
		}
	}
	return JobConfig{}, false
}

// JobNames lists configured job names in declaration order.
func (c *AppConfig) JobNames() []string {
	names := make([]string, 0, len(c.Jobs))
	for _, j := range c.Jobs {
		names = append(names, j.Name)
	}
	return names
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/mailwatch/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "mailwatch")
}

func stateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "state")
	}
	return filepath.Join(home, ".local", "state", "mailwatch")
}

// DefaultRules flags account security notices, code hosting activity and
// payment mail.
func DefaultRules() RulesConfig {
	return RulesConfig{
		Senders: []string{
			"accounts.google.com",
			"github.com",
			"paypal",
			"revolut",
			"allegro",
			"ing.pl",
		},
		Subjects: []string{
			"security alert",
			"alert",
			"password",
			"verification",
			"invoice",
			"faktura",
			"payment",
			"płatno",
			"pilne",
			"urgent",
		},
	}
}

// INGRules matches ING Bank Śląski transaction notices.
func INGRules() RulesConfig {
	return RulesConfig{
		Senders: []string{
			"ing.pl",
			"ingbank",
			"ingbsk",
		},
		Subjects: []string{
			"ing",
			"transakc",
			"płatno",
			"platno",
			"przelew",
			"karta",
			"blik",
			"saldo",
			"rachunek",
		},
	}
}

// defaultJobs returns the built-in general checker and ING filter.
func defaultJobs() []JobConfig {
	return []JobConfig{
		{
			Name:            JobCheck,
			StatePath:       filepath.Join(stateDir(), "gmail-state.json"),
			UnreadWindow:    300,
			SeenBound:       5000,
			DiffAgainstSeen: true,
			ReportCap:       15,
			LatestCap:       10,
			Rules:           DefaultRules(),
		},
		{
			Name:            JobING,
			StatePath:       filepath.Join(stateDir(), "gmail-ing-alerts.json"),
			UnreadWindow:    300,
			SeenBound:       0,
			DiffAgainstSeen: false,
			ReportCap:       30,
			LatestCap:       0,
			Rules:           INGRules(),
		},
	}
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		CredentialsFile: filepath.Join(configDir(), ".env"),
		IMAP: IMAPConfig{
			Host:   "imap.gmail.com",
			Port:   "993",
			TLS:    true,
			Folder: "INBOX",
		},
		Jobs: defaultJobs(),
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration. Scalar
// keys can be overridden with MAILWATCH_* environment variables, e.g.
// MAILWATCH_IMAP_HOST.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("mailwatch")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := defaultAppConfig()

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("credentials_file", defaults.CredentialsFile)
	v.SetDefault("history_db", "")
	v.SetDefault("imap.host", defaults.IMAP.Host)
	v.SetDefault("imap.port", defaults.IMAP.Port)
	v.SetDefault("imap.tls", defaults.IMAP.TLS)
	v.SetDefault("imap.folder", defaults.IMAP.Folder)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *os.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	// Jobs are decoded into an empty slice; mapstructure would otherwise
	// merge configured jobs into the built-in ones field by field.
	cfg := defaultAppConfig()
	cfg.Jobs = nil
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	fromFile := len(cfg.Jobs) > 0
	if !fromFile {
		cfg.Jobs = defaultJobs()
	}

	// Apply defaults for each job entry.
	for i := range cfg.Jobs {
		job := &cfg.Jobs[i]
		if job.Name == "" {
			return nil, fmt.Errorf("parsing config %s: job %d has no name", path, i)
		}
		if job.StatePath == "" {
			job.StatePath = filepath.Join(stateDir(), job.Name+".json")
		}
		if job.UnreadWindow <= 0 {
			job.UnreadWindow = 300
		}
		if job.ReportCap <= 0 {
			job.ReportCap = 15
		}
		if fromFile && !job.DiffAgainstSeen {
			// Viper unmarshals missing bools as false; treat unset as true.
			if !isSetInJob(v, i, "diff_against_seen") {
				job.DiffAgainstSeen = true
			}
		}
		if job.DiffAgainstSeen && job.SeenBound <= 0 {
			job.SeenBound = 5000
		}
		job.StatePath = ExpandHome(job.StatePath)
	}

	cfg.CredentialsFile = ExpandHome(cfg.CredentialsFile)
	cfg.HistoryDB = ExpandHome(cfg.HistoryDB)

	return cfg, nil
}

// isSetInJob reports whether the raw config entry for job i carries key.
// Viper does not index into lists, so the raw map is inspected directly.
func isSetInJob(v *viper.Viper, i int, key string) bool {
	raw, ok := v.Get("jobs").([]interface{})
	if !ok || i >= len(raw) {
		return false
	}
	entry, ok := raw[i].(map[string]interface{})
	if !ok {
		return false
	}
	_, set := entry[key]
	return set
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("credentials_file", cfg.CredentialsFile)
	v.Set("history_db", cfg.HistoryDB)
	v.Set("imap", cfg.IMAP)
	v.Set("jobs", cfg.Jobs)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

// ExpandHome replaces a leading ~/ with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

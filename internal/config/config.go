package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr      string `yaml:"addr"`       // API bind address, e.g. "127.0.0.1:8080" or ":8080" (Docker)
	LogDir    string `yaml:"log_dir"`    // logs directory
	LogLevel  string `yaml:"log_level"`  // debug|info|warn|error
	StaticDir string `yaml:"static_dir"` // dashboard assets; empty disables static serving

	NagiosURL     string        `yaml:"nagios_url"` // statusjson.cgi endpoint
	NagiosUser    string        `yaml:"nagios_user"`
	NagiosPass    string        `yaml:"-"` // env only
	NagiosTimeout time.Duration `yaml:"nagios_timeout"`
	RetryAttempts int           `yaml:"retry_attempts"` // attempts per host lookup
	RetryBackoff  time.Duration `yaml:"retry_backoff"`
	MaxConcurrent int           `yaml:"max_concurrent_checks"`

	SitesFile string        `yaml:"sites_file"` // YAML site directory
	CacheTTL  time.Duration `yaml:"cache_ttl"`  // how long an assembled snapshot is reused

	PollInterval    time.Duration `yaml:"poll_interval"`
	StatusURL       string        `yaml:"status_url"` // used by the CLI watcher
	AlertOnRecovery bool          `yaml:"alert_on_recovery"`
	PruneStaleHosts bool          `yaml:"prune_stale_hosts"`

	SlackWebhook     string `yaml:"-"`
	TelegramBotToken string `yaml:"-"`
	TelegramChatID   string `yaml:"telegram_chat_id"`

	PublicRPM   int `yaml:"public_rpm"`
	PublicBurst int `yaml:"public_burst"`
}

// Defaults: a 10s poll and a 10s snapshot cache.
func Defaults() Config {
	return Config{
		Addr:            "127.0.0.1:8080",
		LogDir:          "logs",
		LogLevel:        "info",
		NagiosTimeout:   8 * time.Second,
		RetryAttempts:   2,
		RetryBackoff:    300 * time.Millisecond,
		MaxConcurrent:   8,
		SitesFile:       "sites.yaml",
		CacheTTL:        10 * time.Second,
		PollInterval:    10 * time.Second,
		StatusURL:       "http://127.0.0.1:8080/api/status",
		PruneStaleHosts: true,
		PublicRPM:       600,
		PublicBurst:     60,
	}
}

// FromEnv builds the config from defaults, then CONFIG_FILE (if set), then
// environment variables. A broken config file is reported, env still applies.
func FromEnv() (Config, error) {
	cfg := Defaults()
	var err error
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		err = cfg.LoadFile(path)
	}
	cfg.applyEnv()
	return cfg, err
}

// LoadFile overlays YAML settings onto cfg. Keys missing from the file keep
// their current value.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Addr = getenv("API_ADDR", c.Addr)
	c.LogDir = getenv("LOG_DIR", c.LogDir)
	c.LogLevel = getenv("LOG_LEVEL", c.LogLevel)
	c.StaticDir = getenv("STATIC_DIR", c.StaticDir)

	c.NagiosURL = getenv("NAGIOS_URL", c.NagiosURL)
	c.NagiosUser = getenv("NAGIOS_USER", c.NagiosUser)
	c.NagiosPass = getenv("NAGIOS_PASS", c.NagiosPass)
	c.NagiosTimeout = getenvMillis("NAGIOS_TIMEOUT_MS", c.NagiosTimeout)
	if n := getenvInt("RETRY_ATTEMPTS", 0); n > 0 {
		c.RetryAttempts = n
	}
	c.RetryBackoff = getenvMillis("RETRY_BACKOFF_MS", c.RetryBackoff)
	if n := getenvInt("MAX_CONCURRENT_CHECKS", 0); n > 0 {
		c.MaxConcurrent = n
	}

	c.SitesFile = getenv("SITES_FILE", c.SitesFile)
	c.CacheTTL = getenvMillis("CACHE_TTL_MS", c.CacheTTL)

	c.PollInterval = getenvMillis("POLL_INTERVAL_MS", c.PollInterval)
	c.StatusURL = getenv("STATUS_URL", c.StatusURL)
	c.AlertOnRecovery = getenvBool("ALERT_ON_RECOVERY", c.AlertOnRecovery)
	c.PruneStaleHosts = getenvBool("PRUNE_STALE_HOSTS", c.PruneStaleHosts)

	c.SlackWebhook = getenv("SLACK_WEBHOOK", c.SlackWebhook)
	c.TelegramBotToken = getenv("TELEGRAM_BOT_TOKEN", c.TelegramBotToken)
	c.TelegramChatID = getenv("TELEGRAM_CHAT_ID", c.TelegramChatID)

	c.PublicRPM = getenvInt("PUBLIC_RPM", c.PublicRPM)
	c.PublicBurst = getenvInt("PUBLIC_BURST", c.PublicBurst)
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var err error
	if c.Addr == "" {
		err = multierr.Append(err, errors.New("API_ADDR is empty"))
	}
	if c.NagiosURL != "" {
		if u, perr := url.Parse(c.NagiosURL); perr != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			err = multierr.Append(err, fmt.Errorf("NAGIOS_URL %q is not an http(s) URL", c.NagiosURL))
		}
	}
	if c.PollInterval <= 0 {
		err = multierr.Append(err, errors.New("POLL_INTERVAL_MS must be > 0"))
	}
	if c.CacheTTL < 0 {
		err = multierr.Append(err, errors.New("CACHE_TTL_MS must be >= 0"))
	}
	if c.MaxConcurrent < 1 {
		err = multierr.Append(err, errors.New("MAX_CONCURRENT_CHECKS must be >= 1"))
	}
	if (c.TelegramBotToken == "") != (c.TelegramChatID == "") {
		err = multierr.Append(err, errors.New("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must be set together"))
	}
	return err
}

func getenv(k, d string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getenvMillis(k string, d time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return d
}

func getenvBool(k string, d bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(k))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

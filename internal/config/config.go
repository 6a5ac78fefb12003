// Package config resolves runtime settings from, in order of precedence,
// command-line flags, environment variables, a duck.toml file, and compiled
// defaults.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/duckhq/duck/internal/usecase"
)

// FileName is the config file looked up in the working directory.
const FileName = "duck.toml"

// Config is the fully resolved runtime configuration.
type Config struct {
	Username      string
	Token         string
	MaxEventPages int
	MaxPRPages    int
	SMTP          SMTP
}

// SMTP holds the delivery settings for the reminder email. The mailer
// negotiates STARTTLS automatically when the server offers it; UseSSL forces
// implicit TLS instead.
type SMTP struct {
	Host      string
	Port      int
	Username  string
	Password  string
	UseSSL    bool
	Sender    string
	Recipient string
	Subject   string
}

// Flags carries values supplied on the command line. Zero values mean the
// flag was not set.
type Flags struct {
	Username      string
	Token         string
	MaxEventPages int
	MaxPRPages    int
}

// fileConfig mirrors the duck.toml layout.
type fileConfig struct {
	GitHub struct {
		Username      string `toml:"username"`
		Token         string `toml:"token"`
		MaxEventPages int    `toml:"max_event_pages"`
		MaxPRPages    int    `toml:"max_pr_pages"`
	} `toml:"github"`
	SMTP struct {
		Host      string `toml:"host"`
		Port      int    `toml:"port"`
		Username  string `toml:"username"`
		Password  string `toml:"password"`
		UseSSL    bool   `toml:"use_ssl"`
		Sender    string `toml:"sender"`
		Recipient string `toml:"recipient"`
		Subject   string `toml:"subject"`
	} `toml:"smtp"`
}

// Load resolves the configuration. path points at the optional duck.toml; a
// missing or unreadable file is logged and skipped, never fatal.
func Load(path string, flags Flags, logger *log.Logger) Config {
	var file fileConfig
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &file); err != nil {
			logger.Printf("warning: could not parse %s: %v", path, err)
			file = fileConfig{}
		} else {
			logger.Printf("Loaded configuration from %s", path)
		}
	} else {
		logger.Printf("Configuration file %s not found. Using defaults and environment variables.", path)
	}

	cfg := Config{
		Username:      firstNonEmpty(flags.Username, os.Getenv("GITHUB_USERNAME"), file.GitHub.Username),
		Token:         firstNonEmpty(flags.Token, os.Getenv("GITHUB_TOKEN"), file.GitHub.Token),
		MaxEventPages: firstPositive(flags.MaxEventPages, envInt("DUCK_MAX_EVENT_PAGES", logger), file.GitHub.MaxEventPages, usecase.DefaultMaxEventPages),
		MaxPRPages:    firstPositive(flags.MaxPRPages, envInt("DUCK_MAX_PR_PAGES", logger), file.GitHub.MaxPRPages, usecase.DefaultMaxPRPages),
	}

	cfg.SMTP = SMTP{
		Host:      firstNonEmpty(os.Getenv("DUCK_SMTP_HOST"), file.SMTP.Host, "smtp.gmail.com"),
		Port:      firstPositive(envInt("DUCK_SMTP_PORT", logger), file.SMTP.Port, 587),
		Username:  firstNonEmpty(os.Getenv("DUCK_SMTP_USER"), file.SMTP.Username),
		Password:  firstNonEmpty(os.Getenv("DUCK_SMTP_PASSWORD"), file.SMTP.Password),
		UseSSL:    os.Getenv("DUCK_SMTP_USE_SSL") == "true" || file.SMTP.UseSSL,
		Sender:    firstNonEmpty(os.Getenv("DUCK_SMTP_SENDER"), file.SMTP.Sender),
		Recipient: firstNonEmpty(os.Getenv("DUCK_SMTP_RECIPIENT"), file.SMTP.Recipient),
		Subject:   firstNonEmpty(os.Getenv("DUCK_SMTP_SUBJECT"), file.SMTP.Subject, "DUCK: No GitHub Activity Today!"),
	}
	return cfg
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func envInt(name string, logger *log.Logger) int {
	raw := os.Getenv(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		logger.Printf("warning: ignoring %s=%q: not an integer", name, raw)
		return 0
	}
	return n
}

// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is the optional dotenv file read from the working directory.
const DefaultEnvFile = ".env"

// Config holds the application configuration loaded from environment variables.
type Config struct {
	GitHubToken string `env:"PRTRACK_GITHUB_TOKEN"`
	Repo        string `env:"PRTRACK_REPO"`
	PR          int    `env:"PRTRACK_PR"`
	DBPath      string `env:"PRTRACK_DB_PATH" envDefault:".prtrack/comments.db"`
	LogLevel    string `env:"PRTRACK_LOG_LEVEL" envDefault:"warn"`
	WorkTree    string `env:"PRTRACK_WORKTREE" envDefault:"."`
}

// tokenFallbacks are consulted in order when PRTRACK_GITHUB_TOKEN is unset,
// so a token exported for the gh CLI works as-is.
var tokenFallbacks = []string{"GH_TOKEN", "GITHUB_TOKEN"}

// Load reads an optional dotenv file, then parses PRTRACK_* variables.
// Variables already present in the process environment win over the file.
// A missing envFile is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.GitHubToken == "" {
		for _, key := range tokenFallbacks {
			if v := strings.TrimSpace(os.Getenv(key)); v != "" {
				cfg.GitHubToken = v
				break
			}
		}
	}

	return &cfg, nil
}

// Validate checks the settings that commands talking to GitHub need.
// Local-only commands skip it.
func (c *Config) Validate() error {
	var errs []error

	if c.GitHubToken == "" {
		errs = append(errs, errors.New("no GitHub token: set PRTRACK_GITHUB_TOKEN, GH_TOKEN or GITHUB_TOKEN"))
	}

	owner, name, ok := strings.Cut(c.Repo, "/")
	if c.Repo == "" {
		errs = append(errs, errors.New("no repository: set PRTRACK_REPO or pass --repo owner/name"))
	} else if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		errs = append(errs, fmt.Errorf("repository %q is not in owner/name form", c.Repo))
	}

	return errors.Join(errs...)
}

// RequirePR reports a missing pull request number.
func (c *Config) RequirePR() error {
	if c.PR <= 0 {
		return errors.New("no pull request: set PRTRACK_PR or pass --pr")
	}
	return nil
}

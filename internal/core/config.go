package core

import (
	"fmt"
	"os"
)

// Store backend names accepted in Config.StoreBackend.
const (
	BackendFS     = "fs"
	BackendGitHub = "github"
)

// Config holds the application configuration. It is loaded once at
// startup and handed to constructors explicitly so tests can build
// their own instead of reaching into the environment.
type Config struct {
	ListenAddr string // Address for the HTTP server
	LogLevel   string // debug, info, warn, error

	StoreBackend   string // "fs" or "github"
	SubmissionsDir string // Directory inside the store holding one file per record

	DataDir string // Base directory for the fs backend

	GitHubToken  string // Token for the github backend
	GitHubOwner  string
	GitHubRepo   string
	GitHubBranch string // Empty means the repository default branch
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	logLevel := getEnvOrDefault("LOG_LEVEL", "info")

	// DEBUG flag overrides log level
	if os.Getenv("DEBUG") == "1" {
		logLevel = "debug"
	}

	cfg := &Config{
		ListenAddr:     getEnvOrDefault("LISTEN_ADDR", ":8080"),
		LogLevel:       logLevel,
		StoreBackend:   getEnvOrDefault("STORE_BACKEND", BackendFS),
		SubmissionsDir: getEnvOrDefault("SUBMISSIONS_DIR", "submissions"),
		DataDir:        getEnvOrDefault("DATA_DIR", "data"),
		GitHubToken:    os.Getenv("GITHUB_TOKEN"),
		GitHubOwner:    os.Getenv("GITHUB_REPO_OWNER"),
		GitHubRepo:     os.Getenv("GITHUB_REPO_NAME"),
		GitHubBranch:   os.Getenv("GITHUB_REPO_BRANCH"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendFS:
		if c.DataDir == "" {
			return fmt.Errorf("DATA_DIR required for fs backend")
		}
	case BackendGitHub:
		if c.GitHubToken == "" {
			return fmt.Errorf("GITHUB_TOKEN required for github backend")
		}
		if c.GitHubOwner == "" || c.GitHubRepo == "" {
			return fmt.Errorf("GITHUB_REPO_OWNER and GITHUB_REPO_NAME required for github backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
	if c.SubmissionsDir == "" {
		return fmt.Errorf("submissions directory must not be empty")
	}
	return nil
}

// getEnvOrDefault returns the value of an environment variable or a default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

package core

import (
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"LOG_LEVEL", "DEBUG", "LISTEN_ADDR", "STORE_BACKEND",
		"SUBMISSIONS_DIR", "DATA_DIR", "GITHUB_TOKEN",
		"GITHUB_REPO_OWNER", "GITHUB_REPO_NAME", "GITHUB_REPO_BRANCH",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.StoreBackend != BackendFS {
		t.Errorf("StoreBackend = %q, want fs", cfg.StoreBackend)
	}
	if cfg.SubmissionsDir != "submissions" {
		t.Errorf("SubmissionsDir = %q", cfg.SubmissionsDir)
	}
}

func TestLoadConfigDebugOverride(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("DEBUG", "1")
	t.Setenv("STORE_BACKEND", "fs")
	t.Setenv("DATA_DIR", "data")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("DEBUG=1 should force debug log level, got %q", cfg.LogLevel)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "fs backend ok",
			cfg:  Config{StoreBackend: BackendFS, DataDir: "data", SubmissionsDir: "submissions"},
		},
		{
			name:    "fs backend without data dir",
			cfg:     Config{StoreBackend: BackendFS, SubmissionsDir: "submissions"},
			wantErr: true,
		},
		{
			name: "github backend ok",
			cfg: Config{
				StoreBackend: BackendGitHub, SubmissionsDir: "submissions",
				GitHubToken: "tok", GitHubOwner: "org", GitHubRepo: "repo",
			},
		},
		{
			name: "github backend missing token",
			cfg: Config{
				StoreBackend: BackendGitHub, SubmissionsDir: "submissions",
				GitHubOwner: "org", GitHubRepo: "repo",
			},
			wantErr: true,
		},
		{
			name: "github backend missing repo",
			cfg: Config{
				StoreBackend: BackendGitHub, SubmissionsDir: "submissions",
				GitHubToken: "tok",
			},
			wantErr: true,
		},
		{
			name:    "unknown backend",
			cfg:     Config{StoreBackend: "s3", SubmissionsDir: "submissions"},
			wantErr: true,
		},
		{
			name:    "empty submissions dir",
			cfg:     Config{StoreBackend: BackendFS, DataDir: "data"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

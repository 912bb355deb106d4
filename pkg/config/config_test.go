package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	perrors "github.com/matzehuels/photowall/pkg/errors"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(LoadOptions{
		ConfigPath: filepath.Join(dir, "missing.toml"),
		SkipDotEnv: true,
		LookupEnv:  noEnv,
	})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.PerPage != 10 || cfg.ProbeConcurrency != 4 || cfg.Layout.ColumnCount != 3 {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Server.SessionTTL != DefaultSessionTTL {
		t.Errorf("SessionTTL = %v", cfg.Server.SessionTTL)
	}
	if cfg.KeySource() != SourceNone {
		t.Errorf("KeySource() = %q", cfg.KeySource())
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "config.toml", `
access_key = "from-file-key"
per_page = 20
dedupe = true

[layout]
column_count = 4

[server]
session_ttl = "5m"
`)
	dotenv := writeFile(t, dir, ".env", "UNSPLASH_ACCESS_KEY=from-dotenv-key\nPHOTOWALL_QUERY=cats\n")

	tests := []struct {
		name       string
		dotenv     bool
		env        map[string]string
		flag       string
		wantKey    string
		wantSource string
	}{
		{"file only", false, nil, "", "from-file-key", SourceFile},
		{".env over file", true, nil, "", "from-dotenv-key", SourceEnvFile},
		{"env over .env", true, map[string]string{EnvAccessKey: "from-env-key"}, "", "from-env-key", SourceEnv},
		{"flag over env", true, map[string]string{EnvAccessKey: "from-env-key"}, "from-flag-key", "from-flag-key", SourceFlag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(LoadOptions{
				ConfigPath: file,
				DotEnvPath: dotenv,
				SkipDotEnv: !tt.dotenv,
				LookupEnv:  envMap(tt.env),
			})
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			cfg.SetAccessKey(tt.flag)
			if cfg.AccessKey != tt.wantKey || cfg.KeySource() != tt.wantSource {
				t.Errorf("key = %q from %q, want %q from %q", cfg.AccessKey, cfg.KeySource(), tt.wantKey, tt.wantSource)
			}
			if cfg.PerPage != 20 || !cfg.Dedupe || cfg.Layout.ColumnCount != 4 {
				t.Errorf("file settings lost: %+v", cfg)
			}
			if cfg.Layout.ColumnWidth != 200 {
				t.Errorf("unset layout fields should keep defaults, got %v", cfg.Layout.ColumnWidth)
			}
			if cfg.Server.SessionTTL != 5*time.Minute {
				t.Errorf("SessionTTL = %v", cfg.Server.SessionTTL)
			}
		})
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	file := writeFile(t, t.TempDir(), "config.toml", "access_key = \n")
	_, err := Load(LoadOptions{ConfigPath: file, SkipDotEnv: true, LookupEnv: noEnv})
	if !perrors.Is(err, perrors.ErrCodeConfig) {
		t.Errorf("Load() error = %v, want CONFIG", err)
	}
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.AccessKey = "abc123def456"

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing key", func(c *Config) { c.AccessKey = "" }, "UNSPLASH_ACCESS_KEY"},
		{"placeholder key", func(c *Config) { c.AccessKey = "<your_key>" }, "placeholder"},
		{"per page too large", func(c *Config) { c.PerPage = 50 }, "per_page"},
		{"negative max pages", func(c *Config) { c.MaxPages = -1 }, "max_pages"},
		{"no probes", func(c *Config) { c.ProbeConcurrency = 0 }, "probe_concurrency"},
		{"control chars in query", func(c *Config) { c.Query = "a\x00b" }, "control"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == "" {
				if err != nil {
					t.Fatalf("Validate() = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestValidate_MissingKeyIsConfigError(t *testing.T) {
	err := Default().Validate()
	if !perrors.Is(err, perrors.ErrCodeConfig) {
		t.Errorf("Validate() = %v, want CONFIG", err)
	}
}

func TestMaskedKey(t *testing.T) {
	c := Config{AccessKey: "abcdefghijklmnop"}
	if got := c.MaskedKey(); got != "abcd********mnop" {
		t.Errorf("MaskedKey() = %q", got)
	}
	c.AccessKey = "short"
	if got := c.MaskedKey(); got != "*****" {
		t.Errorf("MaskedKey() = %q", got)
	}
}

func TestWriteTOML_MasksKey(t *testing.T) {
	c := Default()
	c.AccessKey = "abcdefghijklmnop"
	var buf bytes.Buffer
	if err := c.WriteTOML(&buf); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "efghijkl") {
		t.Error("WriteTOML leaked the access key")
	}
}

func TestPath_EnvOverride(t *testing.T) {
	t.Setenv(EnvConfigPath, "/tmp/custom.toml")
	p, err := Path()
	if err != nil || p != "/tmp/custom.toml" {
		t.Errorf("Path() = %q, %v", p, err)
	}
}

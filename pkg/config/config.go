// Package config loads photowall settings.
//
// Sources are applied in increasing precedence:
//
//  1. built-in defaults
//  2. the TOML file ($XDG_CONFIG_HOME/photowall/config.toml)
//  3. a .env file in the working directory
//  4. the process environment
//  5. command-line flags (applied by the caller)
//
// Only the access key is required. [Config.Validate] is called once at
// startup so a missing key fails before any request is made.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	perrors "github.com/matzehuels/photowall/pkg/errors"
	"github.com/matzehuels/photowall/pkg/gallery"
)

// Environment variables.
const (
	EnvAccessKey  = "UNSPLASH_ACCESS_KEY"
	EnvConfigPath = "PHOTOWALL_CONFIG"
	EnvQuery      = "PHOTOWALL_QUERY"
	EnvPerPage    = "PHOTOWALL_PER_PAGE"
	EnvBaseURL    = "PHOTOWALL_BASE_URL"
	EnvAddr       = "PHOTOWALL_ADDR"
	EnvRedisURL   = "PHOTOWALL_REDIS_URL"
)

// Key sources reported by [Config.KeySource].
const (
	SourceNone    = "none"
	SourceFile    = "file"
	SourceEnvFile = ".env"
	SourceEnv     = "environment"
	SourceFlag    = "flag"
)

// Config holds every setting.
type Config struct {
	AccessKey string `toml:"access_key"`
	BaseURL   string `toml:"base_url"`

	Query            string `toml:"query"`
	PerPage          int    `toml:"per_page"`
	MaxPages         int    `toml:"max_pages"`
	MaxFailures      int    `toml:"max_failures"`
	Dedupe           bool   `toml:"dedupe"`
	TrustReported    bool   `toml:"trust_reported"`
	ProbeConcurrency int    `toml:"probe_concurrency"`

	Layout gallery.LayoutConfig `toml:"layout"`
	Server ServerConfig         `toml:"server"`

	keySource string
	path      string
}

// ServerConfig configures `photowall serve`.
type ServerConfig struct {
	Addr        string        `toml:"addr"`
	SessionTTL  time.Duration `toml:"session_ttl"`
	MaxSessions int           `toml:"max_sessions"`
	RedisURL    string        `toml:"redis_url"`
	CachePrefix string        `toml:"cache_prefix"`
}

// Defaults.
const (
	DefaultBaseURL     = "https://api.unsplash.com"
	DefaultAddr        = "127.0.0.1:8080"
	DefaultSessionTTL  = 15 * time.Minute
	DefaultMaxSessions = 64
	DefaultCachePrefix = "photowall:"
)

// Default returns the built-in configuration.
func Default() Config {
	c := Config{
		BaseURL:          DefaultBaseURL,
		PerPage:          gallery.DefaultPerPage,
		MaxFailures:      gallery.DefaultMaxFailures,
		ProbeConcurrency: gallery.DefaultProbeConcurrency,
		Server: ServerConfig{
			Addr:        DefaultAddr,
			SessionTTL:  DefaultSessionTTL,
			MaxSessions: DefaultMaxSessions,
			CachePrefix: DefaultCachePrefix,
		},
		keySource: SourceNone,
	}
	c.Layout.SetDefaults()
	return c
}

// Path returns the config file location: $PHOTOWALL_CONFIG if set, else
// photowall/config.toml under the user config directory.
func Path() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "photowall", "config.toml"), nil
}

// LoadOptions selects the files Load reads. Empty paths use the defaults;
// SkipDotEnv disables the .env lookup.
type LoadOptions struct {
	ConfigPath string
	DotEnvPath string
	SkipDotEnv bool
	LookupEnv  func(string) (string, bool)
}

// Load builds a Config from defaults, the config file, .env and the
// environment. A missing file is not an error; a malformed one is.
func Load(opts LoadOptions) (Config, error) {
	cfg := Default()

	path := opts.ConfigPath
	if path == "" {
		p, err := Path()
		if err != nil {
			return cfg, err
		}
		path = p
	}
	if err := cfg.loadFile(path); err != nil {
		return cfg, err
	}

	if !opts.SkipDotEnv {
		dotenv := opts.DotEnvPath
		if dotenv == "" {
			dotenv = ".env"
		}
		vars, err := godotenv.Read(dotenv)
		switch {
		case err == nil:
			cfg.applyVars(func(k string) (string, bool) {
				v, ok := vars[k]
				return v, ok
			}, SourceEnvFile)
		case !errors.Is(err, fs.ErrNotExist):
			return cfg, perrors.Wrap(perrors.ErrCodeConfig, err, "read %s", dotenv)
		}
	}

	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	cfg.applyVars(lookup, SourceEnv)
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	c.path = path
	before := c.AccessKey
	_, err := toml.DecodeFile(path, c)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return perrors.Wrap(perrors.ErrCodeConfig, err, "parse %s", path)
	}
	if c.AccessKey != before {
		c.keySource = SourceFile
	}
	return nil
}

func (c *Config) applyVars(lookup func(string) (string, bool), source string) {
	if v, ok := lookup(EnvAccessKey); ok && v != "" {
		c.AccessKey = v
		c.keySource = source
	}
	if v, ok := lookup(EnvQuery); ok {
		c.Query = v
	}
	if v, ok := lookup(EnvPerPage); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			c.PerPage = n
		}
	}
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		c.BaseURL = v
	}
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Server.Addr = v
	}
	if v, ok := lookup(EnvRedisURL); ok {
		c.Server.RedisURL = v
	}
}

// SetAccessKey applies a key given on the command line.
func (c *Config) SetAccessKey(key string) {
	if key != "" {
		c.AccessKey = key
		c.keySource = SourceFlag
	}
}

// KeySource names where the access key came from.
func (c Config) KeySource() string { return c.keySource }

// FilePath returns the config file that was consulted.
func (c Config) FilePath() string { return c.path }

// MaskedKey shows the first and last characters of the access key.
func (c Config) MaskedKey() string {
	k := c.AccessKey
	if len(k) <= 8 {
		return strings.Repeat("*", len(k))
	}
	return k[:4] + strings.Repeat("*", len(k)-8) + k[len(k)-4:]
}

// Validate reports the first problem that would make the gallery unusable.
func (c Config) Validate() error {
	if c.AccessKey == "" {
		where := c.path
		if where == "" {
			where = "the config file"
		}
		return perrors.New(perrors.ErrCodeConfig,
			"no Unsplash access key: set access_key in %s, %s in .env or the environment, or pass --access-key",
			where, EnvAccessKey)
	}
	if err := perrors.ValidateAccessKey(c.AccessKey); err != nil {
		return err
	}
	if c.PerPage < 1 || c.PerPage > 30 {
		return perrors.New(perrors.ErrCodeConfig, "per_page must be between 1 and 30, got %d", c.PerPage)
	}
	if c.MaxPages < 0 {
		return perrors.New(perrors.ErrCodeConfig, "max_pages must not be negative")
	}
	if c.ProbeConcurrency < 1 {
		return perrors.New(perrors.ErrCodeConfig, "probe_concurrency must be at least 1")
	}
	if c.Query != "" {
		if err := perrors.ValidateQuery(c.Query); err != nil {
			return err
		}
	}
	return nil
}

// GalleryOptions converts the settings into gallery options.
func (c Config) GalleryOptions() []gallery.Option {
	return []gallery.Option{
		gallery.WithPerPage(c.PerPage),
		gallery.WithMaxPages(c.MaxPages),
		gallery.WithMaxFailures(c.MaxFailures),
		gallery.WithDedupe(c.Dedupe),
		gallery.WithTrustReported(c.TrustReported),
		gallery.WithProbeConcurrency(c.ProbeConcurrency),
		gallery.WithLayout(c.Layout),
	}
}

// WriteTOML encodes c (with the key masked) for display.
func (c Config) WriteTOML(w io.Writer) error {
	shown := c
	shown.AccessKey = c.MaskedKey()
	return toml.NewEncoder(w).Encode(shown)
}

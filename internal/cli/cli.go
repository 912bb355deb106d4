// Package cli implements the photowall command-line interface.
package cli

import (
	"context"
	"io"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/photowall/pkg/buildinfo"
	"github.com/matzehuels/photowall/pkg/cache"
	"github.com/matzehuels/photowall/pkg/config"
	perrors "github.com/matzehuels/photowall/pkg/errors"
	"github.com/matzehuels/photowall/pkg/gallery"
	"github.com/matzehuels/photowall/pkg/httputil"
	"github.com/matzehuels/photowall/pkg/integrations/unsplash"
)

// appName is the application name used for directories and display.
const appName = "photowall"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Flags shared by every command.
	accessKey  string
	configPath string
	verbose    bool

	// loadConfig is replaced in tests.
	loadConfig func(config.LoadOptions) (config.Config, error)
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:     newLogger(w, level),
		loadConfig: config.Load,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Photowall browses photos as an infinite masonry wall",
		Long:         `Photowall pages through the Unsplash photo API and lays the results out as a three-column masonry grid that loads more as you scroll.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if c.verbose {
				c.SetLogLevel(LogDebug)
				registerHooks(c.Logger)
			}
		},
	}

	root.SetVersionTemplate(buildinfo.String() + "\n")

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&c.accessKey, "access-key", "", "Unsplash access key (overrides "+config.EnvAccessKey+")")
	flags.StringVar(&c.configPath, "config", "", "config file (default: user config dir)")

	root.AddCommand(c.browseCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config and Gallery Factory
// =============================================================================

// settings loads the configuration and applies the --access-key flag. It does not
// validate, so `config show` can display an incomplete setup.
func (c *CLI) settings() (config.Config, error) {
	cfg, err := c.loadConfig(config.LoadOptions{ConfigPath: c.configPath})
	if err != nil {
		return cfg, err
	}
	cfg.SetAccessKey(c.accessKey)
	return cfg, nil
}

// validSettings loads and validates settings. Commands that talk to the API
// call this before issuing any request.
func (c *CLI) validSettings() (config.Config, error) {
	cfg, err := c.settings()
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	c.Logger.Debug("config loaded", "file", cfg.FilePath(), "key_source", cfg.KeySource())
	return cfg, nil
}

// sourceFactory returns a function that builds an Unsplash source per query.
func sourceFactory(cfg config.Config) (func(query string) gallery.Source, error) {
	client, err := unsplash.NewClient(cfg.AccessKey)
	if err != nil {
		return nil, err
	}
	client.WithBaseURL(cfg.BaseURL)
	return client.Source, nil
}

// galleryOptions merges config-derived options with the CLI logger and an
// optional shared size cache.
func (c *CLI) galleryOptions(cfg config.Config, sizes cache.Cache) []gallery.Option {
	opts := append(cfg.GalleryOptions(), gallery.WithLogger(c.Logger))
	if sizes != nil {
		opts = append(opts, gallery.WithSizeCache(sizes, cache.NewScopedKeyer(nil, apiHost(cfg.BaseURL)+":")))
	}
	return opts
}

// apiHost scopes shared size entries to the API they were measured for.
func apiHost(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return base
	}
	return u.Host
}

// openSizeCache picks the size cache shared by every gallery of a server:
// Redis when a URL is configured, a process-wide memory cache otherwise, or
// a null cache when disabled. The Redis connection is retried while the
// server starts up alongside it.
func (c *CLI) openSizeCache(ctx context.Context, redisURL, prefix string, disabled bool) (cache.Cache, error) {
	switch {
	case disabled:
		return cache.NewNullCache(), nil
	case redisURL == "":
		return cache.NewMemoryCache(), nil
	}
	var rc *cache.RedisCache
	err := httputil.RetryWithBackoff(ctx, func() error {
		var err error
		rc, err = cache.NewRedisCache(ctx, redisURL, prefix)
		if err != nil {
			c.Logger.Warn("redis unavailable", "err", err)
			return httputil.Retryable(err)
		}
		return nil
	})
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeConfig, err, "connect to redis")
	}
	c.Logger.Info("using redis size cache", "prefix", prefix)
	return rc, nil
}

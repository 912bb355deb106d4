package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/photowall/internal/server"
)

// serveOpts holds flags for the serve command.
type serveOpts struct {
	addr        string
	redisURL    string
	sessionTTL  time.Duration
	maxSessions int
	noSizeCache bool
}

// serveCommand creates the serve command that exposes gallery sessions over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve gallery sessions over HTTP",
		Long: `Start an HTTP server that drives gallery sessions for a thin browser
front-end. Each session owns a mounted gallery; clients report their scroll
offset and receive the frame to draw.

Routes:
  POST   /api/sessions                   create a session (body: {"query": "..."})
  GET    /api/sessions/{id}/frame?scroll=N
  GET    /api/sessions/{id}/frame.svg?scroll=N
  POST   /api/sessions/{id}/retry
  DELETE /api/sessions/{id}
  GET    /healthz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&opts.redisURL, "redis", "", "share measured sizes through Redis (redis://host:port/db)")
	cmd.Flags().DurationVar(&opts.sessionTTL, "session-ttl", 0, "unmount sessions idle for this long")
	cmd.Flags().IntVar(&opts.maxSessions, "max-sessions", 0, "maximum number of live sessions")
	cmd.Flags().BoolVar(&opts.noSizeCache, "no-size-cache", false, "measure every image in every session")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cmd *cobra.Command, opts serveOpts) error {
	cfg, err := c.validSettings()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Server.Addr = opts.addr
	}
	if flags.Changed("redis") {
		cfg.Server.RedisURL = opts.redisURL
	}
	if flags.Changed("session-ttl") {
		cfg.Server.SessionTTL = opts.sessionTTL
	}
	if flags.Changed("max-sessions") {
		cfg.Server.MaxSessions = opts.maxSessions
	}

	sources, err := sourceFactory(cfg)
	if err != nil {
		return err
	}
	sizes, err := c.openSizeCache(ctx, cfg.Server.RedisURL, cfg.Server.CachePrefix, opts.noSizeCache)
	if err != nil {
		return err
	}
	defer sizes.Close()

	srv := server.New(ctx, server.Options{
		Addr:           cfg.Server.Addr,
		SessionTTL:     cfg.Server.SessionTTL,
		MaxSessions:    cfg.Server.MaxSessions,
		Sources:        sources,
		GalleryOptions: c.galleryOptions(cfg, sizes),
		Logger:         c.Logger.WithPrefix("server"),
	})

	out := newPrinter(cmd.OutOrStdout())
	out.info("Serving on %s", StyleLink.Render("http://"+cfg.Server.Addr))
	out.detail("Sessions expire after %s idle (max %d)", cfg.Server.SessionTTL, cfg.Server.MaxSessions)
	return srv.Run(ctx)
}

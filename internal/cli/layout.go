package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	perrors "github.com/matzehuels/photowall/pkg/errors"
	"github.com/matzehuels/photowall/pkg/gallery"
	"github.com/matzehuels/photowall/pkg/render"
)

// layoutOpts holds flags for the layout command.
type layoutOpts struct {
	query    string
	pages    int
	perPage  int
	dedupe   bool
	formats  string
	output   string
	images   bool
	fullPage bool
}

// layoutStats summarises an exported layout.
type layoutStats struct {
	items    int
	pages    int
	height   float64
	fallback int
}

// layoutCommand creates the layout command for exporting a computed grid.
func (c *CLI) layoutCommand() *cobra.Command {
	opts := layoutOpts{pages: 1, formats: render.FormatJSON, output: appName}

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Fetch pages and export the masonry layout",
		Long: `Fetch one or more pages of photos, measure them, and export the computed
masonry grid as JSON, YAML or SVG.

With --output - a single format is written to stdout.`,
		Example: `  photowall layout --pages 3 --format svg,json
  photowall layout --query mountains --format yaml -o -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "search query (default: editorial feed)")
	cmd.Flags().IntVarP(&opts.pages, "pages", "n", opts.pages, "number of pages to load")
	cmd.Flags().IntVar(&opts.perPage, "per-page", 0, "photos per page (1-30)")
	cmd.Flags().BoolVar(&opts.dedupe, "dedupe", false, "drop photos already seen on earlier pages")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", opts.formats, "comma-separated formats: "+strings.Join(render.Formats, ", "))
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output base path, or - for stdout")
	cmd.Flags().BoolVar(&opts.images, "images", false, "link photos into SVG output")
	cmd.Flags().BoolVar(&opts.fullPage, "full", true, "draw the whole grid instead of the first viewport")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, cmd *cobra.Command, opts layoutOpts) error {
	formats, err := parseFormats(opts.formats)
	if err != nil {
		return err
	}
	if opts.output == "-" && len(formats) != 1 {
		return perrors.New(perrors.ErrCodeInvalidInput, "--output - needs exactly one format, got %d", len(formats))
	}
	if opts.pages < 1 {
		return perrors.New(perrors.ErrCodeInvalidInput, "--pages must be at least 1, got %d", opts.pages)
	}

	cfg, err := c.validSettings()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("query") {
		cfg.Query = opts.query
	}
	if opts.perPage > 0 {
		cfg.PerPage = opts.perPage
	}
	if opts.dedupe {
		cfg.Dedupe = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	sources, err := sourceFactory(cfg)
	if err != nil {
		return err
	}

	galleryOpts := append(c.galleryOptions(cfg, nil), gallery.WithMaxPages(opts.pages))
	g := gallery.New(sources(cfg.Query), galleryOpts...)

	spinner := newSpinnerTo(ctx, cmd.ErrOrStderr(), "Loading page 1…")
	spinner.Start()
	unsubscribe := g.Subscribe(func(e gallery.Event) {
		if e.Kind == gallery.EventPageLoaded {
			spinner.SetMessage(fmt.Sprintf("Loaded page %d, measuring…", e.Page))
		}
	})
	prog := newProgress(c.Logger)

	frame, err := collect(ctx, g)
	unsubscribe()
	g.Unmount()
	if err != nil {
		spinner.Stop()
		newPrinter(cmd.ErrOrStderr()).failure("Layout failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Laid out %d photos", frame.Items))

	renderOpts := []render.Option{render.WithQuery(cfg.Query)}
	if opts.images {
		renderOpts = append(renderOpts, render.WithImages())
	}
	if opts.fullPage {
		renderOpts = append(renderOpts, render.WithFullPage())
	}

	if opts.output == "-" {
		return writeFormat(cmd.OutOrStdout(), formats[0], frame, renderOpts)
	}
	paths, err := exportFormats(formats, opts.output, frame, renderOpts)
	if err != nil {
		return err
	}

	out := newPrinter(cmd.OutOrStdout())
	out.success("Exported layout")
	out.stats(statsOf(frame))
	for _, p := range paths {
		out.file(p)
	}
	if !slices.Contains(formats, render.FormatSVG) {
		out.hint("Preview as SVG", "photowall", "layout", "-n", strconv.Itoa(opts.pages), "-f", "svg")
	}
	return nil
}

// collect mounts g and keeps requesting pages until the fetch coordinator
// reports the end (page cap, short page, or last page). It returns a
// snapshot of the full grid.
func collect(ctx context.Context, g *gallery.Gallery) (gallery.Frame, error) {
	if err := g.Mount(ctx); err != nil {
		return gallery.Frame{}, err
	}
	for {
		if err := g.WaitIdle(ctx); err != nil {
			return gallery.Frame{}, err
		}
		f := g.Frame()
		switch f.State {
		case gallery.StateExhausted.String():
			return g.Snapshot(), nil
		case gallery.StateFailed.String():
			return gallery.Frame{}, perrors.New(perrors.Code(f.ErrorCode), "load page %d: %s", f.Page, f.Error)
		case gallery.StateClosed.String():
			return gallery.Frame{}, perrors.New(perrors.ErrCodeClosed, "gallery closed")
		}
		g.LoadMore()
	}
}

// exportFormats renders every format concurrently to base+extension.
func exportFormats(formats []string, base string, frame gallery.Frame, opts []render.Option) ([]string, error) {
	paths := make([]string, len(formats))
	var eg errgroup.Group
	for i, format := range formats {
		paths[i] = base + render.Extension(format)
		eg.Go(func() error {
			f, err := os.Create(paths[i])
			if err != nil {
				return fmt.Errorf("create %s: %w", paths[i], err)
			}
			if err := writeFormat(f, format, frame, opts); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func writeFormat(w io.Writer, format string, frame gallery.Frame, opts []render.Option) error {
	data, err := render.Render(format, frame, opts...)
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}
	_, err = w.Write(data)
	return err
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) ([]string, error) {
	if s == "" {
		return []string{render.FormatJSON}, nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if err := render.ValidateFormat(f); err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "parse --format")
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out, nil
}

func statsOf(f gallery.Frame) layoutStats {
	s := layoutStats{items: f.Items, pages: f.Page - 1, height: f.GridHeight}
	for _, c := range f.Cells {
		if c.Measured == gallery.Failed {
			s.fallback++
		}
	}
	return s
}

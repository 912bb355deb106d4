package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/photowall/pkg/gallery"
)

// lineStep is the scroll distance of j/k in layout pixels.
const lineStep = 50

// Chrome rows around the grid: title + blank line above, status + help below.
const (
	headerRows = 2
	footerRows = 2
)

// browseCommand creates the interactive browser.
func (c *CLI) browseCommand() *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse photos in an infinite-scroll terminal grid",
		Long: `Open an interactive masonry grid in the terminal. Scrolling to the
bottom loads the next page; r retries after a failed request.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.validSettings()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("query") {
				cfg.Query = query
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			sources, err := sourceFactory(cfg)
			if err != nil {
				return err
			}

			// The alternate screen owns the terminal; logs go to a file.
			logger := log.NewWithOptions(io.Discard, log.Options{})
			if c.verbose {
				f, err := tea.LogToFile(filepath.Join(os.TempDir(), appName+".log"), "")
				if err != nil {
					return err
				}
				defer f.Close()
				logger = newLogger(f, LogDebug)
				registerHooks(logger)
			}

			opts := append(c.galleryOptions(cfg, nil), gallery.WithLogger(logger))
			g := gallery.New(sources(cfg.Query), opts...)
			return runBrowser(cmd.Context(), g, cfg.Query, cfg.Layout.ColumnCount)
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "search query (default: editorial feed)")
	return cmd
}

func runBrowser(ctx context.Context, g *gallery.Gallery, query string, columns int) error {
	p := tea.NewProgram(newBrowseModel(g, query, columns), tea.WithAltScreen(), tea.WithContext(ctx))

	unsubscribe := g.Subscribe(func(e gallery.Event) { p.Send(galleryMsg(e)) })
	defer unsubscribe()
	if err := g.Mount(ctx); err != nil {
		return err
	}
	defer g.Unmount()

	_, err := p.Run()
	return err
}

// wall is the part of a gallery the browser drives.
type wall interface {
	Frame() gallery.Frame
	Scroll(offset float64)
	ScrollBy(delta float64)
	Retry() bool
}

// galleryMsg carries a gallery event into the bubbletea loop.
type galleryMsg gallery.Event

// browseModel is the bubbletea model for the interactive grid.
type browseModel struct {
	wall    wall
	query   string
	columns int
	spinner spinner.Model
	frame   gallery.Frame
	width   int
	height  int
}

func newBrowseModel(w wall, query string, columns int) browseModel {
	spin := spinner.New()
	spin.Spinner = spinner.MiniDot
	spin.Style = styleIconSpinner
	if columns < 1 {
		columns = gallery.DefaultColumnCount
	}
	return browseModel{
		wall:    w,
		query:   query,
		columns: columns,
		spinner: spin,
		width:   80,
		height:  24,
	}
}

// Init starts the spinner and takes the first frame.
func (m browseModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, func() tea.Msg { return galleryMsg{} })
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case galleryMsg:
		m.frame = m.wall.Frame()
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m browseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	page := m.frame.ViewportHeight
	if page <= 0 {
		page = gallery.DefaultViewportHeight
	}
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "down", "j":
		m.wall.ScrollBy(lineStep)
	case "up", "k":
		m.wall.ScrollBy(-lineStep)
	case " ", "pgdown", "f":
		m.wall.ScrollBy(page)
	case "pgup", "b":
		m.wall.ScrollBy(-page)
	case "home", "g":
		m.wall.Scroll(0)
	case "end", "G":
		m.wall.Scroll(math.MaxFloat64)
	case "r":
		m.wall.Retry()
	default:
		return m, nil
	}
	m.frame = m.wall.Frame()
	return m, nil
}

func (m browseModel) View() string {
	var b strings.Builder

	title := StyleTitle.Render(gallery.Title)
	if m.query != "" {
		title += StyleDim.Render(" · ") + StyleValue.Render(m.query)
	}
	title += StyleDim.Render(fmt.Sprintf(" · %d photos", m.frame.Items))
	b.WriteString(title)
	b.WriteString("\n\n")

	b.WriteString(m.grid())
	b.WriteString("\n")
	b.WriteString(m.status())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("j/k scroll  space/b page  g/G top/end  r retry  q quit"))
	return b.String()
}

func (m browseModel) gridRows() int {
	return max(m.height-headerRows-footerRows, 3)
}

// grid draws the visible cells column by column, one text row per
// pxPerRow layout pixels so that the terminal shows exactly one viewport.
func (m browseModel) grid() string {
	rows := m.gridRows()
	viewport := m.frame.ViewportHeight
	if viewport <= 0 {
		viewport = gallery.DefaultViewportHeight
	}
	pxPerRow := viewport / float64(rows)
	colWidth := max((m.width-m.columns)/m.columns, 8)
	top := m.frame.ScrollTop

	cols := make([][]string, m.columns)
	cursor := make([]float64, m.columns)
	for i := range cursor {
		cursor[i] = top
	}
	for _, c := range m.frame.Cells {
		if c.Column >= m.columns || c.Bottom() <= top || c.Y >= top+viewport {
			continue
		}
		start := math.Max(c.Y, top)
		for gap := int(math.Round((start - cursor[c.Column]) / pxPerRow)); gap > 0; gap-- {
			cols[c.Column] = append(cols[c.Column], "")
		}
		h := max(int(math.Round((c.Bottom()-start)/pxPerRow)), 2)
		cols[c.Column] = append(cols[c.Column], strings.Split(renderCell(c, colWidth, h), "\n")...)
		cursor[c.Column] = c.Bottom()
	}

	blocks := make([]string, m.columns)
	for i, lines := range cols {
		if len(lines) > rows {
			lines = lines[:rows]
		}
		for len(lines) < rows {
			lines = append(lines, "")
		}
		blocks[i] = lipgloss.NewStyle().Width(colWidth + 1).Render(strings.Join(lines, "\n"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

// renderCell draws one photo as a bordered box of h rows.
func renderCell(c gallery.FrameCell, width, h int) string {
	var border lipgloss.TerminalColor = colorFaint
	if c.Photo.Color != "" {
		border = lipgloss.Color(c.Photo.Color)
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(width - 2).
		Height(max(h-2, 0)).
		MaxHeight(h)

	label := c.Photo.Alt
	if label == "" {
		label = c.Photo.ID
	}
	lines := []string{StyleValue.Render(truncate(label, width-2))}
	if c.Photo.Author != "" {
		lines = append(lines, StyleDim.Render(truncate("by "+c.Photo.Author, width-2)))
	}
	switch c.Measured {
	case gallery.Failed:
		lines = append(lines, StyleWarning.Render("image unavailable"))
	case gallery.Pending:
		lines = append(lines, StyleDim.Render("measuring…"))
	default:
		lines = append(lines, StyleDim.Render(fmt.Sprintf("%.0f×%.0f", c.Width, c.Height)))
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m browseModel) status() string {
	switch {
	case m.frame.Loading:
		return m.spinner.View() + " " + StyleDim.Render(gallery.StatusLoading)
	case m.frame.Error != "":
		return StyleError.Render(iconError+" "+m.frame.Status) + StyleDim.Render(" ["+m.frame.ErrorCode+"]")
	case m.frame.Status != "":
		return StyleDim.Render(m.frame.Status)
	default:
		return StyleDim.Render(fmt.Sprintf("next page %d", m.frame.Page))
	}
}

// truncate shortens s to n display cells.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > n {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

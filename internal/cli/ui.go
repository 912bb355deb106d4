package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette, by role.
var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorFail   = lipgloss.Color("167")
	colorLink   = lipgloss.Color("75")
	colorText   = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("245")
	colorFaint  = lipgloss.Color("240")
)

// Styles shared by the printer, the spinner and the browser.
var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleLink    = lipgloss.NewStyle().Foreground(colorLink).Underline(true)
	StyleDim     = lipgloss.NewStyle().Foreground(colorFaint)
	StyleValue   = lipgloss.NewStyle().Foreground(colorText)
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)
	StyleError   = lipgloss.NewStyle().Foreground(colorFail)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleLabel       = lipgloss.NewStyle().Foreground(colorMuted).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(colorLink)
)

const (
	iconError = "✗"
	iconArrow = "→"
)

// mark is the leading glyph of a status line.
type mark struct {
	glyph string
	style lipgloss.Style
}

var (
	markOK   = mark{"✓", lipgloss.NewStyle().Foreground(colorOK)}
	markFail = mark{iconError, lipgloss.NewStyle().Foreground(colorFail)}
	markWarn = mark{"!", lipgloss.NewStyle().Foreground(colorWarn)}
	markInfo = mark{"›", lipgloss.NewStyle().Foreground(colorMuted)}
)

// printer writes human-facing command output. Commands build one from
// cmd.OutOrStdout() so tests can capture what they print.
type printer struct {
	w io.Writer
}

func newPrinter(w io.Writer) printer { return printer{w: w} }

func (p printer) status(m mark, body string) {
	fmt.Fprintln(p.w, m.style.Render(m.glyph)+" "+body)
}

func (p printer) success(format string, args ...any) {
	p.status(markOK, fmt.Sprintf(format, args...))
}

func (p printer) failure(format string, args ...any) {
	p.status(markFail, fmt.Sprintf(format, args...))
}

func (p printer) warning(format string, args ...any) {
	p.status(markWarn, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func (p printer) info(format string, args ...any) {
	p.status(markInfo, fmt.Sprintf(format, args...))
}

// detail prints an indented secondary line.
func (p printer) detail(format string, args ...any) {
	fmt.Fprintln(p.w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// file prints a written output path.
func (p printer) file(path string) {
	fmt.Fprintln(p.w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func (p printer) field(label, value string) {
	fmt.Fprintln(p.w, styleLabel.Render(label)+" "+StyleValue.Render(value))
}

// stats summarizes an exported layout on one line. Photos still drawn at
// the default aspect are called out in the warning color.
func (p printer) stats(s layoutStats) {
	sep := StyleDim.Render(" · ")
	line := StyleDim.Render(fmt.Sprintf("%d photos", s.items)) + sep +
		StyleDim.Render(fmt.Sprintf("%d pages", s.pages)) + sep +
		StyleDim.Render(fmt.Sprintf("%.0fpx tall", s.height)) + sep
	if s.fallback > 0 {
		line += StyleWarning.Render(fmt.Sprintf("%d default sizes", s.fallback))
	} else {
		line += lipgloss.NewStyle().Foreground(colorOK).Render("all measured")
	}
	fmt.Fprintln(p.w, "  "+line)
}

// hint suggests a follow-up command.
func (p printer) hint(description string, argv ...string) {
	fmt.Fprintln(p.w, StyleDim.Render(description+":")+" "+styleCommand.Render(strings.Join(argv, " ")))
}

// Package output renders CLI results. Output adapts to the environment:
// styled text on a terminal, plain markdown when piped, JSON on request.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Mode selects the output format.
type Mode string

const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

// Renderer writes formatted output.
type Renderer struct {
	out     io.Writer
	errOut  io.Writer
	mode    Mode
	colored bool
}

// NewRenderer creates a renderer. Color is enabled only for text mode on a
// capable terminal.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	return &Renderer{
		out:     out,
		errOut:  errOut,
		mode:    mode,
		colored: termenv.EnvColorProfile() != termenv.Ascii,
	}
}

// EffectiveMode resolves ModeAuto: text on a terminal, markdown otherwise.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if f, ok := r.out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return ModeText
	}
	return ModeMarkdown
}

// Out returns the underlying writer for raw output.
func (r *Renderer) Out() io.Writer {
	return r.out
}

// Header writes a section heading.
func (r *Renderer) Header(level int, text string) {
	switch r.EffectiveMode() {
	case ModeMarkdown:
		fmt.Fprintf(r.out, "%s %s\n\n", strings.Repeat("#", level), text)
	default:
		fmt.Fprintln(r.out, r.styled(headerStyle, text))
	}
}

// KV writes an aligned key/value line.
func (r *Renderer) KV(key, value string) {
	switch r.EffectiveMode() {
	case ModeMarkdown:
		fmt.Fprintf(r.out, "- **%s**: %s\n", key, value)
	default:
		fmt.Fprintf(r.out, "  %-14s %s\n", key+":", value)
	}
}

// Success writes a positive status line.
func (r *Renderer) Success(format string, args ...any) {
	fmt.Fprintln(r.out, r.styled(successStyle, fmt.Sprintf(format, args...)))
}

// Errorf writes an error line to the error stream.
func (r *Renderer) Errorf(format string, args ...any) {
	fmt.Fprintln(r.errOut, r.styled(errorStyle, fmt.Sprintf(format, args...)))
}

// Dim writes a de-emphasized line.
func (r *Renderer) Dim(text string) {
	fmt.Fprintln(r.out, r.styled(dimStyle, text))
}

// Table writes a table in the effective format.
func (r *Renderer) Table(headers []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)

	hdr := make(table.Row, len(headers))
	for i, h := range headers {
		hdr[i] = h
	}
	t.AppendHeader(hdr)

	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, cell := range row {
			tr[i] = cell
		}
		t.AppendRow(tr)
	}

	if r.EffectiveMode() == ModeMarkdown {
		t.RenderMarkdown()
		return
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

// JSON marshals v with indentation.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *Renderer) styled(style lipgloss.Style, text string) string {
	if !r.colored || r.EffectiveMode() != ModeText {
		return text
	}
	return style.Render(text)
}

// Package report renders score listings for the terminal or as JSON.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/okian/okrscore/internal/domain/levels"
	"github.com/okian/okrscore/internal/domain/scoring"
	"github.com/okian/okrscore/internal/domain/types"
)

// Format selects the output encoding.
type Format string

// Formats.
const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// ErrUnknownFormat is returned for formats other than console and json.
var ErrUnknownFormat = errors.New("unknown report format")

// ParseFormat validates s.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatConsole, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnknownFormat)
	}
}

// Renderer writes reports to w.
type Renderer struct {
	w      io.Writer
	format Format
	color  bool
	header lipgloss.Style
	dim    lipgloss.Style
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithFormat sets the output format.
func WithFormat(f Format) Option {
	return func(r *Renderer) {
		if f != "" {
			r.format = f
		}
	}
}

// WithColor toggles ANSI styling of console output.
func WithColor(enabled bool) Option {
	return func(r *Renderer) { r.color = enabled }
}

// New returns a console renderer with color enabled.
func New(w io.Writer, opts ...Option) *Renderer {
	r := &Renderer{
		w:      w,
		format: FormatConsole,
		color:  true,
		header: lipgloss.NewStyle().Bold(true).Underline(true),
		dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Departments lists department scores.
func (r *Renderer) Departments(rows []types.DepartmentScore) error {
	if r.format == FormatJSON {
		return r.json(rows)
	}
	r.headerRow("DEPARTMENT", "DIVISION", "AUTO", "FINAL", "LEVEL", "POLICY")
	for _, d := range rows {
		r.row(d.CombinedResult, d.Name, d.DivisionID)
	}
	return nil
}

// Divisions lists division scores followed by their departments.
func (r *Renderer) Divisions(rows []types.DivisionScore) error {
	if r.format == FormatJSON {
		return r.json(rows)
	}
	r.headerRow("DIVISION", "DEPARTMENTS", "AUTO", "FINAL", "LEVEL", "POLICY")
	for _, d := range rows {
		r.row(d.CombinedResult, d.Name, strconv.Itoa(len(d.Departments)))
		for _, dep := range d.Departments {
			r.row(dep.CombinedResult, "  "+dep.Name, "")
		}
	}
	return nil
}

// Levels lists the level configuration in display order.
func (r *Renderer) Levels(rows []levels.ScoreLevel, defaults bool) error {
	if r.format == FormatJSON {
		return r.json(struct {
			Levels   []levels.ScoreLevel `json:"levels"`
			Defaults bool                `json:"defaults"`
		}{rows, defaults})
	}
	r.headerRow("LEVEL", "SCORE", "COLOR", "ORDER", "", "")
	for _, l := range rows {
		r.line(
			r.paint(l.Color, pad(l.Name, 24)),
			pad(strconv.FormatFloat(l.ScoreValue, 'f', -1, 64), 12),
			pad(l.Color, 8),
			strconv.Itoa(l.DisplayOrder),
		)
	}
	if defaults {
		r.line(r.style(r.dim, "built-in defaults; no levels configured"))
	}
	return nil
}

func (r *Renderer) row(c scoring.CombinedResult, name, group string) {
	final := "-"
	if c.FinalScore != nil {
		final = formatScore(*c.FinalScore)
	}
	r.line(
		pad(name, 24),
		pad(group, 12),
		pad(formatScore(c.Automatic.Score), 8),
		pad(final, 8),
		r.paint(c.Color, pad(c.Level, 14)),
		string(c.Policy),
	)
}

func (r *Renderer) headerRow(cols ...string) {
	widths := []int{24, 12, 8, 8, 14, 0}
	cells := make([]string, 0, len(cols))
	for i, c := range cols {
		cells = append(cells, pad(c, widths[i]))
	}
	r.line(r.style(r.header, strings.TrimRight(strings.Join(cells, ""), " ")))
}

func (r *Renderer) line(cells ...string) {
	fmt.Fprintln(r.w, strings.TrimRight(strings.Join(cells, ""), " "))
}

func (r *Renderer) paint(hex, s string) string {
	return r.style(lipgloss.NewStyle().Foreground(lipgloss.Color(hex)), s)
}

func (r *Renderer) style(st lipgloss.Style, s string) string {
	if !r.color {
		return s
	}
	return st.Render(s)
}

func (r *Renderer) json(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// pad left-aligns s in a cell of width n with at least one trailing space.
func pad(s string, n int) string {
	if n == 0 {
		return s
	}
	if len(s) >= n {
		return s + " "
	}
	return s + strings.Repeat(" ", n-len(s))
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

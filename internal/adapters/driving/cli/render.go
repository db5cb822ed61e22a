package cli

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/custodia-labs/cytoset/internal/adapters/driven/export"
	"github.com/custodia-labs/cytoset/internal/core/domain"
)

var (
	headerColour = lipgloss.Color("#7C3AED")
	borderColour = lipgloss.Color("#45475A")
	mutedColour  = lipgloss.Color("#6C7086")
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// newTable returns a table styled for w. Terminals get colours and rounded
// borders; pipes and files get plain ASCII.
func newTable(w io.Writer, headers ...string) *table.Table {
	r := lipgloss.NewRenderer(w)
	t := table.New().Headers(headers...)

	if !isTerminal(w) {
		return t.Border(lipgloss.ASCIIBorder())
	}

	header := r.NewStyle().Bold(true).Foreground(headerColour).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1)
	return t.
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.NewStyle().Foreground(borderColour)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
}

// renderStatistics writes one file's statistics table.
func renderStatistics(w io.Writer, stats []domain.SetStatistics) string {
	t := newTable(w, "ID", "Set", "Count", "Images", "Imaged volume (µL)")
	for _, s := range stats {
		t.Row(
			strconv.Itoa(s.ListID),
			s.Name,
			strconv.Itoa(s.Count),
			strconv.Itoa(s.Images),
			export.FormatVolume(s.ImagedVolume),
		)
	}
	return t.String()
}

// renderMemberships writes the per-particle set table.
func renderMemberships(w io.Writer, records []domain.ParticleMembership) string {
	t := newTable(w, "Particle", "Index", "Sets")
	for _, rec := range records {
		t.Row(strconv.Itoa(rec.ParticleID), strconv.Itoa(rec.Index), membershipLabel(rec.Sets))
	}
	return t.String()
}

// membershipLabel distinguishes "no set information" from "no named set".
func membershipLabel(m domain.Membership) string {
	names, known := m.Names()
	switch {
	case !known:
		return "-"
	case len(names) == 0:
		return "(none)"
	default:
		return strings.Join(names, ", ")
	}
}

// muted renders secondary text for w.
func muted(w io.Writer, s string) string {
	if !isTerminal(w) {
		return s
	}
	return lipgloss.NewRenderer(w).NewStyle().Foreground(mutedColour).Render(s)
}

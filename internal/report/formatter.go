// Package report renders grading records and their 2D diffs as plain text
// and writes them to disk.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zinc-sig/gridiff/internal/diff2d"
	"github.com/zinc-sig/gridiff/internal/record"
)

// Layout controls how the three channels of a 2D diff are arranged.
type Layout string

const (
	LayoutStacked    Layout = "stacked"
	LayoutSideBySide Layout = "side-by-side"
)

// ParseLayout accepts the layout names plus the vertical/horizontal aliases.
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "stacked", "vertical":
		return LayoutStacked, nil
	case "side-by-side", "horizontal":
		return LayoutSideBySide, nil
	default:
		return "", fmt.Errorf("unknown layout %q (want stacked or side-by-side)", s)
	}
}

// Outcome is a record together with the result of diffing it.
type Outcome struct {
	Record record.Record
	// Diff is nil when there was no submission or the diff failed.
	Diff    *diff2d.DiffGrid
	DiffErr error
}

// Formatter renders outcomes. The zero value uses the stacked layout.
type Formatter struct {
	Layout Layout
	// Gap is the number of spaces between side-by-side columns.
	Gap int
}

func NewFormatter(layout Layout) *Formatter {
	return &Formatter{Layout: layout, Gap: 4}
}

// Format renders one outcome as a human readable report.
func (f *Formatter) Format(o Outcome) string {
	r := o.Record
	var sb strings.Builder

	fmt.Fprintf(&sb, "%d Test %2d\n\n", r.SectionNumber, r.TestNumber)
	fmt.Fprintf(&sb, "Diff:\n%s\n\n", r.Diff)
	fmt.Fprintf(&sb, "Submission:\n%s\n\n", r.Submission)
	fmt.Fprintf(&sb, "Solution:\n%s\n\n", r.Solution)
	if r.Error == "" {
		sb.WriteString("No error.\n\n")
	} else {
		fmt.Fprintf(&sb, "Error:\n%s\n\n", r.Error)
	}
	if r.Moves != "" {
		fmt.Fprintf(&sb, "Moves:\n%s\n\n", r.Moves)
	}

	switch {
	case o.Diff != nil:
		sb.WriteString("2D Diff:\n")
		sb.WriteString(f.Grids(o.Diff))
		sb.WriteString("\n")
	case o.DiffErr != nil:
		fmt.Fprintf(&sb, "2D diff unavailable: %v\n\n", o.DiffErr)
		fmt.Fprintf(&sb, "Line diff (solution -> submission):\n%s\n", LineDiff(r.Solution, r.Submission))
	default:
		sb.WriteString("No submission output to diff.\n")
	}
	return sb.String()
}

// Grids renders the three channels of d under their titles.
func (f *Formatter) Grids(d *diff2d.DiffGrid) string {
	blocks := []struct{ title, body string }{
		{"Expected", d.Expected},
		{"Actual", d.Actual},
		{"Maze", d.Context},
	}

	if f.Layout != LayoutSideBySide {
		var sb strings.Builder
		for i, b := range blocks {
			if i > 0 {
				sb.WriteString("\n")
			}
			fmt.Fprintf(&sb, "%s:\n%s\n", b.title, b.body)
		}
		return sb.String()
	}

	column := lipgloss.NewStyle().PaddingRight(f.Gap)
	rendered := make([]string, len(blocks))
	for i, b := range blocks {
		style := column
		if i == len(blocks)-1 {
			style = lipgloss.NewStyle()
		}
		rendered[i] = style.Render(b.title + ":\n" + b.body)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...) + "\n"
}

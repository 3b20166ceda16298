// Package grid turns noisy captured text into rectangular character grids.
//
// Text pulled out of a paginated report picks up page numbers at line
// boundaries and occasionally loses or duplicates whole lines. The helpers
// here vote on the most common line length and use it to repair or drop the
// lines that do not fit.
package grid

import (
	"strings"
	"unicode/utf8"
)

const (
	rowDelimiter = "\n"
	digits       = "0123456789"
)

// Lines splits text into rows on the row delimiter.
func Lines(text string) []string {
	return strings.Split(text, rowDelimiter)
}

// ModalLineLength returns the most frequent line length (in runes) of text.
// Ties go to the length that appears first when scanning from the top.
func ModalLineLength(text string) int {
	return modalLength(Lines(text))
}

func modalLength(lines []string) int {
	counts := make(map[int]int)
	var order []int
	for _, line := range lines {
		n := utf8.RuneCountInString(line)
		if _, seen := counts[n]; !seen {
			order = append(order, n)
		}
		counts[n]++
	}

	mode, best := 0, 0
	for _, n := range order {
		if counts[n] > best {
			mode, best = n, counts[n]
		}
	}
	return mode
}

// StripAffixNumbers removes page-number contamination from the edges of
// lines that are not already at the modal length. A leading run of digits is
// removed first; if the line is still off-length a trailing run is removed
// as well.
func StripAffixNumbers(text string) string {
	lines := Lines(text)
	mode := modalLength(lines)

	for i, line := range lines {
		if utf8.RuneCountInString(line) == mode {
			continue
		}
		line = strings.TrimLeft(line, digits)
		if utf8.RuneCountInString(line) != mode {
			line = strings.TrimRight(line, digits)
		}
		lines[i] = line
	}
	return strings.Join(lines, rowDelimiter)
}

// KeepModalLines drops every line whose length differs from the modal
// length, preserving the order of the survivors.
func KeepModalLines(text string) string {
	if text == "" {
		return ""
	}

	lines := Lines(text)
	mode := modalLength(lines)

	kept := lines[:0]
	for _, line := range lines {
		if utf8.RuneCountInString(line) == mode {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, rowDelimiter)
}

// Normalize trims text and reduces it to a rectangular grid.
func Normalize(text string) string {
	return KeepModalLines(StripAffixNumbers(strings.TrimSpace(text)))
}

// Width returns the rune length of the first row of text.
func Width(text string) int {
	first, _, _ := strings.Cut(text, rowDelimiter)
	return utf8.RuneCountInString(first)
}

// Flatten concatenates all rows of text end to end, so the last cell of a
// row is adjacent to the first cell of the next one.
func Flatten(text string) []rune {
	return []rune(strings.ReplaceAll(text, rowDelimiter, ""))
}

// Reshape splits cells into rows of width and joins them with the row
// delimiter. A short final row is kept as is.
func Reshape(cells []rune, width int) string {
	if width <= 0 || len(cells) == 0 {
		return string(cells)
	}

	var b strings.Builder
	b.Grow(len(cells) + len(cells)/width)
	for i, r := range cells {
		if i > 0 && i%width == 0 {
			b.WriteString(rowDelimiter)
		}
		b.WriteRune(r)
	}
	return b.String()
}

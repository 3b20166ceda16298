// Package record recovers per-test grading records from the extracted text
// of a grading report.
//
// The report text has lost its page layout. What survives are landmark
// phrases: section headings and the file names of each captured artifact
// (partNNtestNN.diff, .moves.emf, .maze.emf, .output, .solution, .err).
// Parse walks those landmarks test by test and cleans every captured field.
package record

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/zinc-sig/gridiff/internal/grid"
)

// TOCMarker separates the table of contents from the test results.
const TOCMarker = "Chapter 2"

// ErrStructuralMismatch is returned when a required document landmark is
// missing.
var ErrStructuralMismatch = errors.New("structural mismatch")

// Field names a captured part of a test block.
type Field string

const (
	FieldDiff       Field = "diff"
	FieldMoves      Field = "moves"
	FieldMaze       Field = "maze"
	FieldSubmission Field = "submission"
	FieldSolution   Field = "solution"
	FieldError      Field = "stderr"
)

// FieldCount is the number of matches one landmark scan found.
type FieldCount struct {
	Field Field
	Count int
}

// ExtractionCountMismatchError is returned when the landmark scans disagree
// on the number of tests, or when a test block lacks one of its fields.
// Pairing fields by position in either case would silently attach output to
// the wrong test.
type ExtractionCountMismatchError struct {
	Counts []FieldCount
	// Record and Field are set when a single block is missing a field.
	Record int
	Field  Field
}

func (e *ExtractionCountMismatchError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("extraction count mismatch: test block %d has no %s section", e.Record, e.Field)
	}
	parts := make([]string, len(e.Counts))
	for i, c := range e.Counts {
		parts[i] = fmt.Sprintf("%s=%d", c.Field, c.Count)
	}
	return "extraction count mismatch: " + strings.Join(parts, " ")
}

var (
	headerPattern = regexp.MustCompile(`(?s)part(\d\d)test(\d\d)\.dif?f?(.+?)\d+\.\d+\.\d+ Input File`)

	// Capture patterns in the order their sections appear within a test.
	// Each one ends on the landmark that opens the next section.
	sectionPatterns = []struct {
		field   Field
		pattern *regexp.Regexp
	}{
		{FieldMoves, regexp.MustCompile(`(?s)part\d\dtest\d\d\.moves\.emf(.+?)part\d\dtest\d\d\.maze\.emf`)},
		{FieldMaze, regexp.MustCompile(`(?s)part\d\dtest\d\d\.maze\.emf(.+?)\d\.\d+\.\d Submission Output`)},
		{FieldSubmission, regexp.MustCompile(`(?s)\d\.\d+\.\d Submission Output.*?\d?\d?part\d\dtest\d\d\.output(.+?)\d\.\d+\.\d Solution Output`)},
		{FieldSolution, regexp.MustCompile(`(?s)\d\.\d+\.\d Solution Output.*?part\d\dtest\d\d\.solution(.+?)\d\.\d+\.\d stderr`)},
		{FieldError, regexp.MustCompile(`(?s)\d\.\d+\.\d stderr.*?part\d\dtest\d\d\.err(.*?)\d\.\d+`)},
	}
)

// Parse splits the full report text into one Record per test, in document
// order.
func Parse(fullText string) ([]Record, error) {
	_, body, found := strings.Cut(fullText, TOCMarker)
	if !found {
		return nil, fmt.Errorf("%w: table of contents marker %q not found", ErrStructuralMismatch, TOCMarker)
	}

	if err := checkCounts(body); err != nil {
		return nil, err
	}

	headers := headerPattern.FindAllStringSubmatchIndex(body, -1)
	records := make([]Record, 0, len(headers))
	for i, header := range headers {
		end := len(body)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		rec, err := parseBlock(body, header, end)
		if err != nil {
			var countErr *ExtractionCountMismatchError
			if errors.As(err, &countErr) {
				countErr.Record = i
			}
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// checkCounts runs every landmark scan over the whole body and fails if
// they disagree on how many tests there are.
func checkCounts(body string) error {
	counts := make([]FieldCount, 0, len(sectionPatterns)+1)
	counts = append(counts, FieldCount{FieldDiff, len(headerPattern.FindAllStringIndex(body, -1))})
	for _, s := range sectionPatterns {
		counts = append(counts, FieldCount{s.field, len(s.pattern.FindAllStringIndex(body, -1))})
	}

	for _, c := range counts[1:] {
		if c.Count != counts[0].Count {
			return &ExtractionCountMismatchError{Counts: counts}
		}
	}
	return nil
}

// parseBlock assembles one record from body[header[0]:end]. Sections are
// consumed in order; each search starts where the previous capture ended
// and must finish before the next test's header.
func parseBlock(body string, header []int, end int) (Record, error) {
	section, _ := strconv.Atoi(body[header[2]:header[3]])
	test, _ := strconv.Atoi(body[header[4]:header[5]])
	rec := Record{
		SectionNumber: section,
		TestNumber:    test,
		Diff:          strings.TrimSpace(body[header[6]:header[7]]),
	}

	cursor := header[7]
	for _, s := range sectionPatterns {
		loc := s.pattern.FindStringSubmatchIndex(body[cursor:end])
		if loc == nil {
			return Record{}, &ExtractionCountMismatchError{Field: s.field}
		}
		captured := body[cursor+loc[2] : cursor+loc[3]]
		cursor += loc[3]

		switch s.field {
		case FieldMoves:
			rec.Moves = grid.StripAffixNumbers(strings.TrimSpace(captured))
		case FieldMaze:
			rec.Maze = grid.Normalize(decodeMaze(strings.TrimSpace(captured)))
		case FieldSubmission:
			rec.Submission = grid.Normalize(captured)
		case FieldSolution:
			rec.Solution = grid.Normalize(captured)
		case FieldError:
			rec.Error = cleanError(captured)
		}
	}

	rec.IsEmpty = rec.Diff == "" && rec.Error == ""
	return rec, nil
}

// decodeMaze removes the comma separators between maze cells.
func decodeMaze(raw string) string {
	return strings.ReplaceAll(raw, ",", "")
}

// cleanError drops stderr captures that are only a stray page number.
func cleanError(raw string) string {
	trimmed := strings.TrimSpace(raw)
	for _, r := range trimmed {
		if !unicode.IsDigit(r) && !unicode.IsSpace(r) {
			return trimmed
		}
	}
	return ""
}

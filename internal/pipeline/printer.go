package pipeline

import (
	"fmt"
	"io"

	"github.com/zinc-sig/gridiff/internal/output"
	"github.com/zinc-sig/gridiff/internal/report"
)

// PrintRecordLine prints the pass/fail line of one test.
func PrintRecordLine(w io.Writer, o report.Outcome) {
	r := o.Record
	if r.Passed() {
		fmt.Fprintf(w, "%2d Test %2d Passed.\n", r.SectionNumber, r.TestNumber)
		return
	}

	reason := "output differs"
	switch {
	case r.Error != "" && r.Diff == "":
		reason = "stderr output"
	case o.DiffErr != nil:
		reason = "output differs (no 2D diff)"
	}
	fmt.Fprintf(w, "%2d Test %2d Failed: %s\n", r.SectionNumber, r.TestNumber, reason)
}

// PrintSummary prints the aggregate pass rate.
func PrintSummary(w io.Writer, s *output.Summary) {
	fmt.Fprintf(w, "Passed %d / %d = %s %%\n", s.Passed, s.Total, s.PassRate.StringFixed(2))
}

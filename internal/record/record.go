package record

import "fmt"

// Record is the grading outcome of one test, as recovered from the report.
type Record struct {
	// IsEmpty is true when the test produced neither a diff nor stderr
	// output, meaning it passed.
	IsEmpty       bool   `json:"is_empty"`
	SectionNumber int    `json:"section"`
	TestNumber    int    `json:"test"`
	Diff          string `json:"diff"`
	// Submission is the student's output grid. Empty when execution failed
	// before any output was captured.
	Submission string `json:"submission"`
	Solution   string `json:"solution"`
	Error      string `json:"error"`
	// Maze is the input grid the test was run against.
	Maze  string `json:"maze"`
	Moves string `json:"moves"`
}

// Name returns the report file stem of the record, e.g. part01test07.
func (r Record) Name() string {
	return fmt.Sprintf("part%02dtest%02d", r.SectionNumber, r.TestNumber)
}

// Passed reports whether the test passed.
func (r Record) Passed() bool {
	return r.IsEmpty
}

// HasSubmission reports whether there is submission output to diff against
// the solution.
func (r Record) HasSubmission() bool {
	return r.Submission != ""
}

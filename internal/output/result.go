package output

import "github.com/shopspring/decimal"

// Status of a single test in the summary.
type Status string

const (
	StatusPassed Status = "passed"
	StatusFailed Status = "failed"
)

// TestResult is the summary line of one test.
type TestResult struct {
	Name       string `json:"name"`
	Section    int    `json:"section"`
	Test       int    `json:"test"`
	Status     Status `json:"status"`
	HasError   bool   `json:"has_error,omitempty"`
	Diffed     bool   `json:"diffed,omitempty"`
	DiffError  string `json:"diff_error,omitempty"`
	Report     string `json:"report,omitempty"`
	UploadedTo string `json:"uploaded_to,omitempty"`
}

type Summary struct {
	Source   string          `json:"source"`
	Tests    []TestResult    `json:"tests"`
	Passed   int             `json:"passed"`
	Total    int             `json:"total"`
	PassRate decimal.Decimal `json:"pass_rate"` // percent
	Context  any             `json:"context,omitempty"`

	// Webhook status (only in local output, not sent to webhook)
	WebhookSent  bool   `json:"webhook_sent,omitempty"`
	WebhookError string `json:"webhook_error,omitempty"`
}

// PassRate returns passed/total as a percentage rounded to two places.
// An empty run has a pass rate of zero.
func PassRate(passed, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(passed)).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(int64(total)), 2)
}

// Add appends t and updates the totals.
func (s *Summary) Add(t TestResult) {
	s.Tests = append(s.Tests, t)
	s.Total++
	if t.Status == StatusPassed {
		s.Passed++
	}
	s.PassRate = PassRate(s.Passed, s.Total)
}

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/zinc-sig/gridiff/internal/output"
	"github.com/zinc-sig/gridiff/internal/source"
)

// reportText renders a two test report: test 1 passes, test 2 has the
// player one cell off.
func reportText() string {
	var sb strings.Builder
	sb.WriteString("Grading Report\nContents\n1 Overview 1\nChapter 2 Test Results\n")
	tests := []struct {
		diff, submission string
	}{
		{"", "####\n#.@#\n####"},
		{"2c2 < #@.# --- > #.@#", "####\n#@.#\n####"},
	}
	for i, tc := range tests {
		h := i + 1
		name := fmt.Sprintf("part01test%02d", h)
		fmt.Fprintf(&sb, "2.%d.1 Diff\n%s.diff\n%s\n", h, name, tc.diff)
		fmt.Fprintf(&sb, "2.%d.2 Input File\n%s.moves.emf\nddss\n", h, name)
		fmt.Fprintf(&sb, "%s.maze.emf\n#,#,#,#\n#,.,@,#\n#,#,#,#\n", name)
		fmt.Fprintf(&sb, "2.%d.3 Submission Output\n%s.output\n%s\n", h, name, tc.submission)
		fmt.Fprintf(&sb, "2.%d.4 Solution Output\n%s.solution\n####\n#.@#\n####\n", h, name)
		fmt.Fprintf(&sb, "2.%d.5 stderr\n%s.err\n\n", h, name)
	}
	sb.WriteString("2.99 End\n")
	return sb.String()
}

func TestParseCommand(t *testing.T) {
	tmpDir := t.TempDir()
	input := writeFile(t, tmpDir, "report.txt", reportText())
	outDir := filepath.Join(tmpDir, "out")

	out, err := execute(t, newParseCmd(), "--out", outDir, input)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := " 1 Test  1 Passed.\n 1 Test  2 Failed: output differs\nPassed 1 / 2 = 50.00 %\n"
	if out != want {
		t.Errorf("Unexpected output:\n%q\nwant:\n%q", out, want)
	}

	if _, err := os.Stat(filepath.Join(outDir, "part01test01.txt")); !os.IsNotExist(err) {
		t.Error("Expected no report for the passing test")
	}
	data, err := os.ReadFile(filepath.Join(outDir, "part01test02.txt"))
	if err != nil {
		t.Fatalf("Expected report for failing test: %v", err)
	}
	if !strings.Contains(string(data), "Expected:\n####\n#.@#\n####") {
		t.Errorf("Expected the 2D diff in the report, got:\n%s", data)
	}
}

func TestParseCommandJSON(t *testing.T) {
	tmpDir := t.TempDir()
	input := writeFile(t, tmpDir, "report.txt", reportText())

	out, err := execute(t, newParseCmd(),
		"--out", filepath.Join(tmpDir, "out"),
		"--json",
		"--context-kv", "student=s1234",
		"--context-kv", "attempt=2",
		input,
	)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var summary output.Summary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("stdout is not a JSON summary: %v\n%s", err, out)
	}
	if summary.Passed != 1 || summary.Total != 2 {
		t.Errorf("Expected 1/2, got %d/%d", summary.Passed, summary.Total)
	}
	if summary.PassRate.StringFixed(2) != "50.00" {
		t.Errorf("Expected pass rate 50.00, got %s", summary.PassRate)
	}
	ctx, ok := summary.Context.(map[string]any)
	if !ok || ctx["student"] != "s1234" || ctx["attempt"] != float64(2) {
		t.Errorf("Unexpected context: %#v", summary.Context)
	}
}

func TestParseCommandWebhook(t *testing.T) {
	var received atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("Expected bearer auth header, got %q", r.Header.Get("Authorization"))
		}
		body, _ := io.ReadAll(r.Body)
		received.Store(string(body))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	tmpDir := t.TempDir()
	input := writeFile(t, tmpDir, "report.txt", reportText())

	out, err := execute(t, newParseCmd(),
		"--out", filepath.Join(tmpDir, "out"),
		"--json",
		"--webhook-url", server.URL,
		"--webhook-auth-type", "bearer",
		"--webhook-auth-token", "secret",
		input,
	)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var summary output.Summary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("Failed to parse summary: %v", err)
	}
	if !summary.WebhookSent {
		t.Errorf("Expected webhook_sent, got error %q", summary.WebhookError)
	}

	body, _ := received.Load().(string)
	if body == "" {
		t.Fatal("Webhook received no payload")
	}
	if strings.Contains(body, "webhook_sent") {
		t.Error("Delivery status must not be part of the webhook payload")
	}
	var payload output.Summary
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("Webhook payload is not a summary: %v", err)
	}
	if payload.Total != 2 {
		t.Errorf("Expected 2 tests in payload, got %d", payload.Total)
	}
}

func TestParseCommandWebhookFailureDoesNotFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	tmpDir := t.TempDir()
	input := writeFile(t, tmpDir, "report.txt", reportText())

	out, err := execute(t, newParseCmd(),
		"--out", filepath.Join(tmpDir, "out"),
		"--json",
		"--webhook-url", server.URL,
		input,
	)
	if err != nil {
		t.Fatalf("Webhook failure should not fail the command: %v", err)
	}

	var summary output.Summary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("Failed to parse summary: %v", err)
	}
	if summary.WebhookSent {
		t.Error("Expected webhook_sent to be false")
	}
	if !strings.Contains(summary.WebhookError, "status 400") {
		t.Errorf("Expected webhook error with status 400, got %q", summary.WebhookError)
	}
}

func TestParseCommandErrors(t *testing.T) {
	tmpDir := t.TempDir()
	good := writeFile(t, tmpDir, "report.txt", reportText())
	noTOC := writeFile(t, tmpDir, "plain.txt", "just some text")

	tests := []struct {
		name    string
		args    []string
		wantMsg string
		wantIs  error
	}{
		{name: "missing document", args: []string{filepath.Join(tmpDir, "missing.txt")}, wantIs: source.ErrSourceUnavailable},
		{name: "no table of contents", args: []string{noTOC}, wantMsg: "structural mismatch"},
		{name: "bad layout", args: []string{"--layout", "diagonal", good}, wantMsg: "unknown layout"},
		{name: "bad source kind", args: []string{"--source", "fax", good}, wantMsg: "unknown source kind"},
		{name: "unknown upload provider", args: []string{"--upload-provider", "ftp", good}, wantMsg: "unknown upload provider"},
		{name: "bad webhook timeout", args: []string{"--webhook-url", "http://localhost", "--webhook-timeout", "soon", good}, wantMsg: "invalid webhook timeout"},
		{name: "bad context JSON", args: []string{"--context", "{", good}, wantMsg: "failed to build context"},
		{name: "no arguments", args: []string{}, wantMsg: "accepts 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--out", filepath.Join(tmpDir, "out")}, tt.args...)
			_, err := execute(t, newParseCmd(), args...)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("Expected error wrapping %v, got %v", tt.wantIs, err)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Expected error containing %q, got %v", tt.wantMsg, err)
			}
		})
	}
}

// File: internal/reporting/reporter.go

// Package reporting renders the human-readable validation report. The lines
// it writes are part of the process contract (stdout, one line per outcome,
// a summary banner, exit code 0 or 1), so they go to the writer raw rather
// than through the structured logger.
package reporting

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ttboy0/ElectricMind/internal/validator"
)

const bannerWidth = 60

// Reporter writes run progress and validation outcomes for humans.
type Reporter interface {
	// Header announces the run: target URL and browser kind.
	Header(url, browserKind string)
	// Step announces a pipeline stage.
	Step(n int, title string)
	// Outcome writes one line for a single validation attempt.
	Outcome(o validator.Outcome)
	// Summary writes the final pass/fail banner.
	Summary(outcomes []validator.Outcome)
	// Error writes an explanation line for a fatal error. The process never
	// exits non-zero without one of these.
	Error(msg string)
	// Close finalizes the report and releases the underlying writer.
	Close() error
}

// nopWriteCloser wraps an io.Writer and provides a no-op Close method.
type nopWriteCloser struct {
	io.Writer
}

func (nwc *nopWriteCloser) Close() error { return nil }

// New creates a reporter writing to outputPath. Empty or "stdout" writes to
// standard output.
func New(outputPath string) (Reporter, error) {
	if outputPath == "" || outputPath == "stdout" {
		return NewWithWriter(&nopWriteCloser{os.Stdout}), nil
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create report file %s: %w", outputPath, err)
	}
	return NewWithWriter(f), nil
}

// NewWithWriter creates a reporter over an arbitrary writer. Tests pass a
// buffer here. If w implements io.Closer, Close closes it.
func NewWithWriter(w io.Writer) Reporter {
	return &consoleReporter{w: w}
}

type consoleReporter struct {
	w io.Writer
}

func (r *consoleReporter) Header(url, browserKind string) {
	rule := strings.Repeat("=", bannerWidth)
	fmt.Fprintln(r.w, "Starting Electric Mind page validation")
	fmt.Fprintln(r.w, rule)
	fmt.Fprintf(r.w, "Target URL: %s\n", url)
	fmt.Fprintf(r.w, "Browser: %s\n", browserKind)
	fmt.Fprintln(r.w, rule)
}

func (r *consoleReporter) Step(n int, title string) {
	fmt.Fprintf(r.w, "\nStep %d: %s\n", n, title)
}

func (r *consoleReporter) Outcome(o validator.Outcome) {
	if o.Passed {
		fmt.Fprintf(r.w, "[PASS] %s: locator=%q text=%q\n",
			o.Spec.Description, o.Spec.Locator, o.ActualText)
		return
	}

	switch o.Reason {
	case validator.ReasonTextMismatch:
		fmt.Fprintf(r.w, "[FAIL] %s: locator=%q expected %q got %q (%s)\n",
			o.Spec.Description, o.Spec.Locator, o.Spec.ExpectedText, o.ActualText, o.Reason)
	case validator.ReasonNotFound, validator.ReasonNotVisible:
		fmt.Fprintf(r.w, "[FAIL] %s: locator=%q expected %q (%s)\n",
			o.Spec.Description, o.Spec.Locator, o.Spec.ExpectedText, o.Reason)
	default:
		fmt.Fprintf(r.w, "[FAIL] %s: locator=%q error: %s\n",
			o.Spec.Description, o.Spec.Locator, o.Reason)
	}
}

func (r *consoleReporter) Summary(outcomes []validator.Outcome) {
	failed := 0
	for _, o := range outcomes {
		if !o.Passed {
			failed++
		}
	}

	rule := strings.Repeat("=", bannerWidth)
	fmt.Fprintln(r.w, rule)
	if failed == 0 {
		fmt.Fprintf(r.w, "PASSED: All %d elements validated successfully.\n", len(outcomes))
	} else {
		fmt.Fprintf(r.w, "FAILED: %d of %d element validations failed.\n", failed, len(outcomes))
	}
	fmt.Fprintln(r.w, rule)
}

func (r *consoleReporter) Error(msg string) {
	fmt.Fprintf(r.w, "\nCRITICAL ERROR: %s\n", msg)
}

func (r *consoleReporter) Close() error {
	if c, ok := r.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// ExitCode maps a run's result to the process exit code: 0 iff the run had
// no fatal error and every outcome passed.
func ExitCode(outcomes []validator.Outcome, runErr error) int {
	if runErr != nil {
		return 1
	}
	if !validator.AllPassed(outcomes) {
		return 1
	}
	return 0
}

// File: internal/runner/runner_test.go
package runner_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/ttboy0/ElectricMind/internal/browser"
	"github.com/ttboy0/ElectricMind/internal/config"
	"github.com/ttboy0/ElectricMind/internal/reporting"
	"github.com/ttboy0/ElectricMind/internal/runner"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeSession records lifecycle calls and serves canned element states.
type fakeSession struct {
	openErr   error
	states    map[string]browser.ElementState
	probeErr  error
	panicMsg  string
	opened    int
	teardowns int
}

func (f *fakeSession) Open(context.Context, string) error {
	f.opened++
	return f.openErr
}

func (f *fakeSession) Probe(_ context.Context, locator string) (browser.ElementState, error) {
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.probeErr != nil {
		return browser.ElementState{}, f.probeErr
	}
	return f.states[locator], nil
}

func (f *fakeSession) Teardown() {
	f.teardowns++
}

const locatorDoc = `
elements:
  what_we_do:
    locator: "#what-we-do"
    expected_text: "What We Do"
  contact:
    locator: "#contact"
    expected_text: "Contact"
`

func newTestRunner(t *testing.T, sess *fakeSession, locatorYAML string) (*runner.Runner, *bytes.Buffer) {
	t.Helper()

	cfg := config.NewDefaultConfig()
	if locatorYAML != "" {
		path := filepath.Join(t.TempDir(), "locator.yaml")
		require.NoError(t, os.WriteFile(path, []byte(locatorYAML), 0o644))
		cfg.Locators.File = path
	} else {
		cfg.Locators.File = filepath.Join(t.TempDir(), "missing.yaml")
	}

	var buf bytes.Buffer
	r := runner.New(cfg, zap.NewNop(), reporting.NewWithWriter(&buf))
	r.NewSession = func(*config.Config, *zap.Logger) runner.Session { return sess }
	return r, &buf
}

func TestRun_AllPass(t *testing.T) {
	sess := &fakeSession{states: map[string]browser.ElementState{
		"#what-we-do": {Found: true, Visible: true, Text: "What We Do"},
		"#contact":    {Found: true, Visible: true, Text: "Contact"},
	}}
	r, buf := newTestRunner(t, sess, locatorDoc)

	code := r.Run(context.Background())

	assert.Equal(t, 0, code)
	assert.Equal(t, 1, sess.opened)
	assert.Equal(t, 1, sess.teardowns, "teardown must run exactly once")

	out := buf.String()
	assert.Contains(t, out, "PASSED: All 2 elements validated successfully.")
	assert.Contains(t, out, "Step 4: Cleaning up resources")
}

// A single mismatching element fails the run but the other element's outcome
// is still computed and reported.
func TestRun_SingleMismatchFailsRun(t *testing.T) {
	sess := &fakeSession{states: map[string]browser.ElementState{
		"#what-we-do": {Found: true, Visible: true, Text: "What We Do"},
		"#contact":    {Found: true, Visible: true, Text: "Contact Us"},
	}}
	r, buf := newTestRunner(t, sess, locatorDoc)

	code := r.Run(context.Background())

	assert.Equal(t, 1, code)
	assert.Equal(t, 1, sess.teardowns)

	out := buf.String()
	assert.Contains(t, out, "[PASS] what_we_do")
	assert.Contains(t, out, "[FAIL] contact")
	assert.Contains(t, out, "FAILED: 1 of 2 element validations failed.")
}

func TestRun_OpenFailure(t *testing.T) {
	sess := &fakeSession{openErr: errors.New("navigation failed: timeout")}
	r, buf := newTestRunner(t, sess, locatorDoc)

	code := r.Run(context.Background())

	assert.Equal(t, 1, code)
	assert.Equal(t, 1, sess.teardowns, "teardown runs even when opening fails")

	out := buf.String()
	assert.Contains(t, out, "CRITICAL ERROR: navigation failed: timeout")
	assert.Contains(t, out, "Step 4: Cleaning up resources")
	assert.NotContains(t, out, "Step 2")
}

func TestRun_MissingLocatorFile(t *testing.T) {
	sess := &fakeSession{}
	r, buf := newTestRunner(t, sess, "")

	code := r.Run(context.Background())

	assert.Equal(t, 1, code)
	assert.Equal(t, 1, sess.teardowns)
	assert.Contains(t, buf.String(), "CRITICAL ERROR:")
}

func TestRun_PanicIsAbsorbed(t *testing.T) {
	sess := &fakeSession{panicMsg: "cdp connection lost"}
	r, buf := newTestRunner(t, sess, locatorDoc)

	code := r.Run(context.Background())

	assert.Equal(t, 1, code)
	assert.Equal(t, 1, sess.teardowns, "teardown runs even on panic")
	assert.Contains(t, buf.String(), "CRITICAL ERROR: unexpected error: cdp connection lost")
}

func TestRun_TeardownOnceOnSuccessAndFailure(t *testing.T) {
	for name, sess := range map[string]*fakeSession{
		"success": {states: map[string]browser.ElementState{
			"#what-we-do": {Found: true, Visible: true, Text: "What We Do"},
			"#contact":    {Found: true, Visible: true, Text: "Contact"},
		}},
		"probe error": {probeErr: errors.New("boom")},
	} {
		t.Run(name, func(t *testing.T) {
			r, _ := newTestRunner(t, sess, locatorDoc)
			r.Run(context.Background())
			assert.Equal(t, 1, sess.teardowns)
		})
	}
}

// File: internal/browser/options.go
package browser

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/chromedp/chromedp"

	"github.com/ttboy0/ElectricMind/internal/config"
)

// execCandidates lists the executables tried for each recognized browser
// kind, in order. The chromium kind falls through to chromedp's own lookup
// when none of these resolve; the other kinds must be driven through a
// CDP-capable binary found on PATH.
var execCandidates = map[config.BrowserKind][]string{
	config.BrowserChromium: {"chromium", "chromium-browser", "google-chrome", "chrome"},
	config.BrowserFirefox:  {"firefox", "firefox-esr"},
	config.BrowserWebKit:   {"playwright-webkit", "MiniBrowser"},
}

// resolveExecPath maps a recognized browser kind to a local executable.
// A recognized kind whose binary is missing is a launch failure, not an
// unsupported-browser error; the name had already passed validation.
func resolveExecPath(kind config.BrowserKind) (string, error) {
	for _, name := range execCandidates[kind] {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	if kind == config.BrowserChromium {
		// Let chromedp locate a Chrome-family binary itself.
		return "", nil
	}
	return "", fmt.Errorf("no %s executable found in PATH (tried %s)",
		kind, strings.Join(execCandidates[kind], ", "))
}

// allocatorOptions translates the application config into chromedp exec
// allocator options.
func allocatorOptions(cfg *config.Config, execPath string) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		// Required on hardened systems where the sandbox cannot start.
		chromedp.NoSandbox,
		// Recommended for stability in containers and headless environments.
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(cfg.Browser.Viewport.Width, cfg.Browser.Viewport.Height),
	)

	if execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}

	if cfg.Browser.Headless {
		opts = append(opts, chromedp.Headless)
	} else {
		// DefaultExecAllocatorOptions force headless; undo that so the run
		// is visible, the way the original automation launches.
		opts = append(opts, chromedp.Flag("headless", false))
	}

	// Additional flags from the config file's 'args' slice.
	for _, arg := range cfg.Browser.Args {
		if !strings.Contains(arg, "=") {
			opts = append(opts, chromedp.Flag(strings.TrimPrefix(arg, "--"), true))
			continue
		}
		parts := strings.SplitN(arg, "=", 2)
		opts = append(opts, chromedp.Flag(strings.TrimPrefix(parts[0], "--"), parts[1]))
	}
	return opts
}

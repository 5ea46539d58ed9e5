// File: internal/browser/probe.go
package browser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ElementState is the result of resolving a locator against the live page.
type ElementState struct {
	Found   bool   `json:"found"`
	Visible bool   `json:"visible"`
	Text    string `json:"text"`
}

// hasTextRe matches a locator of the form `css:has-text('needle')` with
// either quote style. Only a single trailing :has-text() is supported; that
// is the whole grammar the locator file contract uses. The quote styles are
// spelled out as alternatives because RE2 has no backreferences, so exactly
// one of the two needle groups matches.
var hasTextRe = regexp.MustCompile(`^(.+):has-text\(\s*(?:'(.*)'|"(.*)")\s*\)$`)

// textEqRe matches the bare `text='needle'` locator form.
var textEqRe = regexp.MustCompile(`^text=(?:'(.*)'|"(.*)")$`)

// parseLocator splits a locator expression into a CSS selector and an
// optional contained-text filter.
func parseLocator(locator string) (css, needle string, filtered bool, err error) {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return "", "", false, fmt.Errorf("empty locator")
	}
	// Only one quote alternative can match, so the unmatched group is empty
	// and concatenation yields the captured needle.
	if m := textEqRe.FindStringSubmatch(locator); m != nil {
		return "*", m[1] + m[2], true, nil
	}
	if m := hasTextRe.FindStringSubmatch(locator); m != nil {
		return m[1], m[2] + m[3], true, nil
	}
	return locator, "", false, nil
}

// buildProbeScript renders the JS expression that resolves the first element
// matching the locator and reports its state. Matching happens inside the
// page so visibility reflects the rendered layout. Visibility means a
// non-empty box that is not hidden via display, visibility or opacity.
func buildProbeScript(locator string) (string, error) {
	css, needle, filtered, err := parseLocator(locator)
	if err != nil {
		return "", err
	}

	cssJSON, err := json.Marshal(css)
	if err != nil {
		return "", fmt.Errorf("encoding selector: %w", err)
	}
	needleJSON := []byte("null")
	if filtered {
		if needleJSON, err = json.Marshal(needle); err != nil {
			return "", fmt.Errorf("encoding text filter: %w", err)
		}
	}

	return fmt.Sprintf(`(() => {
    const sel = %s;
    const needle = %s;
    let el = null;
    if (needle === null) {
        el = document.querySelector(sel);
    } else {
        for (const n of document.querySelectorAll(sel)) {
            if ((n.textContent || '').includes(needle)) { el = n; break; }
        }
    }
    if (!el) {
        return {found: false, visible: false, text: ''};
    }
    const style = window.getComputedStyle(el);
    const rect = el.getBoundingClientRect();
    const visible = rect.width > 0 && rect.height > 0 &&
        style.display !== 'none' &&
        style.visibility !== 'hidden' &&
        style.opacity !== '0';
    return {found: true, visible: visible, text: (el.textContent || '').trim()};
})()`, cssJSON, needleJSON), nil
}

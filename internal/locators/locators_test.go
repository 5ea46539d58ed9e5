// File: internal/locators/locators_test.go
package locators_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ttboy0/ElectricMind/internal/locators"
)

const validSpec = `
elements:
  what_we_do:
    locator: "div:has-text('What We Do')"
    expected_text: "What We Do"
    description: "What We Do heading"
  contact:
    locator: "a:has-text('Contact')"
    expected_text: "Contact"
`

func TestLoad_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locator.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validSpec), 0o644))

	specs, err := locators.Load(path)
	require.NoError(t, err)

	want := []locators.ElementSpec{
		{
			Name:         "what_we_do",
			Locator:      "div:has-text('What We Do')",
			ExpectedText: "What We Do",
			Description:  "What We Do heading",
		},
		{
			Name:         "contact",
			Locator:      "a:has-text('Contact')",
			ExpectedText: "Contact",
			// Description defaults to the element name.
			Description: "contact",
		},
	}
	if diff := cmp.Diff(want, specs); diff != "" {
		t.Fatalf("specs mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_PreservesDeclaredOrder(t *testing.T) {
	doc := `
elements:
  zeta: {locator: "#z", expected_text: "Z"}
  alpha: {locator: "#a", expected_text: "A"}
  mu: {locator: "#m", expected_text: "M"}
`
	specs, err := locators.Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, specs, 3)

	names := []string{specs[0].Name, specs[1].Name, specs[2].Name}
	assert.Equal(t, []string{"zeta", "alpha", "mu"}, names)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := locators.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, locators.ErrSpecFile)
}

func TestParse_Failures(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed yaml", "elements: [::"},
		{"empty document", ""},
		{"top level not mapping", "- a\n- b"},
		{"missing elements key", "locators:\n  x: {locator: '#x', expected_text: 'X'}"},
		{"elements not mapping", "elements: [1, 2]"},
		{"missing locator", "elements:\n  x: {expected_text: 'X'}"},
		{"missing expected_text", "elements:\n  x: {locator: '#x'}"},
		{"duplicate names", "elements:\n  x: {locator: '#x', expected_text: 'X'}\n  x: {locator: '#y', expected_text: 'Y'}"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := locators.Parse([]byte(tc.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, locators.ErrSpecFile)
		})
	}
}

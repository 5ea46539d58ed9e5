// File: internal/locators/locators.go

// Package locators loads the declarative element spec file that drives a
// validation run. The file format is a fixed contract shared with the
// sibling implementations: a top-level `elements` mapping of element name to
// locator, expected_text and optional description.
package locators

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrSpecFile is returned when the element spec file is missing, malformed,
// or lacks the required top-level `elements` key. It is fatal for the run.
var ErrSpecFile = errors.New("element spec file error")

// ElementSpec is one declarative element check. Loaded once from the spec
// file and immutable for the run.
type ElementSpec struct {
	// Name is the unique key of the entry in the `elements` mapping.
	Name string
	// Locator is the query expression resolved against the live page.
	Locator string `yaml:"locator"`
	// ExpectedText is compared for exact equality against the element's
	// trimmed text content.
	ExpectedText string `yaml:"expected_text"`
	// Description defaults to Name when the file omits it.
	Description string `yaml:"description"`
}

// Load reads and parses the spec file once, returning the element specs in
// the file's declared order. All failure modes wrap ErrSpecFile.
func Load(path string) ([]ElementSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrSpecFile, path, err)
	}
	return Parse(data)
}

// Parse decodes the spec document. It goes through yaml.Node rather than a
// map so the report order matches the file's declared order.
func Parse(data []byte) ([]ElementSpec, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: malformed YAML: %v", ErrSpecFile, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: document is empty", ErrSpecFile)
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be a mapping", ErrSpecFile)
	}

	elements := mappingValue(root, "elements")
	if elements == nil {
		return nil, fmt.Errorf("%w: missing required top-level key %q", ErrSpecFile, "elements")
	}
	if elements.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %q must be a mapping of element name to spec", ErrSpecFile, "elements")
	}

	specs := make([]ElementSpec, 0, len(elements.Content)/2)
	seen := make(map[string]bool)
	for i := 0; i+1 < len(elements.Content); i += 2 {
		keyNode, valNode := elements.Content[i], elements.Content[i+1]

		name := keyNode.Value
		if seen[name] {
			return nil, fmt.Errorf("%w: duplicate element name %q", ErrSpecFile, name)
		}
		seen[name] = true

		var spec ElementSpec
		if err := valNode.Decode(&spec); err != nil {
			return nil, fmt.Errorf("%w: element %q: %v", ErrSpecFile, name, err)
		}
		spec.Name = name
		if spec.Locator == "" {
			return nil, fmt.Errorf("%w: element %q is missing %q", ErrSpecFile, name, "locator")
		}
		if spec.ExpectedText == "" {
			return nil, fmt.Errorf("%w: element %q is missing %q", ErrSpecFile, name, "expected_text")
		}
		if spec.Description == "" {
			spec.Description = name
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// mappingValue returns the value node for key in a mapping node, or nil.
func mappingValue(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// File: internal/validator/validator.go

// Package validator runs the declared element checks against the live page
// and aggregates their outcomes. One element's failure never aborts the
// remaining checks: the point of a run is a complete report of everything
// broken, not a fast first failure.
package validator

import (
	"context"

	"go.uber.org/zap"

	"github.com/ttboy0/ElectricMind/internal/browser"
	"github.com/ttboy0/ElectricMind/internal/locators"
)

// Failure reasons recorded on outcomes.
const (
	ReasonNotFound     = "not found"
	ReasonNotVisible   = "not visible"
	ReasonTextMismatch = "text mismatch"
)

// ElementProber resolves a locator against the current page. Implemented by
// *browser.Session; tests substitute fakes.
type ElementProber interface {
	Probe(ctx context.Context, locator string) (browser.ElementState, error)
}

// Outcome records one element check. Outcomes are aggregated in memory for
// the final report and never persisted.
type Outcome struct {
	Spec       locators.ElementSpec
	Found      bool
	Visible    bool
	ActualText string
	Passed     bool
	// Reason explains a failure: one of the Reason constants or the text of
	// the probe error. Empty on success.
	Reason string
}

// Validator checks element specs against a page.
type Validator struct {
	logger *zap.Logger
}

// New creates a Validator.
func New(logger *zap.Logger) *Validator {
	return &Validator{logger: logger.Named("validator")}
}

// Run evaluates every spec in declared order and returns one outcome per
// spec. A probe error for one element is recorded on its outcome and the
// loop continues.
func (v *Validator) Run(ctx context.Context, prober ElementProber, specs []locators.ElementSpec) []Outcome {
	outcomes := make([]Outcome, 0, len(specs))
	for _, spec := range specs {
		outcome := v.check(ctx, prober, spec)
		if outcome.Passed {
			v.logger.Info("Element validated.", zap.String("element", spec.Name))
		} else {
			v.logger.Warn("Element validation failed.",
				zap.String("element", spec.Name),
				zap.String("reason", outcome.Reason),
			)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

func (v *Validator) check(ctx context.Context, prober ElementProber, spec locators.ElementSpec) Outcome {
	outcome := Outcome{Spec: spec}

	state, err := prober.Probe(ctx, spec.Locator)
	if err != nil {
		outcome.Reason = err.Error()
		return outcome
	}

	outcome.Found = state.Found
	if !state.Found {
		outcome.Reason = ReasonNotFound
		return outcome
	}

	outcome.Visible = state.Visible
	if !state.Visible {
		outcome.Reason = ReasonNotVisible
		return outcome
	}

	outcome.ActualText = state.Text
	if state.Text != spec.ExpectedText {
		outcome.Reason = ReasonTextMismatch
		return outcome
	}

	outcome.Passed = true
	return outcome
}

// AllPassed reports whether every outcome passed.
func AllPassed(outcomes []Outcome) bool {
	for _, o := range outcomes {
		if !o.Passed {
			return false
		}
	}
	return true
}

// File: internal/runner/runner.go

// Package runner drives the whole-run pipeline: open session, validate
// elements, report, teardown. The flow is strictly linear; a fatal error in
// any stage skips the remaining stages but still tears the session down,
// exactly once, before the exit code is decided.
package runner

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ttboy0/ElectricMind/internal/browser"
	"github.com/ttboy0/ElectricMind/internal/config"
	"github.com/ttboy0/ElectricMind/internal/locators"
	"github.com/ttboy0/ElectricMind/internal/reporting"
	"github.com/ttboy0/ElectricMind/internal/validator"
)

// Session is the slice of *browser.Session the runner depends on. Tests
// substitute fakes to exercise the pipeline without a browser.
type Session interface {
	Open(ctx context.Context, url string) error
	Probe(ctx context.Context, locator string) (browser.ElementState, error)
	Teardown()
}

// Runner owns one validation run.
type Runner struct {
	cfg      *config.Config
	logger   *zap.Logger
	reporter reporting.Reporter

	// NewSession builds the run's browser session. Overridable in tests.
	NewSession func(*config.Config, *zap.Logger) Session
}

// New creates a Runner wired to the real browser session.
func New(cfg *config.Config, logger *zap.Logger, reporter reporting.Reporter) *Runner {
	return &Runner{
		cfg:      cfg,
		logger:   logger.Named("runner"),
		reporter: reporter,
		NewSession: func(cfg *config.Config, logger *zap.Logger) Session {
			return browser.NewSession(cfg, logger)
		},
	}
}

// Run executes the pipeline and returns the process exit code: 0 iff every
// element validated, 1 on any failure or fatal error. Every non-zero exit
// is preceded by an explanation line on the report.
func (r *Runner) Run(ctx context.Context) int {
	r.reporter.Header(r.cfg.Target.URL, r.cfg.Browser.Kind)

	outcomes, runErr := r.execute(ctx)
	return reporting.ExitCode(outcomes, runErr)
}

// execute runs the stages between header and exit-code decision. The single
// deferred block absorbs panics into the returned error, writes the
// explanation line for any fatal error, and tears the session down exactly
// once on every path out of this function.
func (r *Runner) execute(ctx context.Context) (outcomes []validator.Outcome, runErr error) {
	sess := r.NewSession(r.cfg, r.logger)

	defer func() {
		if rec := recover(); rec != nil {
			runErr = fmt.Errorf("unexpected error: %v", rec)
		}
		if runErr != nil {
			r.logger.Error("Run failed.", zap.Error(runErr))
			r.reporter.Error(runErr.Error())
		}
		r.reporter.Step(4, "Cleaning up resources")
		sess.Teardown()
	}()

	r.reporter.Step(1, "Opening browser and navigating to URL")
	if err := sess.Open(ctx, r.cfg.Target.URL); err != nil {
		return nil, err
	}

	r.reporter.Step(2, "Validating elements from locator data")
	specs, err := locators.Load(r.cfg.Locators.File)
	if err != nil {
		return nil, err
	}
	r.logger.Info("Loaded element specs.",
		zap.Int("count", len(specs)),
		zap.String("file", r.cfg.Locators.File),
	)

	outcomes = validator.New(r.logger).Run(ctx, sess, specs)
	for _, o := range outcomes {
		r.reporter.Outcome(o)
	}

	r.reporter.Step(3, "Final results")
	r.reporter.Summary(outcomes)
	return outcomes, nil
}

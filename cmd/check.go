// -- cmd/check.go --
package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ttboy0/ElectricMind/internal/config"
	"github.com/ttboy0/ElectricMind/internal/observability"
	"github.com/ttboy0/ElectricMind/internal/reporting"
	"github.com/ttboy0/ElectricMind/internal/runner"
)

// errChecksFailed signals a completed run whose result was failure. The
// report has already explained it, so Execute exits 1 without logging more.
var errChecksFailed = errors.New("element validation failed")

// newCheckCmd creates and configures the `check` command.
func newCheckCmd() *cobra.Command {
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Opens the target page and validates the declared elements",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags onto their viper keys so flags override both the
			// config file and environment variables.
			if err := viper.BindPFlag("target.url", cmd.Flags().Lookup("url")); err != nil {
				return err
			}
			if err := viper.BindPFlag("browser.kind", cmd.Flags().Lookup("browser")); err != nil {
				return err
			}
			if err := viper.BindPFlag("browser.headless", cmd.Flags().Lookup("headless")); err != nil {
				return err
			}
			if err := viper.BindPFlag("network.timeout_ms", cmd.Flags().Lookup("timeout")); err != nil {
				return err
			}
			if err := viper.BindPFlag("locators.file", cmd.Flags().Lookup("locators")); err != nil {
				return err
			}
			return viper.BindPFlag("report.output", cmd.Flags().Lookup("output"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()

			cfg, err := config.NewConfigFromViper(viper.GetViper())
			if err != nil {
				return err
			}

			reporter, err := reporting.New(cfg.Report.Output)
			if err != nil {
				return err
			}
			defer reporter.Close()

			code := runner.New(cfg, logger, reporter).Run(cmd.Context())
			if code != 0 {
				return errChecksFailed
			}
			return nil
		},
	}

	checkCmd.Flags().String("url", "", "target page URL")
	checkCmd.Flags().String("browser", "", "browser kind (chromium, firefox, webkit)")
	checkCmd.Flags().Bool("headless", false, "run the browser without a visible window")
	checkCmd.Flags().Int("timeout", 0, "navigation timeout in milliseconds")
	checkCmd.Flags().String("locators", "", "path to the element locator YAML file")
	checkCmd.Flags().String("output", "", "report destination (default stdout)")

	return checkCmd
}

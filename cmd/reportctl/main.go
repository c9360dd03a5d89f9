// Command reportctl renders reports from JSON payload files.
package main

import (
	"fmt"
	"io"
	"os"

	reportapp "github.com/erp/reporting/internal/application/report"
	"github.com/erp/reporting/internal/infrastructure/config"
	"github.com/erp/reporting/internal/infrastructure/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is the reportctl release
var Version = "1.0.0"

// app holds what every subcommand shares
type app struct {
	verbose  bool
	timezone string
	out      io.Writer
	log      *zap.Logger
	service  *reportapp.ReportService
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}
	root := &cobra.Command{
		Use:   "reportctl",
		Short: "Render financial reports from JSON payloads",
		Long: `reportctl builds financial statements, aging summaries and period presets
from the same JSON payloads the reporting API accepts.

Examples:
  reportctl sections --kind pl --input pl.json
  reportctl sections --kind bs --input bs.json --out ./exports
  reportctl aging --input receivables.json --as-of 2026-05-31
  reportctl presets --reference 2026-05-15`,
		Version:           Version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(out)
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log debug output to stderr")
	root.PersistentFlags().StringVar(&a.timezone, "timezone", "", "IANA time zone used for \"today\" (default: local)")

	root.AddCommand(
		newSectionsCmd(a),
		newAgingCmd(a),
		newPresetsCmd(a),
	)
	return root
}

func (a *app) setup(_ *cobra.Command, _ []string) error {
	cfg := logger.DefaultConfig()
	cfg.Output = "stderr"
	cfg.Level = "warn"
	if a.verbose {
		cfg.Level = "debug"
	}
	log, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.log = log

	loc := config.AppConfig{Timezone: a.timezone}.Location()
	a.service = reportapp.NewReportService(log, reportapp.WithLocation(loc))
	return nil
}

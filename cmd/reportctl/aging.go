package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/erp/reporting/internal/domain/period"
	"github.com/erp/reporting/internal/domain/report"
	"github.com/erp/reporting/internal/infrastructure/export"
	"github.com/spf13/cobra"
)

type agingCmd struct {
	app    *app
	input  string
	asOf   string
	format string
}

func newAgingCmd(a *app) *cobra.Command {
	ac := &agingCmd{app: a}
	cmd := &cobra.Command{
		Use:   "aging",
		Short: "Classify outstanding items into aging buckets",
		RunE:  ac.run,
	}
	cmd.Flags().StringVarP(&ac.input, "input", "i", "", "Path to the aged report JSON payload")
	cmd.Flags().StringVar(&ac.asOf, "as-of", "", "Override the payload's as-of date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&ac.format, "format", "f", "csv", "Output format: csv or json")

	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func (ac *agingCmd) run(cmd *cobra.Command, _ []string) error {
	if ac.format != "csv" && ac.format != "json" {
		return fmt.Errorf("unknown format %q: want csv or json", ac.format)
	}

	raw, err := os.ReadFile(ac.input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	var r report.AgedReport
	if err := json.Unmarshal(raw, &r); err != nil {
		return fmt.Errorf("decode %s: %w", ac.input, err)
	}
	if ac.asOf != "" {
		d, err := period.ParseDate(ac.asOf)
		if err != nil {
			return err
		}
		r.AsOf = d
	}

	res, err := ac.app.service.Aged(cmd.Context(), &r)
	if err != nil {
		return err
	}

	if ac.format == "json" {
		enc := json.NewEncoder(ac.app.out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	_, err = fmt.Fprintln(ac.app.out, export.AgedBucketsToCSV(res.Buckets, res.Total))
	return err
}

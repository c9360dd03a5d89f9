package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/erp/reporting/internal/domain/period"
	"github.com/spf13/cobra"
)

type presetsCmd struct {
	app       *app
	reference string
}

func newPresetsCmd(a *app) *cobra.Command {
	pc := &presetsCmd{app: a}
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Show the date range of every period preset",
		RunE:  pc.run,
	}
	cmd.Flags().StringVar(&pc.reference, "reference", "", "Reference date (YYYY-MM-DD, default: today)")
	return cmd
}

func (pc *presetsCmd) run(_ *cobra.Command, _ []string) error {
	var ref period.Date
	if pc.reference != "" {
		d, err := period.ParseDate(pc.reference)
		if err != nil {
			return err
		}
		ref = d
	}

	tw := tabwriter.NewWriter(pc.app.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PRESET\tFROM\tTO\tDAYS")
	for _, p := range pc.app.service.ResolvePresets(ref) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", p.Preset, p.Range.From, p.Range.To, p.Range.Days())
	}
	return tw.Flush()
}

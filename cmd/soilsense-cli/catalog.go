package main

import (
	"fmt"
	"math"
	"text/tabwriter"

	"github.com/spf13/cobra"

	soilsense "github.com/kailas-cloud/soilsense/pkg/sdk"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "List the model input columns in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := soilsense.New()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tNAME\tMIN\tMAX\tDEFAULT")
			for i, f := range client.Schema() {
				fmt.Fprintf(tw, "%d\t%s\t%g\t%s\t%g\n", i, f.Name, f.Min, formatMax(f.Max), f.Default)
			}
			return tw.Flush()
		},
	}
}

func newCropsCmd(cf *clientFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "crops",
		Short: "List crop labels in model class order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := soilsense.New(cf.options()...)
			if err != nil {
				return err
			}
			for i, c := range client.Crops() {
				fmt.Fprintf(cmd.OutOrStdout(), "%2d  %s\n", i, c)
			}
			return nil
		},
	}
}

func formatMax(v float64) string {
	if v == math.MaxFloat64 {
		return "-"
	}
	return fmt.Sprintf("%g", v)
}

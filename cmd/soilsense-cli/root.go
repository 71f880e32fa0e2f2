package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	soilsense "github.com/kailas-cloud/soilsense/pkg/sdk"
	"github.com/kailas-cloud/soilsense/internal/version"
)

// clientFlags are shared by every command that builds an SDK client.
type clientFlags struct {
	fertilityModel string
	cropModel      string
	threshold      float64
	mode           string
	crops          []string
	verbose        bool
}

func newRootCmd() *cobra.Command {
	var cf clientFlags

	root := &cobra.Command{
		Use:           "soilsense-cli",
		Short:         "Soil fertility and crop recommendation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cf.fertilityModel, "fertility-model", envOr("SOILSENSE_FERTILITY_MODEL", "models/fertility.json"),
		"fertility model (XGBoost JSON)")
	pf.StringVar(&cf.cropModel, "crop-model", envOr("SOILSENSE_CROP_MODEL", "models/crop.json"),
		"crop model (XGBoost JSON)")
	pf.Float64Var(&cf.threshold, "threshold", 0.5, "inclusive fertility probability cut-off")
	pf.StringVar(&cf.mode, "mode", "probability", "threshold mode: probability or class")
	pf.StringSliceVar(&cf.crops, "crops", nil, "crop labels in model class order (default: built-in list)")
	pf.BoolVarP(&cf.verbose, "verbose", "v", false, "log SDK operations to stderr")

	root.AddCommand(
		newPredictCmd(&cf),
		newSchemaCmd(),
		newCropsCmd(&cf),
		newVersionCmd(),
	)
	return root
}

func (cf *clientFlags) options() []soilsense.Option {
	opts := []soilsense.Option{
		soilsense.WithThreshold(cf.threshold),
		soilsense.WithThresholdMode(cf.mode),
	}
	if len(cf.crops) > 0 {
		opts = append(opts, soilsense.WithCrops(cf.crops...))
	}
	if cf.verbose {
		opts = append(opts, soilsense.WithLogger(slog.New(slog.NewTextHandler(os.Stderr,
			&slog.HandlerOptions{Level: slog.LevelDebug}))))
	}
	return opts
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "soilsense-cli %s (commit %s, built %s)\n",
				version.Version, version.Commit, version.Date)
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

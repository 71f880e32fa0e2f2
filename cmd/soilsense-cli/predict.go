package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	soilsense "github.com/kailas-cloud/soilsense/pkg/sdk"
)

// soilFlag binds one optional numeric input. Unset flags stay nil.
type soilFlag struct {
	name  string
	usage string
	dest  **float64
}

func newPredictCmd(cf *clientFlags) *cobra.Command {
	var (
		soil    soilsense.Soil
		reading soilsense.Reading
		asJSON  bool
		values  = map[string]*float64{}
	)

	inputs := []soilFlag{
		{"soil-type", "soil type code (1-4)", &soil.SoilType},
		{"ph", "pH (0-14)", &soil.PH},
		{"organic-matter", "organic matter (%)", &soil.OrganicMatterPct},
		{"conductivity", "electrical conductivity", &soil.Conductivity},
		{"nitrogen", "nitrogen", &soil.Nitrogen},
		{"phosphorus", "phosphorus", &soil.Phosphorus},
		{"potassium", "potassium", &soil.Potassium},
		{"density", "bulk density", &soil.Density},
		{"humidity", "relative humidity (%)", &reading.HumidityPct},
		{"elevation", "elevation (m)", &reading.ElevationM},
	}

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict fertility and recommend a crop",
		Example: "  soilsense-cli predict --soil-type 2 --ph 6.5 --organic-matter 3 --conductivity 1.2 \\\n" +
			"    --nitrogen 0.8 --phosphorus 15 --potassium 120 --density 1.3 --humidity 55 --elevation 1000",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, in := range inputs {
				if cmd.Flags().Changed(in.name) {
					*in.dest = values[in.name]
				}
			}

			client, err := soilsense.New(append(cf.options(),
				soilsense.WithModelFiles(cf.fertilityModel, cf.cropModel))...)
			if err != nil {
				return err
			}

			res, err := client.Predict(cmd.Context(), soil, reading)
			if err != nil {
				if name, ok := soilsense.MissingField(err); ok {
					return fmt.Errorf("missing value for %s", name)
				}
				if errors.Is(err, soilsense.ErrInference) {
					return fmt.Errorf("model could not score the input: %w", err)
				}
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			writeResult(cmd.OutOrStdout(), res, client.Schema())
			return nil
		},
	}

	for _, in := range inputs {
		v := new(float64)
		values[in.name] = v
		cmd.Flags().Float64Var(v, in.name, 0, in.usage)
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

// writeResult prints features in model column order.
func writeResult(w io.Writer, res soilsense.Result, schema []soilsense.Field) {
	fmt.Fprintf(w, "Fertility: %s (score %.4f)\n", res.Fertility, res.Score)
	fmt.Fprintf(w, "Crop:      %s\n", res.Crop)

	fmt.Fprintln(w, "Features:")
	for _, f := range schema {
		fmt.Fprintf(w, "  %-20s %g\n", f.Name, res.Features[f.Name])
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Package soilsense embeds the soil fertility predictor in a Go program
// without running the HTTP service.
//
// A Client assembles the 10-column feature vector from soil measurements and
// an optional humidity/elevation reading, asks the fertility model for a
// verdict and, for fertile soil only, asks the crop model for a recommendation.
//
// # Model files
//
//	client, _ := soilsense.New(
//	    soilsense.WithModelFiles("models/fertility.json", "models/crop.json"),
//	)
//	res, err := client.Predict(ctx, soilsense.Soil{
//	    SoilType: soilsense.Float(2), PH: soilsense.Float(6.5), ...
//	}, soilsense.Reading{HumidityPct: soilsense.Float(55)})
//
// # Custom models
//
//	client, _ := soilsense.New(soilsense.WithModels(
//	    soilsense.ModelFunc(fertility), soilsense.ModelFunc(crop),
//	))
//
// Missing inputs fail with ErrMissingField; use MissingField to learn which one.
package soilsense

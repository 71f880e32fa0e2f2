package feature

// Soil holds the manually entered soil measurements.
// A nil pointer means the user left the field empty.
type Soil struct {
	SoilType         *float64 `json:"soil_type"`
	PH               *float64 `json:"ph"`
	OrganicMatterPct *float64 `json:"organic_matter_pct"`
	Conductivity     *float64 `json:"conductivity"`
	Nitrogen         *float64 `json:"nitrogen"`
	Phosphorus       *float64 `json:"phosphorus"`
	Potassium        *float64 `json:"potassium"`
	Density          *float64 `json:"density"`
}

// Fields returns the present soil values keyed by column name.
func (s Soil) Fields() map[string]float64 {
	m := make(map[string]float64, 8)
	put := func(name string, v *float64) {
		if v != nil {
			m[name] = *v
		}
	}
	put(SoilType, s.SoilType)
	put(PH, s.PH)
	put(OrganicMatterPct, s.OrganicMatterPct)
	put(Conductivity, s.Conductivity)
	put(Nitrogen, s.Nitrogen)
	put(Phosphorus, s.Phosphorus)
	put(Potassium, s.Potassium)
	put(Density, s.Density)
	return m
}

// Float returns a pointer to v. Convenience for building Soil literals.
func Float(v float64) *float64 { return &v }

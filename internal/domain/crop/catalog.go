package crop

import (
	"errors"
	"strings"
)

const (
	// None is reported when the soil is infertile and the crop model is skipped.
	None = "Ninguno"
	// Unknown is reported when the crop model's class index has no label.
	Unknown = "Desconocido"
)

// DefaultLabels is the class order the crop model was trained with.
var DefaultLabels = []string{
	"Trigo", "Maíz", "Caña de Azúcar", "Algodón", "Arroz", "Papa",
	"Cebolla", "Tomate", "Batata", "Brócoli", "Café",
}

// Catalog maps crop model class indices to labels (immutable value object).
type Catalog struct {
	labels []string
}

// New validates and creates a Catalog. Labels must be non-empty and unique.
func New(labels []string) (Catalog, error) {
	if len(labels) == 0 {
		return Catalog{}, errors.New("crop catalog is empty")
	}
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, len(labels))
	for i, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			return Catalog{}, errors.New("crop label is empty")
		}
		if _, dup := seen[l]; dup {
			return Catalog{}, errors.New("duplicate crop label: " + l)
		}
		seen[l] = struct{}{}
		out[i] = l
	}
	return Catalog{labels: out}, nil
}

// Default returns the catalog of the 11 crops in DefaultLabels.
func Default() Catalog {
	c, _ := New(DefaultLabels)
	return c
}

// Label maps a class index to its label; out-of-range indices map to Unknown.
func (c Catalog) Label(index int) string {
	if index < 0 || index >= len(c.labels) {
		return Unknown
	}
	return c.labels[index]
}

// Labels returns a copy of the labels in class order.
func (c Catalog) Labels() []string {
	out := make([]string, len(c.labels))
	copy(out, c.labels)
	return out
}

// Len is the number of known classes.
func (c Catalog) Len() int { return len(c.labels) }

// ArgMax returns the index of the largest value; ties resolve to the first.
// Returns -1 for an empty slice.
func ArgMax(values []float64) int {
	best := -1
	for i, v := range values {
		if best < 0 || v > values[best] {
			best = i
		}
	}
	return best
}

package prediction

import "fmt"

// Fertility is the binary soil verdict.
type Fertility bool

const (
	// Fertile soil gets a crop recommendation.
	Fertile Fertility = true
	// Infertile soil skips the crop model.
	Infertile Fertility = false
)

// Labels shown to the user.
const (
	FertileLabel   = "Fértil"
	InfertileLabel = "Infértil"
)

// String returns the user-facing label.
func (f Fertility) String() string {
	if f {
		return FertileLabel
	}
	return InfertileLabel
}

// ThresholdMode selects how the fertility model's raw output is read.
type ThresholdMode string

const (
	// ModeProbability: output is P(fertile); fertile when score >= threshold.
	ModeProbability ThresholdMode = "probability"
	// ModeClass: output is already a class; fertile when int(score) == 1.
	ModeClass ThresholdMode = "class"
)

// DefaultThreshold is the inclusive probability cut-off.
const DefaultThreshold = 0.5

// Policy turns a raw fertility score into a verdict.
type Policy struct {
	mode      ThresholdMode
	threshold float64
}

// NewPolicy validates and creates a Policy. Empty mode means probability.
func NewPolicy(mode ThresholdMode, threshold float64) (Policy, error) {
	if mode == "" {
		mode = ModeProbability
	}
	if mode != ModeProbability && mode != ModeClass {
		return Policy{}, fmt.Errorf("invalid threshold mode %q", mode)
	}
	if !(threshold > 0 && threshold <= 1) {
		return Policy{}, fmt.Errorf("threshold must be in (0, 1], got %v", threshold)
	}
	return Policy{mode: mode, threshold: threshold}, nil
}

// DefaultPolicy is probability mode with a 0.5 threshold.
func DefaultPolicy() Policy {
	return Policy{mode: ModeProbability, threshold: DefaultThreshold}
}

// Classify applies the policy to a raw score.
func (p Policy) Classify(score float64) Fertility {
	if p.mode == ModeClass {
		return Fertility(int(score) == 1)
	}
	return Fertility(score >= p.threshold)
}

// Mode returns the threshold mode.
func (p Policy) Mode() ThresholdMode { return p.mode }

// Threshold returns the probability cut-off.
func (p Policy) Threshold() float64 { return p.threshold }

// Result is the outcome of one prediction (immutable value object).
type Result struct {
	fertility Fertility
	crop      string
	score     float64
	cropIndex int
}

// NewResult creates a Result. cropIndex is -1 when the crop model was not consulted.
func NewResult(fertility Fertility, crop string, score float64, cropIndex int) Result {
	return Result{fertility: fertility, crop: crop, score: score, cropIndex: cropIndex}
}

// Fertility returns the verdict.
func (r Result) Fertility() Fertility { return r.fertility }

// Crop returns the recommended crop label.
func (r Result) Crop() string { return r.crop }

// Score returns the raw fertility score.
func (r Result) Score() float64 { return r.score }

// CropIndex returns the crop class index, or -1 if the crop model was skipped.
func (r Result) CropIndex() int { return r.cropIndex }

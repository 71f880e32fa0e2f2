package prediction

import "testing"

func TestPolicy_Probability(t *testing.T) {
	p := DefaultPolicy()
	tests := []struct {
		score float64
		want  Fertility
	}{
		{0.5, Fertile},
		{0.4999, Infertile},
		{0.9, Fertile},
		{0, Infertile},
	}
	for _, tt := range tests {
		if got := p.Classify(tt.score); got != tt.want {
			t.Errorf("Classify(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestPolicy_Class(t *testing.T) {
	p, err := NewPolicy(ModeClass, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Classify(1) != Fertile {
		t.Error("class 1 should be fertile")
	}
	if p.Classify(0) != Infertile {
		t.Error("class 0 should be infertile")
	}
	if p.Classify(0.9) != Infertile {
		t.Error("0.9 truncates to class 0")
	}
}

func TestNewPolicy_Validation(t *testing.T) {
	if _, err := NewPolicy("odds", 0.5); err == nil {
		t.Error("expected error for unknown mode")
	}
	for _, th := range []float64{0, -0.1, 1.01} {
		if _, err := NewPolicy(ModeProbability, th); err == nil {
			t.Errorf("threshold %v: expected error", th)
		}
	}
	p, err := NewPolicy("", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Mode() != ModeProbability || p.Threshold() != 1 {
		t.Errorf("unexpected policy: %s %v", p.Mode(), p.Threshold())
	}
}

func TestFertility_String(t *testing.T) {
	if Fertile.String() != "Fértil" || Infertile.String() != "Infértil" {
		t.Errorf("labels: %q %q", Fertile.String(), Infertile.String())
	}
}

func TestResult_Accessors(t *testing.T) {
	r := NewResult(Fertile, "Maíz", 0.8, 1)
	if r.Fertility() != Fertile || r.Crop() != "Maíz" || r.Score() != 0.8 || r.CropIndex() != 1 {
		t.Errorf("unexpected result: %+v", r)
	}
}

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const oneLeafModel = `{
  "learner": {
    "gradient_booster": {"name": "gbtree", "model": {"tree_info": [0], "trees": [{
      "left_children": [-1], "right_children": [-1], "split_indices": [0],
      "split_conditions": [1.5], "default_left": [0]}]}},
    "learner_model_param": {"base_score": "5E-1", "num_class": "0", "num_feature": "10"},
    "objective": {"name": "binary:logistic"}
  }
}`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func modelFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte(oneLeafModel), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

var soilArgs = []string{
	"--soil-type", "2", "--ph", "6.5", "--organic-matter", "3", "--conductivity", "1.2",
	"--nitrogen", "0.8", "--phosphorus", "15", "--potassium", "120", "--density", "1.3",
}

func TestPredictCmd(t *testing.T) {
	m := modelFile(t)
	args := append([]string{"predict", "--fertility-model", m, "--crop-model", m,
		"--humidity", "55", "--elevation", "1000"}, soilArgs...)

	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("predict failed: %v", err)
	}
	if !strings.Contains(out, "Fértil") || !strings.Contains(out, "Trigo") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "elevation_m") {
		t.Errorf("features missing from output:\n%s", out)
	}

	// Column order, not alphabetical: soil_type first, ph second, elevation_m last.
	_, features, _ := strings.Cut(out, "Features:\n")
	rows := strings.Split(strings.TrimSpace(features), "\n")
	if len(rows) != 10 {
		t.Fatalf("expected 10 feature rows, got %d:\n%s", len(rows), features)
	}
	first, second, last := strings.Fields(rows[0]), strings.Fields(rows[1]), strings.Fields(rows[9])
	if first[0] != "soil_type" || second[0] != "ph" || last[0] != "elevation_m" {
		t.Errorf("features not in column order:\n%s", features)
	}
}

func TestPredictCmd_JSON(t *testing.T) {
	m := modelFile(t)
	args := append([]string{"predict", "--json", "--fertility-model", m, "--crop-model", m}, soilArgs...)

	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("predict failed: %v", err)
	}
	var res struct {
		Fertile  bool
		Crop     string
		Features map[string]float64
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if !res.Fertile || res.Crop != "Trigo" {
		t.Errorf("unexpected result: %+v", res)
	}
	if res.Features["humidity_pct"] != 0 {
		t.Errorf("humidity should fall back to 0, got %v", res.Features["humidity_pct"])
	}
}

func TestPredictCmd_MissingField(t *testing.T) {
	m := modelFile(t)
	_, err := run(t, "predict", "--fertility-model", m, "--crop-model", m, "--soil-type", "2")
	if err == nil || !strings.Contains(err.Error(), "missing value for ph") {
		t.Errorf("expected missing ph error, got %v", err)
	}
}

func TestPredictCmd_MissingModel(t *testing.T) {
	args := append([]string{"predict", "--fertility-model", filepath.Join(t.TempDir(), "none.json")}, soilArgs...)
	if _, err := run(t, args...); err == nil {
		t.Error("expected error for missing model file")
	}
}

func TestSchemaCmd(t *testing.T) {
	out, err := run(t, "schema")
	if err != nil {
		t.Fatalf("schema failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 11 {
		t.Fatalf("expected header + 10 rows, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], "soil_type") || !strings.Contains(lines[10], "elevation_m") {
		t.Errorf("unexpected column order:\n%s", out)
	}
}

func TestCropsCmd(t *testing.T) {
	out, err := run(t, "crops")
	if err != nil {
		t.Fatalf("crops failed: %v", err)
	}
	if !strings.Contains(out, " 0  Trigo") || !strings.Contains(out, "10  Café") {
		t.Errorf("unexpected output:\n%s", out)
	}

	out, err = run(t, "crops", "--crops", "A,B")
	if err != nil {
		t.Fatalf("crops failed: %v", err)
	}
	if strings.TrimSpace(out) != "0  A\n 1  B" {
		t.Errorf("unexpected output:\n%q", out)
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "soilsense-cli dev") {
		t.Errorf("unexpected output: %q", out)
	}
}

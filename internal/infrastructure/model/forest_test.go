package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bartrom653/adaptive-sched/internal/domain/valueobject"
)

func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// Один решающий пень: avg_load <= 50 → 0, иначе 3
const singleStumpArtifact = `{
	"feature_names": ["avg_load", "proc_cpu"],
	"trees": [
		{"nodes": [
			{"feature": 0, "threshold": 50, "left": 1, "right": 2, "value": 0},
			{"feature": -2, "threshold": 0, "left": -1, "right": -1, "value": 0},
			{"feature": -2, "threshold": 0, "left": -1, "right": -1, "value": 3}
		]}
	]
}`

func TestLoad_ValidArtifact(t *testing.T) {
	forest, err := Load(writeArtifact(t, singleStumpArtifact))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	names := forest.FeatureNames()
	if len(names) != 2 || names[0] != "avg_load" || names[1] != "proc_cpu" {
		t.Errorf("FeatureNames() = %v, want [avg_load proc_cpu]", names)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "not json at all"},
		{name: "no feature names", content: `{"feature_names": [], "trees": [{"nodes": [{"left": -1, "right": -1, "value": 1}]}]}`},
		{name: "no trees", content: `{"feature_names": ["avg_load"], "trees": []}`},
		{name: "empty tree", content: `{"feature_names": ["avg_load"], "trees": [{"nodes": []}]}`},
		{
			name:    "child index out of range",
			content: `{"feature_names": ["avg_load"], "trees": [{"nodes": [{"feature": 0, "threshold": 1, "left": 5, "right": 1, "value": 0}, {"left": -1, "right": -1, "value": 1}]}]}`,
		},
		{
			name:    "unknown feature index",
			content: `{"feature_names": ["avg_load"], "trees": [{"nodes": [{"feature": 7, "threshold": 1, "left": 1, "right": 1, "value": 0}, {"left": -1, "right": -1, "value": 1}]}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeArtifact(t, tt.content)); err == nil {
				t.Error("Load() succeeded, want error")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("Load() succeeded, want error for missing file")
	}
}

func TestForest_PredictStump(t *testing.T) {
	forest, err := Load(writeArtifact(t, singleStumpArtifact))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		features map[string]float64
		want     valueobject.BoostLevel
	}{
		{name: "below threshold", features: map[string]float64{"avg_load": 30}, want: valueobject.BoostNone},
		{name: "at threshold goes left", features: map[string]float64{"avg_load": 50}, want: valueobject.BoostNone},
		{name: "above threshold", features: map[string]float64{"avg_load": 80}, want: valueobject.BoostHigh},
		// Отсутствующий признак замещается нулем
		{name: "missing feature zero-filled", features: map[string]float64{"proc_cpu": 99}, want: valueobject.BoostNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := forest.Predict(valueobject.NewFeatureSnapshot(tt.features))
			if got != tt.want {
				t.Errorf("Predict() = %d, want %d", got.Int(), tt.want.Int())
			}
		})
	}
}

func TestForest_MajorityVote(t *testing.T) {
	// Три дерева-листа: два голосуют за 2, одно за 3
	content := `{
		"feature_names": ["avg_load"],
		"trees": [
			{"nodes": [{"left": -1, "right": -1, "value": 2}]},
			{"nodes": [{"left": -1, "right": -1, "value": 3}]},
			{"nodes": [{"left": -1, "right": -1, "value": 2}]}
		]
	}`
	forest, err := Load(writeArtifact(t, content))
	if err != nil {
		t.Fatal(err)
	}

	got := forest.Predict(valueobject.NewFeatureSnapshot(nil))
	if got != valueobject.BoostMedium {
		t.Errorf("Predict() = %d, want 2", got.Int())
	}
}

func TestForest_TieResolvesToLowerLevel(t *testing.T) {
	content := `{
		"feature_names": ["avg_load"],
		"trees": [
			{"nodes": [{"left": -1, "right": -1, "value": 1}]},
			{"nodes": [{"left": -1, "right": -1, "value": 3}]}
		]
	}`
	forest, err := Load(writeArtifact(t, content))
	if err != nil {
		t.Fatal(err)
	}

	got := forest.Predict(valueobject.NewFeatureSnapshot(nil))
	if got != valueobject.BoostLow {
		t.Errorf("Predict() = %d, want 1 on a tie", got.Int())
	}
}

func TestForest_LeafValueClamped(t *testing.T) {
	content := `{
		"feature_names": ["avg_load"],
		"trees": [{"nodes": [{"left": -1, "right": -1, "value": 9}]}]
	}`
	forest, err := Load(writeArtifact(t, content))
	if err != nil {
		t.Fatal(err)
	}

	got := forest.Predict(valueobject.NewFeatureSnapshot(nil))
	if got != valueobject.MaxBoostLevel {
		t.Errorf("Predict() = %d, want clamp to %d", got.Int(), valueobject.MaxBoostLevel.Int())
	}
}

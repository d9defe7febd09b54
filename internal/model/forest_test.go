package model

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/propestimator/backend/internal/domain"
)

// two trees over [surface_covered, l2=Palermo, l2=Belgrano]
func testSpec() ForestSpec {
	return ForestSpec{
		Algorithm: "random_forest_regressor",
		Numeric:   []string{"surface_covered"},
		Categorical: []CategoricalColumn{
			{Column: "l2", Levels: []string{"Palermo", "Belgrano"}},
		},
		Trees: []Tree{
			{Nodes: []Node{
				{Feature: 0, Threshold: 100, Left: 1, Right: 2},
				{Left: -1, Right: -1, Value: 100000},
				{Left: -1, Right: -1, Value: 200000},
			}},
			{Nodes: []Node{
				{Feature: 1, Threshold: 0.5, Left: 1, Right: 2},
				{Left: -1, Right: -1, Value: 150000},
				{Left: -1, Right: -1, Value: 250000},
			}},
		},
	}
}

func TestForestPredict(t *testing.T) {
	f, err := NewForest(testSpec())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name string
		rec  domain.FeatureRecord
		want float64
	}{
		{"small in Palermo", domain.FeatureRecord{SurfaceCovered: 80, L2: "Palermo"}, (100000 + 250000) / 2},
		{"large in Palermo", domain.FeatureRecord{SurfaceCovered: 120, L2: "Palermo"}, (200000 + 250000) / 2},
		{"large in Belgrano", domain.FeatureRecord{SurfaceCovered: 120, L2: "Belgrano"}, (200000 + 150000) / 2},
		{"unknown zone", domain.FeatureRecord{SurfaceCovered: 100, L2: "Atlantis"}, (100000 + 150000) / 2},
	}

	for _, tc := range cases {
		got, err := f.Predict(context.Background(), tc.rec)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("%s: price = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestForestEncodeOneHot(t *testing.T) {
	f, err := NewForest(testSpec())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	x := f.Encode(domain.FeatureRecord{SurfaceCovered: 42, L2: "Belgrano"})
	want := []float64{42, 0, 1}
	for i := range want {
		if x[i] != want[i] {
			t.Fatalf("encoded = %v, want %v", x, want)
		}
	}
}

func TestForestLog1pTransform(t *testing.T) {
	spec := ForestSpec{
		TargetTransform: TransformLog1p,
		Trees:           []Tree{{Nodes: []Node{{Left: -1, Right: -1, Value: math.Log1p(99999)}}}},
	}
	f, err := NewForest(spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := f.Predict(context.Background(), domain.FeatureRecord{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-99999) > 1e-6 {
		t.Fatalf("price = %v, want 99999", got)
	}
}

func TestNewForestRejectsInvalidTrees(t *testing.T) {
	cycle := testSpec()
	cycle.Trees[0].Nodes[0].Left = 0

	badFeature := testSpec()
	badFeature.Trees[1].Nodes[0].Feature = 3

	badColumn := testSpec()
	badColumn.Numeric = []string{"l3"}

	empty := testSpec()
	empty.Trees = nil

	for name, spec := range map[string]ForestSpec{
		"self loop":      cycle,
		"feature index":  badFeature,
		"numeric column": badColumn,
		"no trees":       empty,
	} {
		if _, err := NewForest(spec); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestLoadForestFromFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "rf.json")
	b, err := json.Marshal(testSpec())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(p, b, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := LoadForest(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Trees() != 2 {
		t.Fatalf("trees = %d, want 2", f.Trees())
	}
}

func TestLoadForestMissingFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "random_forest_model.json")

	_, err := LoadForest(p)

	var missing *domain.MissingArtifactError
	if !errors.As(err, &missing) {
		t.Fatalf("expected missing artifact, got %v", err)
	}
	if missing.Artifact != domain.ArtifactModel || missing.Path != p {
		t.Fatalf("wrong artifact: %+v", missing)
	}
}

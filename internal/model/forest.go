package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"

	"github.com/propestimator/backend/internal/domain"
)

// Target transforms applied to the raw ensemble output
const (
	TransformNone  = "none"
	TransformLog1p = "log1p"
)

// Node is one split or leaf of a regression tree.
// A node with Left == -1 is a leaf and carries Value.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// Tree is a regression tree stored in preorder
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// CategoricalColumn is a one-hot encoded column and its known levels
type CategoricalColumn struct {
	Column string   `json:"column"`
	Levels []string `json:"levels"`
}

// ForestSpec is the JSON export of a fitted tree ensemble
type ForestSpec struct {
	Algorithm       string              `json:"algorithm"`
	Numeric         []string            `json:"numeric"`
	Categorical     []CategoricalColumn `json:"categorical"`
	TargetTransform string              `json:"target_transform"`
	Trees           []Tree              `json:"trees"`
}

// Forest evaluates a tree ensemble natively.
// It is read-only after LoadForest and safe for concurrent use.
type Forest struct {
	spec      ForestSpec
	nFeatures int
	offsets   []map[string]int // level -> feature index, one per categorical column
}

// LoadForest reads and validates a ForestSpec from path
func LoadForest(path string) (*Forest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		cause := err
		if errors.Is(err, fs.ErrNotExist) {
			cause = fmt.Errorf("model: file does not exist: %w", err)
		}
		return nil, &domain.MissingArtifactError{
			Artifact: domain.ArtifactModel,
			Path:     path,
			Remedy:   domain.RemedyModel,
			Err:      cause,
		}
	}

	var spec ForestSpec
	if err := json.Unmarshal(b, &spec); err != nil {
		return nil, &domain.MissingArtifactError{
			Artifact: domain.ArtifactModel,
			Path:     path,
			Remedy:   domain.RemedyModel,
			Err:      fmt.Errorf("model: decode %s: %w", path, err),
		}
	}

	f, err := NewForest(spec)
	if err != nil {
		return nil, &domain.MissingArtifactError{
			Artifact: domain.ArtifactModel,
			Path:     path,
			Remedy:   domain.RemedyModel,
			Err:      err,
		}
	}
	return f, nil
}

// NewForest validates an export and precomputes the feature layout
func NewForest(spec ForestSpec) (*Forest, error) {
	if spec.TargetTransform == "" {
		spec.TargetTransform = TransformNone
	}
	if spec.TargetTransform != TransformNone && spec.TargetTransform != TransformLog1p {
		return nil, fmt.Errorf("model: unsupported target transform %q", spec.TargetTransform)
	}
	if len(spec.Trees) == 0 {
		return nil, errors.New("model: ensemble has no trees")
	}

	var rec domain.FeatureRecord
	for _, col := range spec.Numeric {
		if _, ok := rec.Numeric(col); !ok {
			return nil, fmt.Errorf("model: %q is not a numeric feature column", col)
		}
	}

	f := &Forest{spec: spec, nFeatures: len(spec.Numeric)}
	for _, cat := range spec.Categorical {
		if _, ok := rec.Categorical(cat.Column); !ok {
			return nil, fmt.Errorf("model: %q is not a categorical feature column", cat.Column)
		}
		idx := make(map[string]int, len(cat.Levels))
		for _, level := range cat.Levels {
			idx[level] = f.nFeatures
			f.nFeatures++
		}
		f.offsets = append(f.offsets, idx)
	}

	for t, tree := range spec.Trees {
		if err := validateTree(tree, f.nFeatures); err != nil {
			return nil, fmt.Errorf("model: tree %d: %w", t, err)
		}
	}

	return f, nil
}

// validateTree requires children to come after their parent, which bounds every walk
func validateTree(tree Tree, nFeatures int) error {
	n := len(tree.Nodes)
	if n == 0 {
		return errors.New("no nodes")
	}
	for i, node := range tree.Nodes {
		if node.Left == -1 {
			if node.Right != -1 {
				return fmt.Errorf("node %d: leaf with right child %d", i, node.Right)
			}
			continue
		}
		if node.Feature < 0 || node.Feature >= nFeatures {
			return fmt.Errorf("node %d: feature %d out of range [0,%d)", i, node.Feature, nFeatures)
		}
		if node.Left <= i || node.Left >= n || node.Right <= i || node.Right >= n {
			return fmt.Errorf("node %d: child index out of range (left=%d right=%d)", i, node.Left, node.Right)
		}
	}
	return nil
}

// Encode lays a record out as the ensemble's feature vector.
// Unknown categorical levels encode to all zeros.
func (f *Forest) Encode(record domain.FeatureRecord) []float64 {
	x := make([]float64, f.nFeatures)
	for i, col := range f.spec.Numeric {
		x[i], _ = record.Numeric(col)
	}
	for i, cat := range f.spec.Categorical {
		v, _ := record.Categorical(cat.Column)
		if j, ok := f.offsets[i][v]; ok {
			x[j] = 1
		}
	}
	return x
}

// Predict averages the leaves reached in every tree
func (f *Forest) Predict(ctx context.Context, record domain.FeatureRecord) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	x := f.Encode(record)
	var sum float64
	for _, tree := range f.spec.Trees {
		sum += walk(tree, x)
	}
	y := sum / float64(len(f.spec.Trees))

	if f.spec.TargetTransform == TransformLog1p {
		y = math.Expm1(y)
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, fmt.Errorf("model: non-finite prediction %v", y)
	}
	return y, nil
}

// Health always succeeds once the ensemble is loaded
func (f *Forest) Health(ctx context.Context) error {
	return nil
}

// Trees returns the ensemble size
func (f *Forest) Trees() int {
	return len(f.spec.Trees)
}

func walk(tree Tree, x []float64) float64 {
	i := 0
	for {
		node := tree.Nodes[i]
		if node.Left == -1 {
			return node.Value
		}
		if x[node.Feature] <= node.Threshold {
			i = node.Left
		} else {
			i = node.Right
		}
	}
}

package model

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bartrom653/adaptive-sched/internal/domain/valueobject"
)

// Forest is a pre-trained random forest classifier exported to JSON by
// the offline training pipeline. The controller treats it as an opaque
// predictor: by-name feature lookup with zero fill for absent names,
// majority vote across trees.
type Forest struct {
	featureNames []string
	trees        [][]node
}

type artifact struct {
	FeatureNames []string `json:"feature_names"`
	Trees        []tree   `json:"trees"`
}

type tree struct {
	Nodes []node `json:"nodes"`
}

// node is one decision-tree node. Internal nodes route on
// feature <= threshold; leaves (left == right == -1) carry the class.
type node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     int     `json:"value"`
}

// Load reads and validates a forest artifact from path.
func Load(path string) (*Forest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}

	var spec artifact
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse model artifact: %w", err)
	}

	if len(spec.FeatureNames) == 0 {
		return nil, fmt.Errorf("model artifact has no feature names")
	}
	if len(spec.Trees) == 0 {
		return nil, fmt.Errorf("model artifact has no trees")
	}

	forest := &Forest{featureNames: spec.FeatureNames}
	for i, t := range spec.Trees {
		if err := validateTree(t.Nodes, len(spec.FeatureNames)); err != nil {
			return nil, fmt.Errorf("invalid tree %d: %w", i, err)
		}
		forest.trees = append(forest.trees, t.Nodes)
	}

	return forest, nil
}

func validateTree(nodes []node, featureCount int) error {
	if len(nodes) == 0 {
		return fmt.Errorf("tree has no nodes")
	}

	for i, n := range nodes {
		if n.isLeaf() {
			continue
		}
		if n.Left < 0 || n.Left >= len(nodes) || n.Right < 0 || n.Right >= len(nodes) {
			return fmt.Errorf("node %d has child index out of range", i)
		}
		if n.Feature < 0 || n.Feature >= featureCount {
			return fmt.Errorf("node %d references unknown feature %d", i, n.Feature)
		}
	}

	return nil
}

func (n node) isLeaf() bool {
	return n.Left == -1 && n.Right == -1
}

// FeatureNames returns the ordered feature list the model was trained on.
func (f *Forest) FeatureNames() []string {
	return append([]string(nil), f.featureNames...)
}

// Predict runs every tree on the snapshot and takes the majority vote.
// Ties resolve to the lower boost level.
func (f *Forest) Predict(snapshot valueobject.FeatureSnapshot) valueobject.BoostLevel {
	row := make([]float64, len(f.featureNames))
	for i, name := range f.featureNames {
		row[i] = snapshot.GetOrZero(name)
	}

	var votes [int(valueobject.MaxBoostLevel) + 1]int
	for _, nodes := range f.trees {
		votes[f.evaluate(nodes, row).Int()]++
	}

	best := valueobject.BoostNone
	for level := valueobject.BoostNone; level <= valueobject.MaxBoostLevel; level++ {
		if votes[level.Int()] > votes[best.Int()] {
			best = level
		}
	}
	return best
}

func (f *Forest) evaluate(nodes []node, row []float64) valueobject.BoostLevel {
	idx := 0
	// validated trees cannot loop longer than the node count
	for range nodes {
		n := nodes[idx]
		if n.isLeaf() {
			return valueobject.ClampBoostLevel(n.Value)
		}
		if row[n.Feature] <= n.Threshold {
			idx = n.Left
		} else {
			idx = n.Right
		}
	}
	return valueobject.BoostNone
}

package model

import (
	"errors"
	"fmt"

	"github.com/Skufu/healthrisk/internal/patient"
)

// TreeNode is one node of a flattened binary tree. Children always sit at a higher index
// than their parent, so traversal terminates.
type TreeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
	Leaf      bool    `json:"leaf"`
}

type DecisionTree struct {
	Nodes []TreeNode `json:"nodes"`
}

func (dt *DecisionTree) validate() error {
	if len(dt.Nodes) == 0 {
		return fmt.Errorf("%w: tree has no nodes", ErrInvalidArtifact)
	}
	for i, node := range dt.Nodes {
		if node.Leaf {
			continue
		}
		if node.Feature < 0 || node.Feature >= patient.FeatureCount {
			return fmt.Errorf("%w: node %d feature index %d out of range", ErrInvalidArtifact, i, node.Feature)
		}
		if node.Left <= i || node.Left >= len(dt.Nodes) || node.Right <= i || node.Right >= len(dt.Nodes) {
			return fmt.Errorf("%w: node %d has invalid children (%d, %d)", ErrInvalidArtifact, i, node.Left, node.Right)
		}
	}
	return nil
}

func (dt *DecisionTree) evaluate(x patient.FeatureVector) (float64, error) {
	idx := 0
	for {
		node := dt.Nodes[idx]
		if node.Leaf {
			return node.Value, nil
		}
		if x[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
		if idx < 0 || idx >= len(dt.Nodes) {
			return 0, errors.New("invalid tree state")
		}
	}
}

func (dt *DecisionTree) Predict(batch []patient.FeatureVector) ([]float64, error) {
	out := make([]float64, len(batch))
	for i, x := range batch {
		v, err := dt.evaluate(x)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Forest averages the outputs of its trees. With 0/1 leaves the result is the share of
// trees voting positive.
type Forest struct {
	Trees []DecisionTree `json:"trees"`
}

func (f *Forest) validate() error {
	if len(f.Trees) == 0 {
		return fmt.Errorf("%w: forest has no trees", ErrInvalidArtifact)
	}
	for i := range f.Trees {
		if err := f.Trees[i].validate(); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

func (f *Forest) Predict(batch []patient.FeatureVector) ([]float64, error) {
	out := make([]float64, len(batch))
	for i, x := range batch {
		sum := 0.0
		for t := range f.Trees {
			v, err := f.Trees[t].evaluate(x)
			if err != nil {
				return nil, fmt.Errorf("tree %d: %w", t, err)
			}
			sum += v
		}
		out[i] = sum / float64(len(f.Trees))
	}
	return out, nil
}

package fasttree

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// NodeType represents the type of a tree node.
type NodeType int

const (
	// LeafNode is a terminal node with an output value.
	LeafNode NodeType = iota
	// NumericalNode splits on feature <= Threshold.
	NumericalNode
)

// Node is a single node of a tree. Children are indices into Tree.Nodes.
type Node struct {
	NodeID     int
	ParentID   int // -1 for the root
	LeftChild  int // -1 for leaves
	RightChild int // -1 for leaves
	NodeType   NodeType

	// Split information (internal nodes)
	SplitFeature int
	Threshold    float64
	Gain         float64
	splitBin     int

	// Leaf information
	LeafValue float64
	LeafCount int
}

// IsLeaf returns true if the node is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.NodeType == LeafNode
}

// Tree is one boosting stage.
type Tree struct {
	TreeIndex     int
	NumLeaves     int
	ShrinkageRate float64 // learning rate applied to leaf values
	Nodes         []Node
}

// Predict returns the shrunk leaf value for one sample. NaN features go right.
func (t *Tree) Predict(features []float64) float64 {
	nodeID := 0
	for nodeID >= 0 && nodeID < len(t.Nodes) {
		node := &t.Nodes[nodeID]
		if node.IsLeaf() {
			return node.LeafValue * t.ShrinkageRate
		}
		if features[node.SplitFeature] <= node.Threshold {
			nodeID = node.LeftChild
		} else {
			nodeID = node.RightChild
		}
	}
	return 0
}

// leafIndexBinned walks the tree on pre-binned training data and returns the leaf node index.
func (t *Tree) leafIndexBinned(bins [][]uint16, row int) int {
	nodeID := 0
	for {
		node := &t.Nodes[nodeID]
		if node.IsLeaf() {
			return nodeID
		}
		if int(bins[node.SplitFeature][row]) <= node.splitBin {
			nodeID = node.LeftChild
		} else {
			nodeID = node.RightChild
		}
	}
}

// Model is a fitted ensemble.
type Model struct {
	Objective    string
	NumFeatures  int
	InitScore    float64
	LearningRate float64
	NumLeaves    int
	Trees        []Tree

	// FeatureImportance is the total split gain per feature.
	FeatureImportance []float64

	// TrainingLoss is the mean training loss after each tree.
	TrainingLoss []float64
}

// RawScore returns the additive score of one sample.
func (m *Model) RawScore(features []float64) float64 {
	score := m.InitScore
	for i := range m.Trees {
		score += m.Trees[i].Predict(features)
	}
	return score
}

// PredictRaw scores every row of X.
func (m *Model) PredictRaw(X mat.Matrix) *mat.VecDense {
	rows, cols := X.Dims()
	out := mat.NewVecDense(rows, nil)
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(row, i, X)
		out.SetVec(i, m.RawScore(row))
	}
	return out
}

// NumTrees returns the number of trees in the ensemble.
func (m *Model) NumTrees() int {
	return len(m.Trees)
}

func clampLeaf(v, limit float64) float64 {
	if limit <= 0 {
		return v
	}
	return math.Max(-limit, math.Min(limit, v))
}

package fasttree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// makeBinaryData builds n rows where the label is x0 > 0.5, x1 is weakly
// informative and x2 is noise.
func makeBinaryData(n int) (*mat.Dense, []float64) {
	X := mat.NewDense(n, 3, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x0 := float64(i) / float64(n)
		X.Set(i, 0, x0)
		X.Set(i, 1, x0*0.3+float64(i%7)/10)
		X.Set(i, 2, float64((i*37)%11))
		if x0 > 0.5 {
			y[i] = 1
		}
	}
	return X, y
}

func TestTrainerFit(t *testing.T) {
	X, y := makeBinaryData(200)
	params := DefaultParams()
	params.NumTrees = 20

	m, err := NewTrainer(params).Fit(X, y)
	require.NoError(t, err)

	assert.Equal(t, "binary", m.Objective)
	assert.Equal(t, 3, m.NumFeatures)
	assert.NotZero(t, m.NumTrees())
	assert.LessOrEqual(t, m.NumTrees(), 20)
	assert.Len(t, m.TrainingLoss, m.NumTrees())
	assert.Less(t, m.TrainingLoss[len(m.TrainingLoss)-1], m.TrainingLoss[0])

	for _, tree := range m.Trees {
		assert.GreaterOrEqual(t, tree.NumLeaves, 2)
		assert.LessOrEqual(t, tree.NumLeaves, params.NumLeaves)
		assert.Equal(t, params.LearningRate, tree.ShrinkageRate)
		for _, node := range tree.Nodes {
			if node.IsLeaf() {
				assert.GreaterOrEqual(t, node.LeafCount, params.MinDataInLeaf)
			}
		}
	}

	// The separating feature dominates the gain.
	assert.Greater(t, m.FeatureImportance[0], m.FeatureImportance[2])

	scores := m.PredictRaw(X)
	correct := 0
	for i := range y {
		if (scores.AtVec(i) > 0) == (y[i] == 1) {
			correct++
		}
	}
	assert.GreaterOrEqual(t, float64(correct)/float64(len(y)), 0.95)
}

func TestTrainerBinnedMatchesRawTraversal(t *testing.T) {
	X, y := makeBinaryData(150)
	params := DefaultParams()
	params.NumTrees = 5

	tr := NewTrainer(params)
	m, err := tr.Fit(X, y)
	require.NoError(t, err)

	row := make([]float64, 3)
	for i := 0; i < 150; i++ {
		mat.Row(row, i, X)
		for k := range m.Trees {
			tree := &m.Trees[k]
			leaf := tree.leafIndexBinned(tr.bins, i)
			assert.Equal(t, tree.Nodes[leaf].LeafValue*tree.ShrinkageRate, tree.Predict(row))
		}
	}
}

func TestTrainerDeterministicAcrossWorkers(t *testing.T) {
	X, y := makeBinaryData(300)

	fit := func(workers int) []float64 {
		params := DefaultParams()
		params.NumTrees = 15
		params.FeatureFraction = 0.7
		params.BaggingFraction = 0.8
		params.BaggingFreq = 1
		params.Seed = 11
		params.NumWorkers = workers
		m, err := NewTrainer(params).Fit(X, y)
		require.NoError(t, err)
		return m.PredictRaw(X).RawVector().Data
	}

	assert.Equal(t, fit(1), fit(4))
}

func TestTrainerStopsWhenNothingSplits(t *testing.T) {
	X := mat.NewDense(40, 2, nil)
	y := make([]float64, 40)
	for i := range y {
		X.Set(i, 0, 1)
		X.Set(i, 1, 2)
		if i%4 == 0 {
			y[i] = 1
		}
	}

	m, err := NewTrainer(DefaultParams()).Fit(X, y)
	require.NoError(t, err)
	assert.Zero(t, m.NumTrees())
	assert.InDelta(t, math.Log(10.0/30.0), m.RawScore([]float64{1, 2}), 1e-12)
}

func TestTrainerRejectsBadInput(t *testing.T) {
	params := DefaultParams()

	_, err := NewTrainer(params).Fit(mat.NewDense(3, 2, nil), []float64{0, 1})
	assert.Error(t, err)

	params.NumTrees = 0
	X, y := makeBinaryData(20)
	_, err = NewTrainer(params).Fit(X, y)
	assert.Error(t, err)
}

func TestTreePredictSendsNaNRight(t *testing.T) {
	tree := Tree{
		ShrinkageRate: 1,
		Nodes: []Node{
			{NodeID: 0, ParentID: -1, LeftChild: 1, RightChild: 2, NodeType: NumericalNode, SplitFeature: 0, Threshold: 0.5},
			{NodeID: 1, ParentID: 0, LeftChild: -1, RightChild: -1, NodeType: LeafNode, LeafValue: -1},
			{NodeID: 2, ParentID: 0, LeftChild: -1, RightChild: -1, NodeType: LeafNode, LeafValue: 1},
		},
	}

	assert.Equal(t, -1.0, tree.Predict([]float64{0.5}))
	assert.Equal(t, 1.0, tree.Predict([]float64{0.6}))
	assert.Equal(t, 1.0, tree.Predict([]float64{math.NaN()}))
}

func TestClampLeaf(t *testing.T) {
	assert.Equal(t, 5.0, clampLeaf(7, 5))
	assert.Equal(t, -5.0, clampLeaf(-7, 5))
	assert.Equal(t, 7.0, clampLeaf(7, 0))
}

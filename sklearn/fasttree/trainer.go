package fasttree

import (
	"math"

	"github.com/YuminosukeSato/fraudtree/core/parallel"
	"github.com/YuminosukeSato/fraudtree/pkg/errors"
	"github.com/YuminosukeSato/fraudtree/pkg/log"
	"gonum.org/v1/gonum/mat"
)

// minParallelWork is the rows*features product below which histogram work runs inline.
const minParallelWork = 1 << 14

// Trainer grows the boosted ensemble.
type Trainer struct {
	params    Params
	objective ObjectiveFunction
	sampler   *SamplingStrategy
	logger    log.Logger

	numRows     int
	numFeatures int

	// Binned data, feature-major
	mappers []binMapper
	bins    [][]uint16

	labels    []float64
	scores    []float64
	gradients []float64
	hessians  []float64

	trees      []Tree
	initScore  float64
	importance []float64
	losses     []float64
}

// histBin accumulates the derivatives of the samples falling into one bin.
type histBin struct {
	grad  float64
	hess  float64
	count int
}

// SplitInfo describes a candidate split of a leaf. Feature is -1 when no split is valid.
type SplitInfo struct {
	Feature    int
	Bin        int
	Threshold  float64
	Gain       float64
	LeftCount  int
	RightCount int
	LeftGrad   float64
	RightGrad  float64
	LeftHess   float64
	RightHess  float64
}

func (s SplitInfo) valid() bool {
	return s.Feature >= 0
}

// leaf is a leaf of the tree being grown.
type leaf struct {
	node int
	rows []int
	grad float64
	hess float64
	hist [][]histBin // per feature, nil for features not sampled for this tree
	best SplitInfo
}

// NewTrainer creates a trainer for the binary logistic objective.
func NewTrainer(params Params) *Trainer {
	return &Trainer{
		params:    params,
		objective: NewBinaryLogistic(),
		logger:    log.GetLoggerWithName("fasttree.trainer"),
	}
}

// Fit grows params.NumTrees trees on X and targets y in {0, 1}. Boosting stops early
// when a tree can no longer be split.
func (t *Trainer) Fit(X mat.Matrix, y []float64) (*Model, error) {
	if err := t.params.Validate(); err != nil {
		return nil, err
	}
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "fasttree.Trainer.Fit")
	}
	if len(y) != rows {
		return nil, errors.NewDimensionError("fasttree.Trainer.Fit", rows, len(y), 0)
	}

	t.numRows, t.numFeatures = rows, cols
	t.labels = y
	t.sampler = NewSamplingStrategy(t.params)
	t.trees = nil
	t.losses = nil
	t.importance = make([]float64, cols)

	t.binFeatures(X)

	t.initScore = t.objective.GetInitScore(y)
	t.scores = make([]float64, rows)
	for i := range t.scores {
		t.scores[i] = t.initScore
	}
	t.gradients = make([]float64, rows)
	t.hessians = make([]float64, rows)

	for iter := 0; iter < t.params.NumTrees; iter++ {
		t.calculateGradients()

		tree := t.buildTree(iter)
		if tree.NumLeaves < 2 {
			t.logger.Debug("No split improves the loss, stopping", log.IterationKey, iter)
			break
		}
		t.trees = append(t.trees, tree)
		t.updateScores(&t.trees[len(t.trees)-1])

		loss := t.calculateLoss()
		if err := errors.CheckScalar("training_loss", loss, iter); err != nil {
			return nil, err
		}
		t.losses = append(t.losses, loss)

		if iter%10 == 0 {
			t.logger.Debug("Training progress",
				log.IterationKey, iter,
				log.LossKey, loss,
				log.LeavesKey, tree.NumLeaves)
		}
	}

	return t.model(), nil
}

func (t *Trainer) workers() int {
	return parallel.Workers(t.params.NumWorkers)
}

// binFeatures builds a bin mapper per feature and stores every value's bin index.
func (t *Trainer) binFeatures(X mat.Matrix) {
	t.mappers = make([]binMapper, t.numFeatures)
	t.bins = make([][]uint16, t.numFeatures)

	parallel.ParallelizeWorkers(t.numFeatures, t.workers(), func(start, end int) {
		for j := start; j < end; j++ {
			col := mat.Col(nil, j, X)
			m := newBinMapper(col, t.params.MaxBin)
			b := make([]uint16, len(col))
			for i, v := range col {
				b[i] = uint16(m.bin(v))
			}
			t.mappers[j] = m
			t.bins[j] = b
		}
	})
}

// calculateGradients computes gradients and hessians at the current scores.
func (t *Trainer) calculateGradients() {
	parallel.ParallelizeWorkers(t.numRows, t.workers(), func(start, end int) {
		for i := start; i < end; i++ {
			t.gradients[i] = t.objective.CalculateGradient(t.scores[i], t.labels[i])
			t.hessians[i] = t.objective.CalculateHessian(t.scores[i], t.labels[i])
		}
	})
}

// buildTree grows one tree leaf-wise.
func (t *Trainer) buildTree(iter int) Tree {
	tree := Tree{
		TreeIndex:     iter,
		ShrinkageRate: t.params.LearningRate,
		Nodes:         []Node{{NodeID: 0, ParentID: -1, LeftChild: -1, RightChild: -1, NodeType: LeafNode}},
	}

	features := t.sampler.SampleFeatures(t.numFeatures)
	rows := t.sampler.SampleInstances(t.numRows, iter)

	root := &leaf{node: 0, rows: rows}
	for _, r := range rows {
		root.grad += t.gradients[r]
		root.hess += t.hessians[r]
	}
	root.hist = t.buildHistogram(rows, features)
	root.best = t.findBestSplit(root, features)

	leaves := []*leaf{root}
	for len(leaves) < t.params.NumLeaves {
		bestIdx := -1
		for i, l := range leaves {
			if !l.best.valid() || l.best.Gain <= t.params.MinGainToSplit {
				continue
			}
			if bestIdx < 0 || l.best.Gain > leaves[bestIdx].best.Gain {
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			break
		}
		left, right := t.splitLeaf(&tree, leaves[bestIdx], features)
		leaves[bestIdx] = left
		leaves = append(leaves, right)
	}

	for _, l := range leaves {
		node := &tree.Nodes[l.node]
		node.LeafValue = t.calculateLeafValue(l.grad, l.hess)
		node.LeafCount = len(l.rows)
	}
	tree.NumLeaves = len(leaves)
	return tree
}

// splitLeaf turns parent into an internal node and returns its two children with
// their best splits. The larger child's histogram is the parent's minus the smaller's.
func (t *Trainer) splitLeaf(tree *Tree, parent *leaf, features []int) (*leaf, *leaf) {
	s := parent.best
	leftIdx, rightIdx := len(tree.Nodes), len(tree.Nodes)+1

	node := &tree.Nodes[parent.node]
	node.NodeType = NumericalNode
	node.SplitFeature = s.Feature
	node.Threshold = s.Threshold
	node.Gain = s.Gain
	node.splitBin = s.Bin
	node.LeftChild = leftIdx
	node.RightChild = rightIdx

	tree.Nodes = append(tree.Nodes,
		Node{NodeID: leftIdx, ParentID: parent.node, LeftChild: -1, RightChild: -1, NodeType: LeafNode},
		Node{NodeID: rightIdx, ParentID: parent.node, LeftChild: -1, RightChild: -1, NodeType: LeafNode},
	)
	t.importance[s.Feature] += s.Gain

	col := t.bins[s.Feature]
	leftRows := make([]int, 0, s.LeftCount)
	rightRows := make([]int, 0, s.RightCount)
	for _, r := range parent.rows {
		if int(col[r]) <= s.Bin {
			leftRows = append(leftRows, r)
		} else {
			rightRows = append(rightRows, r)
		}
	}

	left := &leaf{node: leftIdx, rows: leftRows, grad: s.LeftGrad, hess: s.LeftHess}
	right := &leaf{node: rightIdx, rows: rightRows, grad: s.RightGrad, hess: s.RightHess}

	small, large := left, right
	if len(right.rows) < len(left.rows) {
		small, large = right, left
	}
	small.hist = t.buildHistogram(small.rows, features)
	large.hist = subtractHistogram(parent.hist, small.hist)
	parent.hist = nil

	left.best = t.findBestSplit(left, features)
	right.best = t.findBestSplit(right, features)
	return left, right
}

// buildHistogram accumulates gradient statistics per bin for the sampled features.
func (t *Trainer) buildHistogram(rows []int, features []int) [][]histBin {
	hist := make([][]histBin, t.numFeatures)
	workers := t.workers()
	if len(rows)*len(features) < minParallelWork {
		workers = 1
	}
	parallel.ParallelizeWorkers(len(features), workers, func(start, end int) {
		for k := start; k < end; k++ {
			f := features[k]
			h := make([]histBin, t.mappers[f].numBins())
			col := t.bins[f]
			for _, r := range rows {
				b := col[r]
				h[b].grad += t.gradients[r]
				h[b].hess += t.hessians[r]
				h[b].count++
			}
			hist[f] = h
		}
	})
	return hist
}

// subtractHistogram computes parent - child in place in parent's storage.
func subtractHistogram(parent, child [][]histBin) [][]histBin {
	for f, ph := range parent {
		if ph == nil {
			continue
		}
		ch := child[f]
		for b := range ph {
			ph[b].grad -= ch[b].grad
			ph[b].hess -= ch[b].hess
			ph[b].count -= ch[b].count
		}
	}
	return parent
}

// findBestSplit evaluates every sampled feature and keeps the highest gain. Ties go to
// the lowest feature index.
func (t *Trainer) findBestSplit(l *leaf, features []int) SplitInfo {
	best := SplitInfo{Feature: -1, Gain: math.Inf(-1)}
	if len(l.rows) < 2*t.params.MinDataInLeaf {
		return best
	}

	candidates := make([]SplitInfo, len(features))
	workers := t.workers()
	if len(l.rows)*len(features) < minParallelWork {
		workers = 1
	}
	parallel.ParallelizeWorkers(len(features), workers, func(start, end int) {
		for k := start; k < end; k++ {
			candidates[k] = t.findBestSplitForFeature(l, features[k])
		}
	})

	for _, c := range candidates {
		if c.valid() && c.Gain > best.Gain {
			best = c
		}
	}
	return best
}

// findBestSplitForFeature scans the bins of one feature left to right.
func (t *Trainer) findBestSplitForFeature(l *leaf, feature int) SplitInfo {
	best := SplitInfo{Feature: -1, Gain: math.Inf(-1)}
	h := l.hist[feature]
	total := len(l.rows)
	parentScore := t.leafScore(l.grad, l.hess)

	var leftGrad, leftHess float64
	leftCount := 0
	for b := 0; b < len(h)-1; b++ {
		if h[b].count == 0 {
			continue
		}
		leftGrad += h[b].grad
		leftHess += h[b].hess
		leftCount += h[b].count

		rightCount := total - leftCount
		if leftCount < t.params.MinDataInLeaf {
			continue
		}
		if rightCount < t.params.MinDataInLeaf {
			break
		}
		rightGrad := l.grad - leftGrad
		rightHess := l.hess - leftHess
		if leftHess < t.params.MinSumHessianInLeaf || rightHess < t.params.MinSumHessianInLeaf {
			continue
		}

		gain := 0.5 * (t.leafScore(leftGrad, leftHess) + t.leafScore(rightGrad, rightHess) - parentScore)
		if gain > best.Gain {
			best = SplitInfo{
				Feature:    feature,
				Bin:        b,
				Threshold:  t.mappers[feature].threshold(b),
				Gain:       gain,
				LeftCount:  leftCount,
				RightCount: rightCount,
				LeftGrad:   leftGrad,
				RightGrad:  rightGrad,
				LeftHess:   leftHess,
				RightHess:  rightHess,
			}
		}
	}
	return best
}

func (t *Trainer) leafScore(grad, hess float64) float64 {
	return grad * grad / (hess + t.params.Lambda)
}

// calculateLeafValue is the Newton step -G/(H+lambda), clamped to MaxLeafOutput.
func (t *Trainer) calculateLeafValue(grad, hess float64) float64 {
	const epsilon = 1e-10
	return clampLeaf(-grad/(hess+t.params.Lambda+epsilon), t.params.MaxLeafOutput)
}

// updateScores adds the new tree's output to every row, bagged or not.
func (t *Trainer) updateScores(tree *Tree) {
	parallel.ParallelizeWorkers(t.numRows, t.workers(), func(start, end int) {
		for i := start; i < end; i++ {
			leafIdx := tree.leafIndexBinned(t.bins, i)
			t.scores[i] += tree.Nodes[leafIdx].LeafValue * tree.ShrinkageRate
		}
	})
}

// calculateLoss returns the mean training loss at the current scores.
func (t *Trainer) calculateLoss() float64 {
	loss := 0.0
	for i := 0; i < t.numRows; i++ {
		loss += t.objective.CalculateLoss(t.scores[i], t.labels[i])
	}
	return loss / float64(t.numRows)
}

func (t *Trainer) model() *Model {
	importance := make([]float64, len(t.importance))
	copy(importance, t.importance)
	return &Model{
		Objective:         t.objective.Name(),
		NumFeatures:       t.numFeatures,
		InitScore:         t.initScore,
		LearningRate:      t.params.LearningRate,
		NumLeaves:         t.params.NumLeaves,
		Trees:             t.trees,
		FeatureImportance: importance,
		TrainingLoss:      t.losses,
	}
}

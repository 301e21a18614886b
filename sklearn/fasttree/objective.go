package fasttree

import (
	"math"

	"github.com/YuminosukeSato/fraudtree/pkg/errors"
)

// ObjectiveFunction supplies the per-sample derivatives used to grow each tree.
type ObjectiveFunction interface {
	// CalculateGradient returns the first derivative of the loss at the raw score.
	CalculateGradient(score, target float64) float64

	// CalculateHessian returns the second derivative of the loss at the raw score.
	CalculateHessian(score, target float64) float64

	// CalculateLoss returns the loss of one sample.
	CalculateLoss(score, target float64) float64

	// GetInitScore returns the constant raw score the ensemble starts from.
	GetInitScore(targets []float64) float64

	// Name returns the name of the objective.
	Name() string
}

// BinaryLogistic is the log loss of a sigmoid over the raw score, for targets in {0, 1}.
type BinaryLogistic struct {
	// minHessian keeps leaf outputs finite once probabilities saturate.
	minHessian float64
}

// NewBinaryLogistic creates the binary logistic objective.
func NewBinaryLogistic() *BinaryLogistic {
	return &BinaryLogistic{minHessian: 1e-16}
}

func (o *BinaryLogistic) CalculateGradient(score, target float64) float64 {
	return errors.StableSigmoid(score) - target
}

func (o *BinaryLogistic) CalculateHessian(score, _ float64) float64 {
	p := errors.StableSigmoid(score)
	return math.Max(p*(1-p), o.minHessian)
}

// CalculateLoss uses log(1+exp(-s)) and log(1+exp(s)) directly to stay finite for large |s|.
func (o *BinaryLogistic) CalculateLoss(score, target float64) float64 {
	if target > 0.5 {
		return softplus(-score)
	}
	return softplus(score)
}

// GetInitScore returns the log-odds of the positive rate.
func (o *BinaryLogistic) GetInitScore(targets []float64) float64 {
	if len(targets) == 0 {
		return 0
	}
	pos := 0.0
	for _, t := range targets {
		pos += t
	}
	neg := float64(len(targets)) - pos
	if pos == 0 || neg == 0 {
		return 0
	}
	return math.Log(pos / neg)
}

func (o *BinaryLogistic) Name() string {
	return "binary"
}

func softplus(x float64) float64 {
	if x > 0 {
		return x + math.Log1p(math.Exp(-x))
	}
	return math.Log1p(math.Exp(x))
}

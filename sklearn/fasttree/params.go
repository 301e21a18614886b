package fasttree

import (
	"math"

	"github.com/YuminosukeSato/fraudtree/pkg/errors"
)

// Params contains the training hyperparameters.
type Params struct {
	// Boosting
	NumTrees     int     `json:"num_trees"`
	LearningRate float64 `json:"learning_rate"`

	// Tree shape
	NumLeaves           int     `json:"num_leaves"`
	MinDataInLeaf       int     `json:"min_data_in_leaf"`
	MinSumHessianInLeaf float64 `json:"min_sum_hessian_in_leaf"`
	MaxLeafOutput       float64 `json:"max_leaf_output"`

	// Regularization
	Lambda         float64 `json:"lambda_l2"`
	MinGainToSplit float64 `json:"min_gain_to_split"`

	// Histogram
	MaxBin int `json:"max_bin"`

	// Sampling
	FeatureFraction float64 `json:"feature_fraction"`
	BaggingFraction float64 `json:"bagging_fraction"`
	BaggingFreq     int     `json:"bagging_freq"`

	// Other
	Seed       uint64 `json:"seed"`
	NumWorkers int    `json:"num_workers"` // 0 means one per CPU
}

// DefaultParams returns the FastTree defaults.
func DefaultParams() Params {
	return Params{
		NumTrees:            100,
		LearningRate:        0.2,
		NumLeaves:           20,
		MinDataInLeaf:       10,
		MinSumHessianInLeaf: 1e-3,
		MaxLeafOutput:       100,
		MaxBin:              255,
		FeatureFraction:     1.0,
		BaggingFraction:     1.0,
	}
}

// Validate reports the first invalid hyperparameter as a ConfigurationError.
func (p Params) Validate() error {
	switch {
	case p.NumTrees < 1:
		return errors.NewConfigurationError("num_trees", "must be at least 1", p.NumTrees)
	case !(p.LearningRate > 0) || math.IsInf(p.LearningRate, 0):
		return errors.NewConfigurationError("learning_rate", "must be a positive number", p.LearningRate)
	case p.NumLeaves < 2:
		return errors.NewConfigurationError("num_leaves", "must be at least 2", p.NumLeaves)
	case p.MinDataInLeaf < 1:
		return errors.NewConfigurationError("min_data_in_leaf", "must be at least 1", p.MinDataInLeaf)
	case p.MinSumHessianInLeaf < 0:
		return errors.NewConfigurationError("min_sum_hessian_in_leaf", "must not be negative", p.MinSumHessianInLeaf)
	case p.MaxLeafOutput < 0:
		return errors.NewConfigurationError("max_leaf_output", "must not be negative", p.MaxLeafOutput)
	case p.Lambda < 0:
		return errors.NewConfigurationError("lambda_l2", "must not be negative", p.Lambda)
	case p.MaxBin < 2 || p.MaxBin > math.MaxUint16:
		return errors.NewConfigurationError("max_bin", "must be in [2, 65535]", p.MaxBin)
	case p.FeatureFraction <= 0 || p.FeatureFraction > 1:
		return errors.NewConfigurationError("feature_fraction", "must be in (0, 1]", p.FeatureFraction)
	case p.BaggingFraction <= 0 || p.BaggingFraction > 1:
		return errors.NewConfigurationError("bagging_fraction", "must be in (0, 1]", p.BaggingFraction)
	case p.BaggingFreq < 0:
		return errors.NewConfigurationError("bagging_freq", "must not be negative", p.BaggingFreq)
	}
	return nil
}

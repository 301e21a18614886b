package fasttree

import (
	"context"
	"fmt"

	"github.com/YuminosukeSato/fraudtree/core/model"
	"github.com/YuminosukeSato/fraudtree/pkg/errors"
	"github.com/YuminosukeSato/fraudtree/pkg/log"
	"gonum.org/v1/gonum/mat"
)

// Classifier is a binary FastTree classifier.
type Classifier struct {
	model.BaseEstimator

	Params       Params
	FeatureNames []string // optional, used when logging feature importance

	model  *Model
	logger log.Logger
}

var _ model.BinaryClassifier = (*Classifier)(nil)

// NewClassifier creates an unfitted classifier.
func NewClassifier(params Params) *Classifier {
	return &Classifier{
		Params: params,
		logger: log.GetLoggerWithName("fasttree.classifier"),
	}
}

// WithFeatureNames sets the names reported alongside feature importance.
func (c *Classifier) WithFeatureNames(names []string) *Classifier {
	c.FeatureNames = names
	return c
}

// WithSeed sets the sampling seed.
func (c *Classifier) WithSeed(seed uint64) *Classifier {
	c.Params.Seed = seed
	return c
}

// Fit trains on X and the single-column label matrix y. Labels must be 0 or 1 and
// both classes must be present.
func (c *Classifier) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "fasttree.Classifier.Fit")
	c.Reset()
	c.model = nil

	rows, cols := X.Dims()
	yRows, yCols := y.Dims()
	if rows == 0 {
		return errors.Wrap(errors.ErrEmptyData, "fasttree.Classifier.Fit")
	}
	if rows != yRows {
		return errors.NewDimensionError("fasttree.Classifier.Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("fasttree.Classifier.Fit", 1, yCols, 1)
	}
	if c.FeatureNames != nil && len(c.FeatureNames) != cols {
		return errors.NewDimensionError("fasttree.Classifier.Fit", len(c.FeatureNames), cols, 1)
	}

	labels := mat.Col(nil, 0, y)
	positives := 0
	for i, v := range labels {
		switch v {
		case 1:
			positives++
		case 0:
		default:
			return errors.NewValueError("fasttree.Classifier.Fit",
				fmt.Sprintf("labels must be 0 or 1, got %g at row %d", v, i))
		}
	}
	if positives == 0 || positives == rows {
		return errors.WithStack(errors.ErrSingleClass)
	}

	c.logger.Debug("Fitting classifier",
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.PositivesKey, positives,
		log.NumTreesKey, c.Params.NumTrees,
		log.NumLeavesKey, c.Params.NumLeaves,
		log.LearningRateKey, c.Params.LearningRate)

	m, err := NewTrainer(c.Params).Fit(X, labels)
	if err != nil {
		return err
	}
	c.model = m
	c.SetFitted()

	c.logImportance()
	return nil
}

// DecisionFunction returns the raw score per row.
func (c *Classifier) DecisionFunction(X mat.Matrix) (*mat.VecDense, error) {
	if err := c.checkPredict(X, "DecisionFunction"); err != nil {
		return nil, err
	}
	return c.model.PredictRaw(X), nil
}

// PredictProba returns the positive-class probability per row.
func (c *Classifier) PredictProba(X mat.Matrix) (*mat.VecDense, error) {
	if err := c.checkPredict(X, "PredictProba"); err != nil {
		return nil, err
	}
	scores := c.model.PredictRaw(X)
	n := scores.Len()
	for i := 0; i < n; i++ {
		scores.SetVec(i, errors.StableSigmoid(scores.AtVec(i)))
	}
	return scores, nil
}

// Predict returns a single column of 0/1 labels. A row is positive when its score is > 0.
func (c *Classifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := c.checkPredict(X, "Predict"); err != nil {
		return nil, err
	}
	scores := c.model.PredictRaw(X)
	n := scores.Len()
	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		if scores.AtVec(i) > 0 {
			out.Set(i, 0, 1)
		}
	}
	return out, nil
}

// FeatureImportance returns the total split gain per feature.
func (c *Classifier) FeatureImportance() ([]float64, error) {
	if !c.IsFitted() {
		return nil, errors.NewNotFittedError("fasttree.Classifier", "FeatureImportance")
	}
	out := make([]float64, len(c.model.FeatureImportance))
	copy(out, c.model.FeatureImportance)
	return out, nil
}

// Model returns the fitted ensemble, or nil before Fit.
func (c *Classifier) Model() *Model {
	return c.model
}

func (c *Classifier) checkPredict(X mat.Matrix, method string) error {
	if !c.IsFitted() {
		return errors.NewNotFittedError("fasttree.Classifier", method)
	}
	if _, cols := X.Dims(); cols != c.model.NumFeatures {
		return errors.NewDimensionError("fasttree.Classifier."+method, c.model.NumFeatures, cols, 1)
	}
	return nil
}

func (c *Classifier) logImportance() {
	if !c.logger.Enabled(context.Background(), log.LevelDebug) {
		return
	}
	for i, gain := range c.model.FeatureImportance {
		if gain == 0 {
			continue
		}
		name := fmt.Sprintf("f%d", i)
		if i < len(c.FeatureNames) {
			name = c.FeatureNames[i]
		}
		c.logger.Debug("Feature importance", log.FeatureNameKey, name, log.ImportanceKey, gain)
	}
}

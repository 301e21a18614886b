package model

import "gonum.org/v1/gonum/mat"

// Fitter is a model that learns from a feature matrix and a label column.
type Fitter interface {
	Fit(X, y mat.Matrix) error
}

// Predictor returns one prediction row per input row.
type Predictor interface {
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// BinaryClassifier is a fitted-or-fittable two-class model.
type BinaryClassifier interface {
	Fitter
	Predictor

	// DecisionFunction returns the raw margin per row; positive means the positive class.
	DecisionFunction(X mat.Matrix) (*mat.VecDense, error)

	// PredictProba returns the positive-class probability per row.
	PredictProba(X mat.Matrix) (*mat.VecDense, error)
}

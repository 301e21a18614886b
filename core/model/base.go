// Package model holds the estimator building blocks shared by the classifiers.
package model

// EstimatorState is the fitted state of an estimator.
type EstimatorState int

const (
	// NotFitted is the state before Fit succeeds.
	NotFitted EstimatorState = iota
	// Fitted is the state after Fit succeeds.
	Fitted
)

// BaseEstimator tracks the fitted state. Embed it in estimators.
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted reports whether Fit has completed.
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted marks the estimator as fitted.
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset returns the estimator to NotFitted. Fit calls it first so that a failed refit
// does not leave a stale model usable.
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}

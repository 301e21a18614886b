// Package fasttree implements a binary gradient-boosted decision tree classifier.
//
// Trees are grown leaf-wise: at every step the leaf with the largest split gain is
// split, until the tree has NumLeaves leaves or no split improves the logistic loss.
// Features are pre-binned into at most MaxBin histogram bins, and split search runs
// per feature in parallel with an ordered reduction, so a fitted model does not depend
// on the number of workers.
//
// # Basic Usage
//
//	clf := fasttree.NewClassifier(fasttree.DefaultParams())
//	if err := clf.Fit(XTrain, yTrain); err != nil {
//	    return err
//	}
//	proba, err := clf.PredictProba(XTest)
//
// Labels must be 0 or 1 and both values must be present. The decision function is the
// raw additive score; a positive score predicts the positive class and the probability
// is the logistic sigmoid of the score.
//
// # Defaults
//
// DefaultParams mirrors the usual FastTree defaults: 100 trees, 20 leaves per tree,
// learning rate 0.2, at least 10 samples per leaf and 255 bins per feature.
package fasttree

// Package fraudtree trains a gradient-boosted decision tree classifier that flags
// fraudulent credit-card transactions and reports how well it does on held-out data.
//
// The command in cmd/fraudtrain runs the whole flow:
//
//	fraudtrain --data creditcard.csv --seed 42
//
// which loads the 31-column transactions file (Time, V1..V28, Amount, Class), splits
// it 80/20, maps Class to a boolean label, assembles V1..V28 into a feature vector,
// fits the boosted trees on the training part and prints accuracy, AUC, AUPRC, F1,
// log loss, per-class precision and recall, and the confusion matrix for the test part.
//
// # Packages
//
//   - dataset: loading and the train/test split
//   - pipeline: label mapping, feature assembly and the trainer step
//   - sklearn/fasttree: the boosted-tree binary classifier
//   - metrics: binary classification metrics, the report and curve plots
//   - config: flags, environment variables and logger construction
//   - runner: the end-to-end run and exit codes
//
// # Library use
//
//	ds, err := dataset.Load("creditcard.csv", dataset.DefaultLoadOptions())
//	if err != nil {
//	    return err
//	}
//	train, test, err := dataset.TrainTestSplit(ds, 0.2, 42)
//	if err != nil {
//	    return err
//	}
//	model, err := pipeline.Build(pipeline.DefaultOptions()).Fit(train.Records)
//	if err != nil {
//	    return err
//	}
//	preds, err := model.Transform(test.Records)
//
// Errors carry stack traces from github.com/cockroachdb/errors; logging goes through
// pkg/log, which discards everything until log.SetLogger is called.
package fraudtree

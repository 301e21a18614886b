// Package runner executes a training run: load, build, split, fit, evaluate, report.
package runner

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/YuminosukeSato/fraudtree/config"
	"github.com/YuminosukeSato/fraudtree/dataset"
	"github.com/YuminosukeSato/fraudtree/metrics"
	"github.com/YuminosukeSato/fraudtree/pipeline"
	"github.com/YuminosukeSato/fraudtree/pkg/errors"
	"github.com/YuminosukeSato/fraudtree/pkg/log"
)

// Result is everything a run produced.
type Result struct {
	RunID      string
	TrainSize  int
	TestSize   int
	Steps      []string
	Model      *pipeline.Model
	Report     *metrics.MetricsReport
	CurveFiles []string
}

// Runner runs the training pipeline for one configuration.
type Runner struct {
	cfg      config.Config
	reporter Reporter
	logger   log.Logger
	runID    string
}

// New creates a Runner. A nil reporter discards progress.
func New(cfg config.Config, reporter Reporter) *Runner {
	if reporter == nil {
		reporter = NopReporter{}
	}
	runID := uuid.NewString()
	return &Runner{
		cfg:      cfg,
		reporter: reporter,
		logger:   log.GetLoggerWithName("runner").With(log.RunIDKey, runID),
		runID:    runID,
	}
}

// RunID returns the identifier attached to every log record of this run.
func (r *Runner) RunID() string {
	return r.runID
}

// Run executes the whole pipeline. Errors are returned unchanged so callers can tell
// the error kinds apart; see ExitCode.
func (r *Runner) Run() (*Result, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	res := &Result{RunID: r.runID}

	r.logger.Info("Starting training run",
		log.PathKey, r.cfg.DataPath,
		log.TestFractionKey, r.cfg.TestFraction,
		log.RandomSeedKey, r.cfg.Seed)

	r.reporter.Begin("Loading data")
	ds, err := r.load()
	if err != nil {
		return nil, err
	}
	r.reporter.Done()

	r.reporter.Begin("Building pipeline")
	p := pipeline.Build(r.cfg.PipelineOptions())
	res.Steps = p.Steps()
	r.reporter.Done()
	r.logger.Debug("Pipeline built", log.StepsKey, res.Steps)

	r.reporter.Begin("Training the model")
	train, test, err := dataset.TrainTestSplit(ds, r.cfg.TestFraction, r.cfg.Seed)
	if err != nil {
		return nil, err
	}
	res.TrainSize, res.TestSize = train.Len(), test.Len()
	r.logger.Info("Split data",
		log.OperationKey, log.OperationSplit,
		log.TrainSizeKey, train.Len(),
		log.TestSizeKey, test.Len())

	if res.Model, err = r.fit(p, train); err != nil {
		return nil, err
	}
	preds, err := res.Model.Transform(test.Records)
	if err != nil {
		return nil, errors.Wrap(err, "scoring the test set")
	}
	labels, scores, probs, predicted := Columns(preds)
	if res.Report, err = r.evaluate(labels, scores, probs, predicted); err != nil {
		return nil, err
	}
	r.reporter.Done()

	if r.cfg.PlotDir != "" {
		if res.CurveFiles, err = r.saveCurves(labels, scores); err != nil {
			return nil, err
		}
	}

	r.reporter.Report(res.Report)
	r.logger.Info("Training run finished", log.DurationMsKey, time.Since(start).Milliseconds())
	return res, nil
}

func (r *Runner) load() (*dataset.Dataset, error) {
	start := time.Now()
	ds, err := dataset.Load(r.cfg.DataPath, r.cfg.LoadOptions())
	if err != nil {
		return nil, err
	}

	fields := []any{
		log.OperationKey, log.OperationLoad,
		log.SamplesKey, ds.Len(),
		log.PositivesKey, ds.Positives(r.cfg.FraudLabel),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	}
	if info, err := os.Stat(r.cfg.DataPath); err == nil {
		fields = append(fields, log.SizeKey, humanize.Bytes(uint64(info.Size())))
	}
	r.logger.Info(fmt.Sprintf("Loaded %s records", humanize.Comma(int64(ds.Len()))), fields...)
	return ds, nil
}

func (r *Runner) fit(p *pipeline.Pipeline, train *dataset.Dataset) (*pipeline.Model, error) {
	start := time.Now()
	model, err := p.Fit(train.Records)
	if err != nil {
		return nil, err
	}
	clf := model.Classifier()
	r.logger.Info(fmt.Sprintf("Trained %d trees on %s records", clf.Model().NumTrees(), humanize.Comma(int64(train.Len()))),
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.NumTreesKey, clf.Model().NumTrees(),
		log.DurationMsKey, time.Since(start).Milliseconds())
	return model, nil
}

func (r *Runner) evaluate(labels []bool, scores, probs []float64, predicted []bool) (*metrics.MetricsReport, error) {
	report, err := metrics.EvaluateBinary(labels, scores, probs, predicted)
	if err != nil {
		return nil, errors.Wrap(err, "evaluating predictions")
	}
	r.logger.Info("Evaluated model",
		log.OperationKey, log.OperationEvaluate,
		log.PhaseKey, log.PhaseTesting,
		log.SamplesKey, report.NumSamples,
		log.AccuracyKey, report.Accuracy,
		log.AUCKey, report.AUC,
		log.AUPRCKey, report.AUPRC,
		log.F1Key, report.F1Score,
		log.LossKey, report.LogLoss)
	return report, nil
}

func (r *Runner) saveCurves(labels []bool, scores []float64) ([]string, error) {
	var files []string
	err := errors.SafeExecute("metrics.SaveCurves", func() (err error) {
		files, err = metrics.SaveCurves(r.cfg.PlotDir, labels, scores)
		return err
	})
	if err != nil {
		return nil, err
	}
	if files == nil {
		r.logger.Warn("Test set has a single class, curves not written", log.PathKey, r.cfg.PlotDir)
	}
	for _, f := range files {
		r.logger.Info("Wrote curve", log.PathKey, f)
	}
	return files, nil
}

// Columns splits predictions into the slices metrics.EvaluateBinary takes.
func Columns(preds []pipeline.Prediction) (labels []bool, scores, probabilities []float64, predicted []bool) {
	n := len(preds)
	labels = make([]bool, n)
	scores = make([]float64, n)
	probabilities = make([]float64, n)
	predicted = make([]bool, n)
	for i, p := range preds {
		labels[i] = p.Label
		scores[i] = p.Score
		probabilities[i] = p.Probability
		predicted[i] = p.PredictedLabel
	}
	return labels, scores, probabilities, predicted
}

package pipeline

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/fraudtree/dataset"
	"github.com/YuminosukeSato/fraudtree/pkg/errors"
	"github.com/YuminosukeSato/fraudtree/pkg/log"
	"github.com/YuminosukeSato/fraudtree/sklearn/fasttree"
)

// Options configures the pipeline.
type Options struct {
	// FraudLabelToken is the Class value that marks fraud, compared byte for byte.
	FraudLabelToken string

	// IncludeAmount appends Amount to the feature vector.
	IncludeAmount bool

	Trainer fasttree.Params
}

// DefaultOptions returns the quoted fraud token, V1..V28 features and FastTree defaults.
func DefaultOptions() Options {
	return Options{
		FraudLabelToken: dataset.DefaultFraudLabelToken,
		Trainer:         fasttree.DefaultParams(),
	}
}

// Validate checks the options and the trainer parameters.
func (o Options) Validate() error {
	if o.FraudLabelToken == "" {
		return errors.NewConfigurationError("fraud_label", "must not be empty", o.FraudLabelToken)
	}
	return o.Trainer.Validate()
}

// Pipeline is a declared sequence of steps ending in a FastTree trainer. Building one
// reads no data.
type Pipeline struct {
	opts  Options
	steps []Step
}

// TrainerStepName names the final trainer step.
const TrainerStepName = "FastTreeBinary(Label, Features)"

// Build declares label mapping, feature assembly and the trainer.
func Build(opts Options) *Pipeline {
	return &Pipeline{
		opts: opts,
		steps: []Step{
			LabelMapping(opts.FraudLabelToken),
			Concatenate(FeaturesColumn, FeatureColumns(opts.IncludeAmount)...),
		},
	}
}

// Options returns the options the pipeline was built with.
func (p *Pipeline) Options() Options {
	return p.opts
}

// Steps returns the step names in execution order, trainer last.
func (p *Pipeline) Steps() []string {
	names := make([]string, 0, len(p.steps)+1)
	for _, s := range p.steps {
		names = append(names, s.Name)
	}
	return append(names, TrainerStepName)
}

// Transform runs the transform steps, without the trainer, over records.
func (p *Pipeline) Transform(records []dataset.Record) (*Frame, error) {
	f := NewFrame(records)
	for _, s := range p.steps {
		if err := s.Apply(f); err != nil {
			return nil, errors.Wrapf(err, "step %s", s.Name)
		}
	}
	log.GetLoggerWithName("pipeline").Debug("Transformed records",
		log.PhaseKey, log.PhasePreprocessing,
		log.SamplesKey, f.Len())
	if _, ok := f.Vectors[FeaturesColumn]; !ok {
		return nil, errors.Newf("no step produced the %s column", FeaturesColumn)
	}
	return f, nil
}

// Fit transforms records and trains the classifier. Any failure, including a training
// set with a single class or a panic inside a step or the trainer, is returned as a
// TrainingError.
func (p *Pipeline) Fit(records []dataset.Record) (m *Model, err error) {
	defer func() {
		var panicErr *errors.PanicError
		if errors.As(err, &panicErr) {
			m, err = nil, errors.NewTrainingError("pipeline.Fit", err)
		}
	}()
	defer errors.Recover(&err, "pipeline.Fit")

	if err := p.opts.Validate(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.NewTrainingError("pipeline.Fit", errors.ErrEmptyData)
	}

	f, err := p.Transform(records)
	if err != nil {
		return nil, errors.NewTrainingError("pipeline.Fit", err)
	}

	X := f.Vectors[FeaturesColumn]
	y := mat.NewDense(f.Len(), 1, nil)
	positives := 0
	for i, fraud := range f.Label {
		if fraud {
			y.Set(i, 0, 1)
			positives++
		}
	}

	log.GetLoggerWithName("pipeline").Debug("Fitting pipeline",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, f.Len(),
		log.FeaturesKey, len(f.VectorNames[FeaturesColumn]),
		log.PositivesKey, positives)

	clf := fasttree.NewClassifier(p.opts.Trainer).WithFeatureNames(f.VectorNames[FeaturesColumn])
	if err := clf.Fit(X, y); err != nil {
		return nil, errors.NewTrainingError("pipeline.Fit", err)
	}
	return &Model{pipeline: p, classifier: clf}, nil
}

// Prediction is the scored output for one record.
type Prediction struct {
	Label          bool    // ground truth from the Class column
	Score          float64 // raw ensemble margin
	Probability    float64 // sigmoid of Score
	PredictedLabel bool    // Score > 0
}

// Model is a fitted pipeline.
type Model struct {
	pipeline   *Pipeline
	classifier *fasttree.Classifier
}

// Classifier returns the fitted estimator.
func (m *Model) Classifier() *fasttree.Classifier {
	return m.classifier
}

// FeatureNames returns the feature vector's source columns in order.
func (m *Model) FeatureNames() []string {
	return append([]string(nil), m.classifier.FeatureNames...)
}

// Transform applies the fitted pipeline to records.
func (m *Model) Transform(records []dataset.Record) ([]Prediction, error) {
	f, err := m.pipeline.Transform(records)
	if err != nil {
		return nil, err
	}
	X := f.Vectors[FeaturesColumn]

	scores, err := m.classifier.DecisionFunction(X)
	if err != nil {
		return nil, err
	}
	out := make([]Prediction, f.Len())
	for i := range out {
		s := scores.AtVec(i)
		out[i] = Prediction{
			Label:          f.Label[i],
			Score:          s,
			Probability:    errors.StableSigmoid(s),
			PredictedLabel: s > 0,
		}
	}
	log.GetLoggerWithName("pipeline").Debug("Scored records",
		log.OperationKey, log.OperationPredict,
		log.SamplesKey, len(out))
	return out, nil
}

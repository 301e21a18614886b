package log

// Model and operation context.
const (
	// ModelNameKey identifies the estimator, e.g. "FastTreeClassifier".
	ModelNameKey = "model.name"

	// RunIDKey identifies one invocation of the training pipeline.
	RunIDKey = "run.id"

	// OperationKey is the operation being performed: "load", "fit", "predict", "evaluate".
	OperationKey = "ml.operation"

	// ComponentKey is the package or stage emitting the record.
	ComponentKey = "ml.component"

	// PhaseKey is "training", "testing" or "preprocessing".
	PhaseKey = "ml.phase"
)

// Data shape.
const (
	SamplesKey   = "data.samples"
	FeaturesKey  = "data.features"
	PositivesKey = "data.positives"
	TrainSizeKey = "data.train_samples"
	TestSizeKey  = "data.test_samples"
	PathKey      = "data.path"
	SizeKey      = "data.size"
	StepsKey     = "pipeline.steps"
)

// Performance and metrics.
const (
	DurationMsKey  = "perf.duration_ms"
	AccuracyKey    = "metrics.accuracy"
	AUCKey         = "metrics.auc"
	AUPRCKey       = "metrics.auprc"
	F1Key          = "metrics.f1"
	LossKey        = "metrics.loss"
	IterationKey   = "training.iteration"
	LeavesKey      = "training.leaves"
	ImportanceKey  = "training.importance"
	FeatureNameKey = "training.feature"
)

// Error context.
const (
	ErrorCodeKey  = "error.code"
	ErrorTypeKey  = "error.type"
	SuggestionKey = "error.suggestion"
)

// Configuration.
const (
	LearningRateKey = "hyperparams.learning_rate"
	NumTreesKey     = "hyperparams.num_trees"
	NumLeavesKey    = "hyperparams.num_leaves"
	RandomSeedKey   = "config.random_seed"
	TestFractionKey = "config.test_fraction"
)

// Standard attribute values.
const (
	OperationLoad     = "load"
	OperationSplit    = "split"
	OperationFit      = "fit"
	OperationPredict  = "predict"
	OperationEvaluate = "evaluate"

	PhaseTraining      = "training"
	PhaseTesting       = "testing"
	PhasePreprocessing = "preprocessing"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorSingleClass       = "SINGLE_CLASS"
	ErrorFileNotFound      = "FILE_NOT_FOUND"
	ErrorDataFormat        = "DATA_FORMAT"
	ErrorTraining          = "TRAINING_FAILED"
	ErrorConfiguration     = "INVALID_CONFIGURATION"
	ErrorInternal          = "INTERNAL"
)

// Package config holds the command-line configuration of the fraud trainer.
//
// Every field can be set by flag or by environment variable; the struct tags are read
// by github.com/alexflint/go-arg.
package config

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/alexflint/go-arg"

	"github.com/YuminosukeSato/fraudtree/dataset"
	"github.com/YuminosukeSato/fraudtree/pipeline"
	"github.com/YuminosukeSato/fraudtree/pkg/errors"
	"github.com/YuminosukeSato/fraudtree/pkg/log"
	"github.com/YuminosukeSato/fraudtree/sklearn/fasttree"
)

const (
	// DefaultDataPath is the data file looked up in the working directory.
	DefaultDataPath = "creditcard.csv"

	// DefaultTestFraction is the share of records held out for evaluation.
	DefaultTestFraction = 0.2

	// Log output formats.
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// Config is the full set of options for one training run.
type Config struct {
	DataPath     string `arg:"--data,env:FRAUD_DATA" help:"path of the transactions file" placeholder:"PATH"`
	Separator    string `arg:"--separator,env:FRAUD_SEPARATOR" help:"field separator"`
	NoHeader     bool   `arg:"--no-header,env:FRAUD_NO_HEADER" help:"the file has no header row"`
	AllowQuoting bool   `arg:"--allow-quoting,env:FRAUD_ALLOW_QUOTING" help:"strip quotes from fields; the fraud label must then be given unquoted"`

	TestFraction float64 `arg:"--test-fraction,env:FRAUD_TEST_FRACTION" help:"fraction of records held out for evaluation"`
	Seed         uint64  `arg:"--seed,env:FRAUD_SEED" help:"seed for the split and the trainer"`

	IncludeAmount bool   `arg:"--include-amount,env:FRAUD_INCLUDE_AMOUNT" help:"append Amount to the feature vector"`
	FraudLabel    string `arg:"--fraud-label,env:FRAUD_LABEL_TOKEN" help:"Class token that marks fraud, compared exactly"`

	NumTrees     int     `arg:"--trees,env:FRAUD_TREES" help:"number of boosted trees"`
	NumLeaves    int     `arg:"--leaves,env:FRAUD_LEAVES" help:"maximum leaves per tree"`
	LearningRate float64 `arg:"--learning-rate,env:FRAUD_LEARNING_RATE" help:"shrinkage applied to every tree"`
	MinLeaf      int     `arg:"--min-leaf,env:FRAUD_MIN_LEAF" help:"minimum training records per leaf"`

	LogLevel  string `arg:"--log-level,env:FRAUD_LOG_LEVEL" help:"debug, info, warn or error"`
	LogFormat string `arg:"--log-format,env:FRAUD_LOG_FORMAT" help:"console or json"`

	PlotDir string `arg:"--plot-dir,env:FRAUD_PLOT_DIR" help:"write ROC and precision-recall curve images to this directory"`
	NoWait  bool   `arg:"--no-wait,env:FRAUD_NO_WAIT" help:"exit without waiting for enter"`
}

// Default returns the configuration used when no flag or variable is set.
func Default() Config {
	params := fasttree.DefaultParams()
	return Config{
		DataPath:     DefaultDataPath,
		Separator:    ",",
		TestFraction: DefaultTestFraction,
		FraudLabel:   dataset.DefaultFraudLabelToken,
		NumTrees:     params.NumTrees,
		NumLeaves:    params.NumLeaves,
		LearningRate: params.LearningRate,
		MinLeaf:      params.MinDataInLeaf,
		LogLevel:     "info",
		LogFormat:    LogFormatConsole,
	}
}

// ProgramName is the command name shown in usage and help output.
const ProgramName = "fraudtrain"

// NewParser returns a go-arg parser that fills cfg from flags and environment variables.
// Fields keep their current values unless a flag or variable sets them, so cfg is
// normally Default().
func NewParser(cfg *Config) (*arg.Parser, error) {
	return arg.NewParser(arg.Config{Program: ProgramName}, cfg)
}

// Parse applies args and the environment on top of Default.
func Parse(args []string) (Config, error) {
	cfg := Default()
	parser, err := NewParser(&cfg)
	if err != nil {
		return cfg, err
	}
	return cfg, parser.Parse(args)
}

// Validate returns a ConfigurationError naming the first invalid option.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DataPath) == "" {
		return errors.NewConfigurationError("data", "must not be empty", c.DataPath)
	}
	if utf8.RuneCountInString(c.Separator) != 1 {
		return errors.NewConfigurationError("separator", "must be a single character", c.Separator)
	}
	if err := c.LoadOptions().Validate(); err != nil {
		return err
	}
	if !(c.TestFraction > 0 && c.TestFraction < 1) {
		return errors.NewConfigurationError("test_fraction", "must be in (0, 1)", c.TestFraction)
	}
	if err := c.PipelineOptions().Validate(); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case LogFormatConsole, LogFormatJSON:
	default:
		return errors.NewConfigurationError("log_format", "must be console or json", c.LogFormat)
	}
	return nil
}

// LoadOptions returns the loader settings.
func (c Config) LoadOptions() dataset.LoadOptions {
	sep, _ := utf8.DecodeRuneInString(c.Separator)
	if c.Separator == "" {
		sep = 0
	}
	return dataset.LoadOptions{
		Separator:    sep,
		HasHeader:    !c.NoHeader,
		AllowQuoting: c.AllowQuoting,
	}
}

// PipelineOptions returns the pipeline and trainer settings.
func (c Config) PipelineOptions() pipeline.Options {
	params := fasttree.DefaultParams()
	params.NumTrees = c.NumTrees
	params.NumLeaves = c.NumLeaves
	params.LearningRate = c.LearningRate
	params.MinDataInLeaf = c.MinLeaf
	params.Seed = c.Seed
	return pipeline.Options{
		FraudLabelToken: c.FraudLabel,
		IncludeAmount:   c.IncludeAmount,
		Trainer:         params,
	}
}

// NewLogger builds the logger selected by LogFormat and LogLevel, writing to w.
func (c Config) NewLogger(w io.Writer) (log.Logger, error) {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	switch c.LogFormat {
	case LogFormatJSON:
		return log.NewSlogLogger(w, level), nil
	case LogFormatConsole:
		return log.NewZerologLogger(w, level, true), nil
	default:
		return nil, errors.NewConfigurationError("log_format", "must be console or json", c.LogFormat)
	}
}

package config

import (
	"bytes"
	"testing"

	"github.com/alexflint/go-arg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/fraudtree/dataset"
	"github.com/YuminosukeSato/fraudtree/pkg/errors"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	assert.Equal(t, "creditcard.csv", c.DataPath)
	assert.Equal(t, 0.2, c.TestFraction)
	assert.Equal(t, `"1"`, c.FraudLabel)
	assert.Equal(t, 100, c.NumTrees)
	assert.Equal(t, 20, c.NumLeaves)
	assert.Equal(t, 0.2, c.LearningRate)
	assert.Equal(t, 10, c.MinLeaf)
	assert.False(t, c.IncludeAmount)

	assert.Equal(t, dataset.DefaultLoadOptions(), c.LoadOptions())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		param  string
	}{
		{"empty data path", func(c *Config) { c.DataPath = " " }, "data"},
		{"empty separator", func(c *Config) { c.Separator = "" }, "separator"},
		{"long separator", func(c *Config) { c.Separator = ",;" }, "separator"},
		{"quote separator", func(c *Config) { c.Separator = `"` }, "separator"},
		{"fraction too large", func(c *Config) { c.TestFraction = 1.5 }, "test_fraction"},
		{"zero fraction", func(c *Config) { c.TestFraction = 0 }, "test_fraction"},
		{"empty fraud label", func(c *Config) { c.FraudLabel = "" }, "fraud_label"},
		{"zero trees", func(c *Config) { c.NumTrees = 0 }, "num_trees"},
		{"one leaf", func(c *Config) { c.NumLeaves = 1 }, "num_leaves"},
		{"zero learning rate", func(c *Config) { c.LearningRate = 0 }, "learning_rate"},
		{"zero min leaf", func(c *Config) { c.MinLeaf = 0 }, "min_data_in_leaf"},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"unknown log format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.modify(&c)

			var cfgErr *errors.ConfigurationError
			require.True(t, errors.As(c.Validate(), &cfgErr))
			assert.Equal(t, tt.param, cfgErr.Param)
		})
	}
}

func TestLoadOptions(t *testing.T) {
	c := Default()
	c.Separator = ";"
	c.NoHeader = true
	c.AllowQuoting = true

	opts := c.LoadOptions()
	assert.Equal(t, ';', opts.Separator)
	assert.False(t, opts.HasHeader)
	assert.True(t, opts.AllowQuoting)
}

func TestPipelineOptions(t *testing.T) {
	c := Default()
	c.Seed = 17
	c.NumTrees = 7
	c.IncludeAmount = true
	c.FraudLabel = "1"

	opts := c.PipelineOptions()
	assert.Equal(t, "1", opts.FraudLabelToken)
	assert.True(t, opts.IncludeAmount)
	assert.Equal(t, 7, opts.Trainer.NumTrees)
	assert.Equal(t, uint64(17), opts.Trainer.Seed)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	c := Default()
	c.LogFormat = LogFormatJSON
	logger, err := c.NewLogger(&buf)
	require.NoError(t, err)
	logger.Info("hello")
	assert.Contains(t, buf.String(), `"message":"hello"`)

	buf.Reset()
	c.LogFormat = LogFormatConsole
	c.LogLevel = "warn"
	logger, err = c.NewLogger(&buf)
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	c.LogLevel = "nope"
	_, err = c.NewLogger(&buf)
	assert.Error(t, err)
}

func TestParseFlags(t *testing.T) {
	c, err := Parse([]string{
		"--data", "x.csv",
		"--test-fraction", "0.3",
		"--seed", "7",
		"--include-amount",
		"--no-wait",
		"--separator", ";",
		"--no-header",
		"--fraud-label", "1",
		"--trees", "12",
		"--leaves", "8",
		"--learning-rate", "0.05",
		"--min-leaf", "3",
		"--log-level", "debug",
		"--log-format", "json",
		"--plot-dir", "plots",
	})
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, "x.csv", c.DataPath)
	assert.Equal(t, 0.3, c.TestFraction)
	assert.True(t, c.NoWait)
	assert.Equal(t, "plots", c.PlotDir)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, LogFormatJSON, c.LogFormat)

	load := c.LoadOptions()
	assert.Equal(t, ';', load.Separator)
	assert.False(t, load.HasHeader)
	assert.False(t, load.AllowQuoting)

	opts := c.PipelineOptions()
	assert.True(t, opts.IncludeAmount)
	assert.Equal(t, "1", opts.FraudLabelToken)
	assert.Equal(t, uint64(7), opts.Trainer.Seed)
	assert.Equal(t, 12, opts.Trainer.NumTrees)
	assert.Equal(t, 8, opts.Trainer.NumLeaves)
	assert.Equal(t, 0.05, opts.Trainer.LearningRate)
	assert.Equal(t, 3, opts.Trainer.MinDataInLeaf)
}

func TestParseNoArgsKeepsDefaults(t *testing.T) {
	c, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestParseEnvironment(t *testing.T) {
	t.Setenv("FRAUD_DATA", "env.csv")
	t.Setenv("FRAUD_TEST_FRACTION", "0.35")
	t.Setenv("FRAUD_SEED", "9")
	t.Setenv("FRAUD_INCLUDE_AMOUNT", "true")
	t.Setenv("FRAUD_LABEL_TOKEN", "1")
	t.Setenv("FRAUD_ALLOW_QUOTING", "true")
	t.Setenv("FRAUD_TREES", "5")

	c, err := Parse(nil)
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, "env.csv", c.DataPath)
	assert.Equal(t, 0.35, c.TestFraction)
	assert.True(t, c.LoadOptions().AllowQuoting)

	opts := c.PipelineOptions()
	assert.True(t, opts.IncludeAmount)
	assert.Equal(t, "1", opts.FraudLabelToken)
	assert.Equal(t, uint64(9), opts.Trainer.Seed)
	assert.Equal(t, 5, opts.Trainer.NumTrees)

	c, err = Parse([]string{"--seed", "11"})
	require.NoError(t, err)
	assert.Equal(t, uint64(11), c.Seed, "flag overrides environment")
}

func TestParseEnvironmentInvalidFraction(t *testing.T) {
	t.Setenv("FRAUD_TEST_FRACTION", "1.5")

	c, err := Parse(nil)
	require.NoError(t, err)

	var cfgErr *errors.ConfigurationError
	require.True(t, errors.As(c.Validate(), &cfgErr))
	assert.Equal(t, "test_fraction", cfgErr.Param)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]string{"--help"})
	assert.Equal(t, arg.ErrHelp, err)

	_, err = Parse([]string{"--bogus"})
	assert.Error(t, err)

	_, err = Parse([]string{"--seed", "-3"})
	assert.Error(t, err)

	_, err = Parse([]string{"--test-fraction", "abc"})
	assert.Error(t, err)
}

func TestHelpListsFlags(t *testing.T) {
	c := Default()
	parser, err := NewParser(&c)
	require.NoError(t, err)

	var buf bytes.Buffer
	parser.WriteHelp(&buf)
	for _, name := range []string{"--data", "--test-fraction", "--seed", "--include-amount", "--no-wait"} {
		assert.Contains(t, buf.String(), name)
	}
	assert.Contains(t, buf.String(), ProgramName)
}

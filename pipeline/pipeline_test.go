package pipeline

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/fraudtree/dataset"
	"github.com/YuminosukeSato/fraudtree/pkg/errors"
)

// synthRecords returns n records, every fraudEvery-th one fraudulent. Fraud rows have
// V1..V5 around -5; everything else is uniform in [-1, 1].
func synthRecords(n, fraudEvery int, seed uint64) []dataset.Record {
	r := rand.New(rand.NewPCG(seed, seed))
	records := make([]dataset.Record, n)
	for i := range records {
		var v [dataset.NumComponents]float64
		for k := range v {
			v[k] = r.Float64()*2 - 1
		}
		class := `"0"`
		if i%fraudEvery == 0 {
			class = `"1"`
			for k := 0; k < 5; k++ {
				v[k] = -4 - 2*r.Float64()
			}
		}
		records[i].Time = float64(i)
		records[i].SetComponents(v)
		records[i].Amount = 10 + 100*r.Float64()
		records[i].Class = class
	}
	return records
}

func TestIsFraudExactMatch(t *testing.T) {
	tests := []struct {
		class string
		want  bool
	}{
		{`"1"`, true},
		{`"0"`, false},
		{`1`, false},
		{`"1" `, false},
		{`'1'`, false},
		{``, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsFraud(tt.class, dataset.DefaultFraudLabelToken), "class %q", tt.class)
	}
	assert.True(t, IsFraud("1", "1"))
}

func TestLabelMapping(t *testing.T) {
	f := NewFrame([]dataset.Record{{Class: `"1"`}, {Class: `"0"`}, {Class: "1"}})
	require.NoError(t, LabelMapping(dataset.DefaultFraudLabelToken).Apply(f))
	assert.Equal(t, []bool{true, false, false}, f.Label)

	require.NoError(t, LabelMapping("1").Apply(f))
	assert.Equal(t, []bool{false, false, true}, f.Label)
}

func TestFeatureVector(t *testing.T) {
	var rec dataset.Record
	var v [dataset.NumComponents]float64
	for k := range v {
		v[k] = float64(k + 1)
	}
	rec.SetComponents(v)
	rec.Time = -7
	rec.Amount = 99
	rec.Class = `"0"`

	for _, includeAmount := range []bool{false, true} {
		opts := DefaultOptions()
		opts.IncludeAmount = includeAmount

		f, err := Build(opts).Transform([]dataset.Record{rec})
		require.NoError(t, err)

		X := f.Vectors[FeaturesColumn]
		_, cols := X.Dims()
		row := X.RawRowView(0)
		if includeAmount {
			require.Equal(t, 29, cols)
			assert.Equal(t, 99.0, row[28])
			assert.Equal(t, "Amount", f.VectorNames[FeaturesColumn][28])
		} else {
			require.Equal(t, 28, cols)
		}
		for k := 0; k < dataset.NumComponents; k++ {
			assert.Equal(t, float64(k+1), row[k])
		}
		assert.NotContains(t, row, -7.0)
		assert.NotContains(t, f.VectorNames[FeaturesColumn], "Time")
	}
}

func TestConcatenateUnknownColumn(t *testing.T) {
	for _, name := range []string{"V29", "V01", "Class", "amount"} {
		f := NewFrame([]dataset.Record{{}})
		err := Concatenate("X", "V1", name).Apply(f)
		var cfgErr *errors.ConfigurationError
		require.True(t, errors.As(err, &cfgErr), name)
		assert.Equal(t, name, cfgErr.Value)
	}
}

func TestSteps(t *testing.T) {
	steps := Build(DefaultOptions()).Steps()
	require.Len(t, steps, 3)
	assert.Equal(t, "LabelMapping", steps[0])
	assert.Contains(t, steps[1], "Concatenate(Features: V1,V2,")
	assert.NotContains(t, steps[1], "Amount")
	assert.Equal(t, TrainerStepName, steps[2])

	opts := DefaultOptions()
	opts.IncludeAmount = true
	assert.Contains(t, Build(opts).Steps()[1], "V28,Amount)")
}

func TestFitTransform(t *testing.T) {
	opts := DefaultOptions()
	opts.Trainer.NumTrees = 20
	records := synthRecords(300, 10, 1)

	model, err := Build(opts).Fit(records)
	require.NoError(t, err)
	assert.Len(t, model.FeatureNames(), 28)
	assert.True(t, model.Classifier().IsFitted())

	preds, err := model.Transform(synthRecords(100, 10, 2))
	require.NoError(t, err)
	require.Len(t, preds, 100)

	correct := 0
	for i, p := range preds {
		assert.Equal(t, i%10 == 0, p.Label)
		assert.Equal(t, p.Score > 0, p.PredictedLabel)
		assert.Greater(t, p.Probability, 0.0)
		assert.Less(t, p.Probability, 1.0)
		if p.Label == p.PredictedLabel {
			correct++
		}
	}
	assert.GreaterOrEqual(t, correct, 95)
}

func TestFitSingleClassIsTrainingError(t *testing.T) {
	records := synthRecords(50, 1000, 3)
	for i := range records {
		records[i].Class = `"0"`
	}

	_, err := Build(DefaultOptions()).Fit(records)
	var trErr *errors.TrainingError
	require.True(t, errors.As(err, &trErr), "got %v", err)
	assert.True(t, errors.Is(err, errors.ErrSingleClass))
}

func TestFitEmptyIsTrainingError(t *testing.T) {
	_, err := Build(DefaultOptions()).Fit(nil)
	var trErr *errors.TrainingError
	assert.True(t, errors.As(err, &trErr))
}

func TestFitPanicIsTrainingError(t *testing.T) {
	p := Build(DefaultOptions())
	p.steps = append(p.steps, Step{
		Name:  "Explode",
		Apply: func(*Frame) error { panic("frame column missing") },
	})

	m, err := p.Fit(synthRecords(50, 5, 3))
	assert.Nil(t, m)
	var trErr *errors.TrainingError
	require.True(t, errors.As(err, &trErr), "got %v", err)
	assert.Equal(t, "pipeline.Fit", trErr.Op)
	var panicErr *errors.PanicError
	require.True(t, errors.As(err, &panicErr))
	assert.Equal(t, "frame column missing", panicErr.PanicValue)
}

func TestOptionsValidate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())

	opts := DefaultOptions()
	opts.FraudLabelToken = ""
	var cfgErr *errors.ConfigurationError
	require.True(t, errors.As(opts.Validate(), &cfgErr))
	assert.Equal(t, "fraud_label", cfgErr.Param)

	opts = DefaultOptions()
	opts.Trainer.NumLeaves = 1
	_, err := Build(opts).Fit(synthRecords(20, 5, 4))
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "num_leaves", cfgErr.Param)
}

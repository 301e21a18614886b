package fasttree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/fraudtree/pkg/errors"
	"github.com/YuminosukeSato/fraudtree/pkg/log"
)

func labelColumn(y []float64) *mat.Dense {
	return mat.NewDense(len(y), 1, append([]float64(nil), y...))
}

func TestClassifierFitPredict(t *testing.T) {
	X, y := makeBinaryData(200)
	params := DefaultParams()
	params.NumTrees = 30

	clf := NewClassifier(params).WithFeatureNames([]string{"a", "b", "c"})
	require.NoError(t, clf.Fit(X, labelColumn(y)))
	assert.True(t, clf.IsFitted())

	scores, err := clf.DecisionFunction(X)
	require.NoError(t, err)
	proba, err := clf.PredictProba(X)
	require.NoError(t, err)
	pred, err := clf.Predict(X)
	require.NoError(t, err)

	rows, cols := pred.Dims()
	assert.Equal(t, 200, rows)
	assert.Equal(t, 1, cols)

	correct := 0
	for i := 0; i < 200; i++ {
		s, p, label := scores.AtVec(i), proba.AtVec(i), pred.At(i, 0)
		assert.True(t, p > 0 && p < 1)
		assert.Equal(t, s > 0, label == 1)
		assert.Equal(t, s > 0, p > 0.5)
		if label == y[i] {
			correct++
		}
	}
	assert.GreaterOrEqual(t, correct, 190)

	importance, err := clf.FeatureImportance()
	require.NoError(t, err)
	assert.Len(t, importance, 3)
	assert.NotNil(t, clf.Model())
}

func TestClassifierLogsImportance(t *testing.T) {
	testLogger, _ := log.NewTestLogger(log.LevelDebug)
	log.SetLogger(testLogger)
	defer log.SetLogger(nil)

	X, y := makeBinaryData(100)
	params := DefaultParams()
	params.NumTrees = 3

	clf := NewClassifier(params).WithFeatureNames([]string{"V1", "V2", "V3"})
	require.NoError(t, clf.Fit(X, labelColumn(y)))

	assert.True(t, testLogger.ContainsMessage("Feature importance"))
	assert.True(t, testLogger.ContainsField(log.FeatureNameKey, "V1"))
}

func TestClassifierSingleClass(t *testing.T) {
	X, _ := makeBinaryData(50)
	y := make([]float64, 50)

	err := NewClassifier(DefaultParams()).Fit(X, labelColumn(y))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSingleClass))
}

func TestClassifierRejectsNonBinaryLabels(t *testing.T) {
	X, y := makeBinaryData(50)
	y[3] = 2

	err := NewClassifier(DefaultParams()).Fit(X, labelColumn(y))
	var valErr *errors.ValueError
	require.True(t, errors.As(err, &valErr))
	assert.Contains(t, valErr.Message, "row 3")
}

func TestClassifierDimensionChecks(t *testing.T) {
	X, y := makeBinaryData(50)
	clf := NewClassifier(DefaultParams())

	err := clf.Fit(X, labelColumn(y[:40]))
	var dimErr *errors.DimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 0, dimErr.Axis)

	params := DefaultParams()
	params.NumTrees = 2
	clf = NewClassifier(params)
	require.NoError(t, clf.Fit(X, labelColumn(y)))

	_, err = clf.PredictProba(mat.NewDense(2, 4, nil))
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 3, dimErr.Expected)
	assert.Equal(t, 4, dimErr.Got)
}

func TestClassifierNotFitted(t *testing.T) {
	clf := NewClassifier(DefaultParams())
	X := mat.NewDense(1, 3, nil)

	tests := []struct {
		method string
		call   func() error
	}{
		{"Predict", func() error { _, err := clf.Predict(X); return err }},
		{"PredictProba", func() error { _, err := clf.PredictProba(X); return err }},
		{"DecisionFunction", func() error { _, err := clf.DecisionFunction(X); return err }},
		{"FeatureImportance", func() error { _, err := clf.FeatureImportance(); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			var nfErr *errors.NotFittedError
			require.True(t, errors.As(tt.call(), &nfErr))
			assert.Equal(t, tt.method, nfErr.Method)
		})
	}
}

func TestClassifierFailedRefitClearsModel(t *testing.T) {
	X, y := makeBinaryData(50)
	params := DefaultParams()
	params.NumTrees = 2
	clf := NewClassifier(params)
	require.NoError(t, clf.Fit(X, labelColumn(y)))

	require.Error(t, clf.Fit(X, labelColumn(make([]float64, 50))))
	assert.False(t, clf.IsFitted())
	assert.Nil(t, clf.Model())
}

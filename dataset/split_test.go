package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/fraudtree/pkg/errors"
)

func numberedDataset(n int) *Dataset {
	ds := &Dataset{Records: make([]Record, n)}
	for i := range ds.Records {
		ds.Records[i].Time = float64(i)
		ds.Records[i].Class = `"0"`
	}
	return ds
}

func TestTrainTestSplitSizes(t *testing.T) {
	train, test, err := TrainTestSplit(numberedDataset(1000), 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, 200, test.Len())
	assert.Equal(t, 800, train.Len())
}

func TestTrainTestSplitPartition(t *testing.T) {
	ds := numberedDataset(257)
	train, test, err := TrainTestSplit(ds, 0.3, 7)
	require.NoError(t, err)

	seen := make(map[float64]int)
	for _, part := range []*Dataset{train, test} {
		for i, r := range part.Records {
			seen[r.Time]++
			if i > 0 {
				assert.Less(t, part.Records[i-1].Time, r.Time, "original order is kept")
			}
		}
	}
	assert.Len(t, seen, 257)
	for id, count := range seen {
		assert.Equal(t, 1, count, "record %v", id)
	}
}

func TestTrainTestSplitRounding(t *testing.T) {
	tests := []struct {
		n        int
		fraction float64
		wantTest int
	}{
		{n: 5, fraction: 0.5, wantTest: 3},
		{n: 10, fraction: 0.25, wantTest: 3},
		{n: 10, fraction: 0.24, wantTest: 2},
		{n: 100, fraction: 0.1, wantTest: 10},
	}
	for _, tt := range tests {
		_, test, err := TrainTestSplit(numberedDataset(tt.n), tt.fraction, 1)
		require.NoError(t, err)
		assert.Equal(t, tt.wantTest, test.Len(), "n=%d fraction=%v", tt.n, tt.fraction)
	}
}

func TestTrainTestSplitDeterministic(t *testing.T) {
	ds := numberedDataset(500)

	_, a, err := TrainTestSplit(ds, 0.2, 99)
	require.NoError(t, err)
	_, b, err := TrainTestSplit(ds, 0.2, 99)
	require.NoError(t, err)
	_, c, err := TrainTestSplit(ds, 0.2, 100)
	require.NoError(t, err)

	assert.Equal(t, a.Records, b.Records)
	assert.NotEqual(t, a.Records, c.Records)
}

func TestTrainTestSplitInvalidFraction(t *testing.T) {
	for _, fraction := range []float64{0, 1, 1.5, -0.2} {
		_, _, err := TrainTestSplit(numberedDataset(100), fraction, 0)
		var cfgErr *errors.ConfigurationError
		require.True(t, errors.As(err, &cfgErr), "fraction %v", fraction)
		assert.Equal(t, "test_fraction", cfgErr.Param)
	}
}

func TestTrainTestSplitEmptyPartition(t *testing.T) {
	_, _, err := TrainTestSplit(numberedDataset(3), 0.1, 0)
	var cfgErr *errors.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, cfgErr.Reason, "empty partition")

	_, _, err = TrainTestSplit(numberedDataset(3), 0.9, 0)
	assert.True(t, errors.As(err, &cfgErr))
}

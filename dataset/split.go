package dataset

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/YuminosukeSato/fraudtree/pkg/errors"
)

// TrainTestSplit partitions ds at random into train and test sets. The test set has
// round(n*testFraction) records, rounding half away from zero. Both sets keep the
// original record order, and the same seed always selects the same records.
func TrainTestSplit(ds *Dataset, testFraction float64, seed uint64) (train, test *Dataset, err error) {
	if !(testFraction > 0 && testFraction < 1) {
		return nil, nil, errors.NewConfigurationError("test_fraction", "must be in (0, 1)", testFraction)
	}
	n := ds.Len()
	nTest := int(math.Round(float64(n) * testFraction))
	if nTest == 0 || nTest == n {
		return nil, nil, errors.NewConfigurationError("test_fraction",
			fmt.Sprintf("leaves an empty partition for %d records", n), testFraction)
	}

	r := rand.New(rand.NewPCG(seed, seed))
	inTest := make([]bool, n)
	for _, i := range r.Perm(n)[:nTest] {
		inTest[i] = true
	}

	train = &Dataset{Records: make([]Record, 0, n-nTest), Source: ds.Source}
	test = &Dataset{Records: make([]Record, 0, nTest), Source: ds.Source}
	for i := range ds.Records {
		if inTest[i] {
			test.Records = append(test.Records, ds.Records[i])
		} else {
			train.Records = append(train.Records, ds.Records[i])
		}
	}
	return train, test, nil
}

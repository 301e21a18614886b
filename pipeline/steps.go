// Package pipeline turns transaction records into a fitted fraud classifier.
//
// A Pipeline is an ordered list of pure steps over a Frame, followed by a trainer
// declaration. Steps run left to right and never touch the records themselves:
//
//	p := pipeline.Build(pipeline.DefaultOptions())
//	model, err := p.Fit(train.Records)
//	predictions, err := model.Transform(test.Records)
package pipeline

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/fraudtree/dataset"
	"github.com/YuminosukeSato/fraudtree/pkg/errors"
)

// Column names produced by the built-in steps.
const (
	LabelColumn    = "Label"
	FeaturesColumn = "Features"
)

// Frame is the working table the steps read and extend.
type Frame struct {
	Records []dataset.Record

	// Label is set by LabelMapping, one value per record.
	Label []bool

	// Vectors holds the assembled numeric columns, one row per record, with the
	// source column names of each in VectorNames.
	Vectors     map[string]*mat.Dense
	VectorNames map[string][]string
}

// NewFrame wraps records in an empty frame.
func NewFrame(records []dataset.Record) *Frame {
	return &Frame{
		Records:     records,
		Vectors:     make(map[string]*mat.Dense),
		VectorNames: make(map[string][]string),
	}
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.Records)
}

// Step is one named transformation of a Frame.
type Step struct {
	Name  string
	Apply func(f *Frame) error
}

// LabelMapping sets Label to whether Class equals token. The comparison is exact, so
// quotes and case are significant.
func LabelMapping(token string) Step {
	return Step{
		Name: "LabelMapping",
		Apply: func(f *Frame) error {
			f.Label = make([]bool, f.Len())
			for i := range f.Records {
				f.Label[i] = IsFraud(f.Records[i].Class, token)
			}
			return nil
		},
	}
}

// IsFraud reports whether a raw Class token marks fraud.
func IsFraud(class, token string) bool {
	return class == token
}

// Concatenate assembles the named numeric columns, in the given order, into the vector
// column output. Valid names are Time, V1..V28 and Amount.
func Concatenate(output string, columns ...string) Step {
	return Step{
		Name: fmt.Sprintf("Concatenate(%s: %s)", output, strings.Join(columns, ",")),
		Apply: func(f *Frame) error {
			idx := make([]int, len(columns))
			for j, name := range columns {
				k, ok := numericIndex(name)
				if !ok {
					return errors.NewConfigurationError("columns", "unknown numeric column", name)
				}
				idx[j] = k
			}
			if f.Len() == 0 {
				return errors.Wrap(errors.ErrEmptyData, "Concatenate")
			}

			X := mat.NewDense(f.Len(), len(columns), nil)
			for i := range f.Records {
				values := numericValues(&f.Records[i])
				row := X.RawRowView(i)
				for j, k := range idx {
					row[j] = values[k]
				}
			}
			f.Vectors[output] = X
			f.VectorNames[output] = append([]string(nil), columns...)
			return nil
		},
	}
}

// FeatureColumns returns V1..V28, followed by Amount when includeAmount is set.
func FeatureColumns(includeAmount bool) []string {
	cols := dataset.ComponentNames()
	if includeAmount {
		cols = append(cols, "Amount")
	}
	return cols
}

// numericIndex returns the position of a numeric column in file order.
func numericIndex(name string) (int, bool) {
	names := dataset.ColumnNames()
	for i, n := range names[:len(names)-1] {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// numericValues returns Time, V1..V28 and Amount in file order.
func numericValues(r *dataset.Record) [dataset.NumColumns - 1]float64 {
	var out [dataset.NumColumns - 1]float64
	out[0] = r.Time
	c := r.Components()
	copy(out[1:], c[:])
	out[dataset.NumColumns-2] = r.Amount
	return out
}

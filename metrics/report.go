package metrics

import (
	"fmt"
	"io"
	"strings"

	"github.com/YuminosukeSato/fraudtree/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// MetricsReport summarizes a binary classifier on held-out data.
type MetricsReport struct {
	Accuracy          float64
	AUC               float64
	AUPRC             float64
	F1Score           float64
	LogLoss           float64
	LogLossReduction  float64
	PositivePrecision float64
	PositiveRecall    float64
	NegativePrecision float64
	NegativeRecall    float64

	ConfusionMatrix ConfusionMatrix
	NumSamples      int
}

// Metric is one named value of a report.
type Metric struct {
	Name  string
	Value float64
}

// Metrics returns the report values in print order.
func (r *MetricsReport) Metrics() []Metric {
	return []Metric{
		{"Accuracy", r.Accuracy},
		{"Auc", r.AUC},
		{"Auprc", r.AUPRC},
		{"F1Score", r.F1Score},
		{"LogLoss", r.LogLoss},
		{"LogLossReduction", r.LogLossReduction},
		{"PositivePrecision", r.PositivePrecision},
		{"PositiveRecall", r.PositiveRecall},
		{"NegativePrecision", r.NegativePrecision},
		{"NegativeRecall", r.NegativeRecall},
	}
}

// EvaluateBinary scores predictions against labels. scores rank the samples for the
// curve metrics, probabilities feed the log loss and predicted gives the confusion matrix.
// All four slices must have the same non-zero length.
func EvaluateBinary(labels []bool, scores, probabilities []float64, predicted []bool) (*MetricsReport, error) {
	n := len(labels)
	if n == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "EvaluateBinary")
	}
	for _, got := range []int{len(scores), len(probabilities), len(predicted)} {
		if got != n {
			return nil, errors.NewDimensionError("EvaluateBinary", n, got, 0)
		}
	}

	yTrue := boolVec(labels)
	yPred := boolVec(predicted)
	yScore := mat.NewVecDense(n, append([]float64(nil), scores...))
	yProb := mat.NewVecDense(n, append([]float64(nil), probabilities...))

	cm, err := NewConfusionMatrix(yTrue, yPred)
	if err != nil {
		return nil, err
	}
	auc, err := AUC(yTrue, yScore)
	if err != nil {
		return nil, err
	}
	auprc, err := AveragePrecision(yTrue, yScore)
	if err != nil {
		return nil, err
	}
	logLoss, err := BinaryLogLoss(yTrue, yProb)
	if err != nil {
		return nil, err
	}
	positiveRate := float64(cm.TruePositives+cm.FalseNegatives) / float64(n)

	return &MetricsReport{
		Accuracy:          cm.Accuracy(),
		AUC:               auc,
		AUPRC:             auprc,
		F1Score:           cm.F1Score(),
		LogLoss:           logLoss,
		LogLossReduction:  LogLossReduction(logLoss, positiveRate),
		PositivePrecision: cm.PositivePrecision(),
		PositiveRecall:    cm.PositiveRecall(),
		NegativePrecision: cm.NegativePrecision(),
		NegativeRecall:    cm.NegativeRecall(),
		ConfusionMatrix:   cm,
		NumSamples:        n,
	}, nil
}

func boolVec(b []bool) *mat.VecDense {
	v := mat.NewVecDense(len(b), nil)
	for i, x := range b {
		if x {
			v.SetVec(i, 1)
		}
	}
	return v
}

// WriteTo writes the metrics block, one "  Name: value" line per metric.
func (r *MetricsReport) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	b.WriteString("Model metrics:\n")
	for _, m := range r.Metrics() {
		fmt.Fprintf(&b, "  %-18s %v\n", m.Name+":", m.Value)
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// WriteConfusionMatrix writes the counts as a two-by-two table, rows by true class.
func (r *MetricsReport) WriteConfusionMatrix(w io.Writer) error {
	cm := r.ConfusionMatrix
	_, err := fmt.Fprintf(w,
		"Confusion matrix (rows: truth, columns: prediction):\n"+
			"  %-10s %10s %10s\n"+
			"  %-10s %10d %10d\n"+
			"  %-10s %10d %10d\n",
		"", "positive", "negative",
		"positive", cm.TruePositives, cm.FalseNegatives,
		"negative", cm.FalsePositives, cm.TrueNegatives)
	return err
}

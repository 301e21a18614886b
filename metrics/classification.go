// Package metrics evaluates binary classifiers.
package metrics

import (
	"math"
	"sort"

	"github.com/YuminosukeSato/fraudtree/pkg/errors"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// logLossEpsilon bounds predicted probabilities away from 0 and 1.
const logLossEpsilon = 1e-15

func checkPair(op string, yTrue, yPred *mat.VecDense) (int, error) {
	if yTrue == nil || yPred == nil || yTrue.Len() == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}
	n := yTrue.Len()
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

func checkBinary(op string, y *mat.VecDense) error {
	for i := 0; i < y.Len(); i++ {
		if v := y.AtVec(i); v != 0 && v != 1 {
			return errors.NewValueError(op, "labels must be 0 or 1")
		}
	}
	return nil
}

// firstColumn copies the first column of m into a vector.
func firstColumn(op string, m mat.Matrix) (*mat.VecDense, error) {
	if m == nil {
		return nil, errors.NewValueError(op, "nil matrix")
	}
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewValueError(op, "empty matrix")
	}
	return mat.NewVecDense(r, mat.Col(nil, 0, m)), nil
}

// Accuracy returns the fraction of predictions equal to the true labels.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// ClassificationError returns 1 - Accuracy.
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

// AUC returns the area under the ROC curve of yScore against binary yTrue. Tied scores
// form a single step of the curve. When yTrue holds a single class the area is
// undefined and 0.5 is returned.
func AUC(yTrue, yScore *mat.VecDense) (float64, error) {
	fpr, tpr, err := ROCCurve(yTrue, yScore)
	if err != nil {
		return 0, err
	}
	if fpr == nil {
		return 0.5, nil
	}
	return integrate.Trapezoidal(fpr, tpr), nil
}

// AUCMatrix is AUC over the first column of each matrix.
func AUCMatrix(yTrue, yScore mat.Matrix) (float64, error) {
	t, err := firstColumn("AUCMatrix", yTrue)
	if err != nil {
		return 0, err
	}
	s, err := firstColumn("AUCMatrix", yScore)
	if err != nil {
		return 0, err
	}
	return AUC(t, s)
}

// ROCCurve returns false and true positive rates in increasing order of false positive
// rate, starting at (0, 0) and ending at (1, 1). Both slices are nil when yTrue holds a
// single class.
func ROCCurve(yTrue, yScore *mat.VecDense) (fpr, tpr []float64, err error) {
	n, err := checkPair("ROCCurve", yTrue, yScore)
	if err != nil {
		return nil, nil, err
	}
	if err := checkBinary("ROCCurve", yTrue); err != nil {
		return nil, nil, err
	}

	scores := make([]float64, n)
	classes := make([]bool, n)
	positives := 0
	for i := 0; i < n; i++ {
		scores[i] = yScore.AtVec(i)
		classes[i] = yTrue.AtVec(i) == 1
		if classes[i] {
			positives++
		}
	}
	if positives == 0 || positives == n {
		return nil, nil, nil
	}

	stat.SortWeightedLabeled(scores, classes, nil)
	tpr, fpr, _ = stat.ROC(nil, scores, classes, nil)
	return fpr, tpr, nil
}

// AveragePrecision summarizes the precision-recall curve as the recall-weighted mean of
// precision at each distinct score threshold, ranking by descending score. It is 0 when
// there are no positives.
func AveragePrecision(yTrue, yScore *mat.VecDense) (float64, error) {
	recall, precision, err := PrecisionRecallCurve(yTrue, yScore)
	if err != nil {
		return 0, err
	}
	ap := 0.0
	prev := 0.0
	for i := range recall {
		ap += (recall[i] - prev) * precision[i]
		prev = recall[i]
	}
	return ap, nil
}

// PrecisionRecallCurve returns one (recall, precision) point per distinct score, from
// the highest score down. Both slices are nil when there are no positives.
func PrecisionRecallCurve(yTrue, yScore *mat.VecDense) (recall, precision []float64, err error) {
	n, err := checkPair("PrecisionRecallCurve", yTrue, yScore)
	if err != nil {
		return nil, nil, err
	}
	if err := checkBinary("PrecisionRecallCurve", yTrue); err != nil {
		return nil, nil, err
	}

	positives := 0
	order := make([]int, n)
	for i := range order {
		order[i] = i
		if yTrue.AtVec(i) == 1 {
			positives++
		}
	}
	if positives == 0 {
		return nil, nil, nil
	}
	sort.SliceStable(order, func(a, b int) bool {
		return yScore.AtVec(order[a]) > yScore.AtVec(order[b])
	})

	tp, fp := 0, 0
	for i := 0; i < n; {
		s := yScore.AtVec(order[i])
		for ; i < n && yScore.AtVec(order[i]) == s; i++ {
			if yTrue.AtVec(order[i]) == 1 {
				tp++
			} else {
				fp++
			}
		}
		recall = append(recall, float64(tp)/float64(positives))
		precision = append(precision, float64(tp)/float64(tp+fp))
	}
	return recall, precision, nil
}

// BinaryLogLoss returns the mean negative log-likelihood (natural log) of yTrue under
// the predicted positive-class probabilities, clipped to [1e-15, 1-1e-15].
func BinaryLogLoss(yTrue, yProb *mat.VecDense) (float64, error) {
	n, err := checkPair("BinaryLogLoss", yTrue, yProb)
	if err != nil {
		return 0, err
	}
	if err := checkBinary("BinaryLogLoss", yTrue); err != nil {
		return 0, err
	}

	sum := 0.0
	for i := 0; i < n; i++ {
		p := errors.ClipValue(yProb.AtVec(i), logLossEpsilon, 1-logLossEpsilon)
		if yTrue.AtVec(i) == 1 {
			sum -= math.Log(p)
		} else {
			sum -= math.Log(1 - p)
		}
	}
	return sum / float64(n), nil
}

// PriorLogLoss is the log loss of always predicting positiveRate, the entropy of the
// label distribution in nats.
func PriorLogLoss(positiveRate float64) float64 {
	if positiveRate <= 0 || positiveRate >= 1 {
		return 0
	}
	return -positiveRate*math.Log(positiveRate) - (1-positiveRate)*math.Log(1-positiveRate)
}

// LogLossReduction is 1 - logLoss/prior: 1 for a perfect model, 0 for one no better
// than the label prior, negative for a worse one. A zero prior yields 0 and a warning.
func LogLossReduction(logLoss, positiveRate float64) float64 {
	prior := PriorLogLoss(positiveRate)
	if prior == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("LogLossReduction", "a single class in the labels", 0))
		return 0
	}
	return 1 - logLoss/prior
}

// ConfusionMatrix holds the binary outcome counts, with 1 as the positive class.
type ConfusionMatrix struct {
	TruePositives  int
	FalsePositives int
	TrueNegatives  int
	FalseNegatives int
}

// NewConfusionMatrix counts outcomes of binary predictions.
func NewConfusionMatrix(yTrue, yPred *mat.VecDense) (ConfusionMatrix, error) {
	var cm ConfusionMatrix
	n, err := checkPair("ConfusionMatrix", yTrue, yPred)
	if err != nil {
		return cm, err
	}
	if err := checkBinary("ConfusionMatrix", yTrue); err != nil {
		return cm, err
	}
	if err := checkBinary("ConfusionMatrix", yPred); err != nil {
		return cm, err
	}
	for i := 0; i < n; i++ {
		actual, predicted := yTrue.AtVec(i) == 1, yPred.AtVec(i) == 1
		switch {
		case actual && predicted:
			cm.TruePositives++
		case !actual && predicted:
			cm.FalsePositives++
		case !actual && !predicted:
			cm.TrueNegatives++
		default:
			cm.FalseNegatives++
		}
	}
	return cm, nil
}

// Total returns the number of counted samples.
func (cm ConfusionMatrix) Total() int {
	return cm.TruePositives + cm.FalsePositives + cm.TrueNegatives + cm.FalseNegatives
}

// Accuracy returns (TP+TN)/total, or 0 for an empty matrix.
func (cm ConfusionMatrix) Accuracy() float64 {
	return errors.SafeDivide(float64(cm.TruePositives+cm.TrueNegatives), float64(cm.Total()))
}

// PositivePrecision returns TP/(TP+FP).
func (cm ConfusionMatrix) PositivePrecision() float64 {
	return ratio("PositivePrecision", "no predicted positives", cm.TruePositives, cm.TruePositives+cm.FalsePositives)
}

// PositiveRecall returns TP/(TP+FN).
func (cm ConfusionMatrix) PositiveRecall() float64 {
	return ratio("PositiveRecall", "no true positives in the labels", cm.TruePositives, cm.TruePositives+cm.FalseNegatives)
}

// NegativePrecision returns TN/(TN+FN).
func (cm ConfusionMatrix) NegativePrecision() float64 {
	return ratio("NegativePrecision", "no predicted negatives", cm.TrueNegatives, cm.TrueNegatives+cm.FalseNegatives)
}

// NegativeRecall returns TN/(TN+FP).
func (cm ConfusionMatrix) NegativeRecall() float64 {
	return ratio("NegativeRecall", "no true negatives in the labels", cm.TrueNegatives, cm.TrueNegatives+cm.FalsePositives)
}

// F1Score returns the harmonic mean of positive precision and recall. It is 0, with a
// warning, when both are 0.
func (cm ConfusionMatrix) F1Score() float64 {
	p, r := cm.PositivePrecision(), cm.PositiveRecall()
	if p+r == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("F1Score", "precision and recall both 0", 0))
		return 0
	}
	return 2 * p * r / (p + r)
}

// ratio is num/den, or 0 with an UndefinedMetricWarning when den is 0.
func ratio(metric, condition string, num, den int) float64 {
	if den == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning(metric, condition, 0))
		return 0
	}
	return float64(num) / float64(den)
}

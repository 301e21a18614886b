package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/YuminosukeSato/fraudtree/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Curve file names written by SaveCurves.
const (
	ROCCurveFile = "roc_curve.png"
	PRCurveFile  = "pr_curve.png"
)

// SaveCurves plots the ROC and precision-recall curves of scores against labels into
// dir, creating it if needed, and returns the written paths. Nothing is written when
// labels hold a single class.
func SaveCurves(dir string, labels []bool, scores []float64) ([]string, error) {
	if len(labels) != len(scores) {
		return nil, errors.NewDimensionError("SaveCurves", len(labels), len(scores), 0)
	}
	if len(labels) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "SaveCurves")
	}
	yTrue := boolVec(labels)
	yScore := mat.NewVecDense(len(scores), append([]float64(nil), scores...))

	fpr, tpr, err := ROCCurve(yTrue, yScore)
	if err != nil {
		return nil, err
	}
	if fpr == nil {
		return nil, nil
	}
	recall, precision, err := PrecisionRecallCurve(yTrue, yScore)
	if err != nil {
		return nil, err
	}
	auc, err := AUC(yTrue, yScore)
	if err != nil {
		return nil, err
	}
	ap, err := AveragePrecision(yTrue, yScore)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating plot directory %s", dir)
	}

	rocPath := filepath.Join(dir, ROCCurveFile)
	err = saveLinePlot(rocPath,
		fmt.Sprintf("ROC curve (AUC = %.4f)", auc),
		"False positive rate", "True positive rate",
		xys(fpr, tpr), plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		return nil, err
	}

	// The curve starts at recall 0 with the precision of the top-ranked group.
	prX := append([]float64{0}, recall...)
	prY := append([]float64{precision[0]}, precision...)
	prPath := filepath.Join(dir, PRCurveFile)
	err = saveLinePlot(prPath,
		fmt.Sprintf("Precision-recall curve (AP = %.4f)", ap),
		"Recall", "Precision",
		xys(prX, prY), nil)
	if err != nil {
		return nil, err
	}

	return []string{rocPath, prPath}, nil
}

func xys(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	return pts
}

// saveLinePlot draws curve, and reference as a dashed line when non-nil, into a PNG.
func saveLinePlot(path, title, xLabel, yLabel string, curve, reference plotter.XYs) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	p.Add(plotter.NewGrid())

	l, err := plotter.NewLine(curve)
	if err != nil {
		return errors.Wrap(err, "building curve")
	}
	l.LineStyle.Width = vg.Points(2)
	p.Add(l)

	if reference != nil {
		ref, err := plotter.NewLine(reference)
		if err != nil {
			return errors.Wrap(err, "building reference line")
		}
		ref.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		p.Add(ref)
	}

	if err := p.Save(5*vg.Inch, 5*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "saving plot %s", path)
	}
	return nil
}

package runner

import (
	"fmt"
	"io"

	"github.com/YuminosukeSato/fraudtree/metrics"
	"github.com/YuminosukeSato/fraudtree/pkg/log"
)

// Reporter receives user-facing progress. Core code never prints directly.
type Reporter interface {
	// Begin announces a step, e.g. "Loading data".
	Begin(step string)
	// Done marks the current step as finished.
	Done()
	// Report presents the evaluation of the trained model.
	Report(r *metrics.MetricsReport)
}

// ConsoleReporter writes "Step...done!" lines followed by the metrics block and the
// confusion matrix. Output stops at the first failed write; the error is logged once and
// kept for Err.
type ConsoleReporter struct {
	w      io.Writer
	err    error
	logger log.Logger
}

// NewConsoleReporter creates a ConsoleReporter writing to w.
func NewConsoleReporter(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{w: w, logger: log.GetLoggerWithName("runner.reporter")}
}

// Write implements io.Writer and records the first error.
func (c *ConsoleReporter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	if err != nil {
		c.err = err
		c.logger.Warn("Progress output failed", log.ErrAttrKey, err)
	}
	return n, err
}

// Err returns the first write error, if any.
func (c *ConsoleReporter) Err() error {
	return c.err
}

func (c *ConsoleReporter) Begin(step string) {
	fmt.Fprintf(c, "%s...", step)
}

func (c *ConsoleReporter) Done() {
	fmt.Fprintln(c, "done!")
}

// Report writes the metrics block and the confusion matrix. Write errors surface
// through Err.
func (c *ConsoleReporter) Report(r *metrics.MetricsReport) {
	fmt.Fprintln(c)
	if _, err := r.WriteTo(c); err != nil {
		return
	}
	fmt.Fprintln(c)
	if err := r.WriteConfusionMatrix(c); err != nil {
		return
	}
	fmt.Fprintln(c)
}

// NopReporter discards everything.
type NopReporter struct{}

func (NopReporter) Begin(string)                  {}
func (NopReporter) Done()                         {}
func (NopReporter) Report(*metrics.MetricsReport) {}

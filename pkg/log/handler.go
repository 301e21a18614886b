package log

import (
	"context"
	"log/slog"

	crdb "github.com/cockroachdb/errors"

	"github.com/YuminosukeSato/fraudtree/pkg/errors"
)

// errorHandler enriches records that carry an error under ErrAttrKey with the error's
// kind (ErrorTypeKey) and the stack recorded by cockroachdb/errors (StacktraceAttrKey).
type errorHandler struct {
	next slog.Handler
}

// NewErrorHandler wraps next with error enrichment.
func NewErrorHandler(next slog.Handler) slog.Handler {
	return &errorHandler{next: next}
}

func (h *errorHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.next.Enabled(ctx, l)
}

func (h *errorHandler) Handle(ctx context.Context, r slog.Record) error {
	var (
		err     error
		hasKind bool
	)
	r.Attrs(func(attr slog.Attr) bool {
		switch attr.Key {
		case ErrAttrKey:
			err, _ = attr.Value.Any().(error)
		case ErrorTypeKey:
			hasKind = true
		}
		return true
	})
	if err == nil {
		return h.next.Handle(ctx, r)
	}
	if !hasKind {
		r.AddAttrs(slog.String(ErrorTypeKey, ErrorKind(err)))
	}
	if stack := stacktrace(err); stack != "" {
		r.AddAttrs(slog.String(StacktraceAttrKey, stack))
	}
	return h.next.Handle(ctx, r)
}

func (h *errorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &errorHandler{next: h.next.WithAttrs(attrs)}
}

func (h *errorHandler) WithGroup(g string) slog.Handler {
	return &errorHandler{next: h.next.WithGroup(g)}
}

// ErrorKind names the first fraudtree error kind in err's chain, or "Error".
func ErrorKind(err error) string {
	var (
		fnf *errors.FileNotFoundError
		df  *errors.DataFormatError
		cfg *errors.ConfigurationError
		tr  *errors.TrainingError
		nf  *errors.NotFittedError
		dim *errors.DimensionError
		val *errors.ValueError
		num *errors.NumericalInstabilityError
		pe  *errors.PanicError
	)
	switch {
	case errors.As(err, &fnf):
		return "FileNotFoundError"
	case errors.As(err, &df):
		return "DataFormatError"
	case errors.As(err, &cfg):
		return "ConfigurationError"
	case errors.As(err, &tr):
		return "TrainingError"
	case errors.As(err, &nf):
		return "NotFittedError"
	case errors.As(err, &dim):
		return "DimensionError"
	case errors.As(err, &val):
		return "ValueError"
	case errors.As(err, &num):
		return "NumericalInstabilityError"
	case errors.As(err, &pe):
		return "PanicError"
	}
	return "Error"
}

// stacktrace returns the first safe detail recorded by errors.WithStack, which holds
// the formatted call stack.
func stacktrace(err error) string {
	if details := crdb.GetSafeDetails(err).SafeDetails; len(details) > 0 {
		return details[0]
	}
	return ""
}

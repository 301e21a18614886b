package runner

import (
	"github.com/YuminosukeSato/fraudtree/pkg/errors"
	"github.com/YuminosukeSato/fraudtree/pkg/log"
)

// Process exit codes.
const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitConfiguration = 2
	ExitFileNotFound  = 3
	ExitDataFormat    = 4
	ExitTraining      = 5
)

// ExitCode maps an error returned by Run to the process exit status.
func ExitCode(err error) int {
	var (
		cfgErr *errors.ConfigurationError
		fnfErr *errors.FileNotFoundError
		dfErr  *errors.DataFormatError
		trErr  *errors.TrainingError
	)
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &cfgErr):
		return ExitConfiguration
	case errors.As(err, &fnfErr):
		return ExitFileNotFound
	case errors.As(err, &dfErr):
		return ExitDataFormat
	case errors.As(err, &trErr):
		return ExitTraining
	default:
		return ExitFailure
	}
}

// ErrorCode returns the log error code for err, or "" for nil.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	switch ExitCode(err) {
	case ExitConfiguration:
		return log.ErrorConfiguration
	case ExitFileNotFound:
		return log.ErrorFileNotFound
	case ExitDataFormat:
		return log.ErrorDataFormat
	case ExitTraining:
		if errors.Is(err, errors.ErrSingleClass) {
			return log.ErrorSingleClass
		}
		if errors.Is(err, errors.ErrEmptyData) {
			return log.ErrorEmptyData
		}
		return log.ErrorTraining
	}
	var (
		nfErr  *errors.NotFittedError
		dimErr *errors.DimensionError
	)
	switch {
	case errors.As(err, &nfErr):
		return log.ErrorNotFitted
	case errors.As(err, &dimErr):
		return log.ErrorDimensionMismatch
	}
	return log.ErrorInternal
}

// Suggestion returns a hint for fixing err, or "".
func Suggestion(err error) string {
	switch ErrorCode(err) {
	case log.ErrorFileNotFound:
		return "pass the data file with --data or FRAUD_DATA"
	case log.ErrorDataFormat:
		return "each row needs 31 fields: Time, V1..V28, Amount, Class"
	case log.ErrorSingleClass:
		return "the training split has no fraud or only fraud; check --fraud-label and --allow-quoting"
	case log.ErrorConfiguration:
		return "run with --help to list the valid options"
	}
	return ""
}

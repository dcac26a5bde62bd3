// Package errors provides error handling and the warning system for phenogo.
// It mirrors the exception/warning taxonomy of established model-fitting
// libraries: configuration and validation problems fail fast with structured
// errors, while non-fatal conditions such as an optimizer exhausting its
// budget are emitted as warnings through a configurable handler.
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================

var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		log.Printf("phenogo-warning: %v\n", w)
	}
	// zerolog sink, injected lazily to avoid a circular import with pkg/log.
	zerologWarnFunc func(warning error)
)

// SetWarningHandler sets the handler invoked for all phenogo warnings.
// Use it to silence or redirect warnings such as ConvergenceWarning:
//
//	errors.SetWarningHandler(func(w error) {})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc wires a zerolog-backed sink for warnings.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn emits a warning. When a zerolog sink has been registered it takes
// precedence over the plain handler.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}
	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	Warning types
//
// ===========================================================================

// ConvergenceWarning is emitted when the fit engine exhausts its evaluation
// budget without meeting the convergence tolerance. It is non-fatal: the
// best parameters found so far are still assigned to the model.
type ConvergenceWarning struct {
	Method      string
	Evaluations int
	BestLoss    float64
	Message     string
}

func (w *ConvergenceWarning) Error() string {
	if w.Message != "" {
		return fmt.Sprintf("%s did not converge after %d evaluations: %s", w.Method, w.Evaluations, w.Message)
	}
	return fmt.Sprintf("%s did not converge after %d evaluations (best loss %.4f). Consider increasing MaxIter or loosening Tol.",
		w.Method, w.Evaluations, w.BestLoss)
}

// MarshalZerologObject adds structured warning fields to a zerolog event.
func (w *ConvergenceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("method", w.Method).
		Int("evaluations", w.Evaluations).
		Float64("best_loss", w.BestLoss).
		Str("message", w.Message).
		Str("type", "ConvergenceWarning")
}

// NewConvergenceWarning creates a new ConvergenceWarning.
func NewConvergenceWarning(method string, evaluations int, bestLoss float64) *ConvergenceWarning {
	return &ConvergenceWarning{Method: method, Evaluations: evaluations, BestLoss: bestLoss}
}

// DroppedDataWarning is emitted when observations are dropped because no
// matching predictor series exists for their site and year.
type DroppedDataWarning struct {
	Dropped int
	Total   int
	Missing []string // "site/year" keys without predictor coverage
}

func (w *DroppedDataWarning) Error() string {
	return fmt.Sprintf("dropped %d of %d observations because of missing predictor data (missing: %v)",
		w.Dropped, w.Total, w.Missing)
}

// MarshalZerologObject adds structured warning fields to a zerolog event.
func (w *DroppedDataWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Int("dropped", w.Dropped).
		Int("total", w.Total).
		Strs("missing", w.Missing).
		Str("type", "DroppedDataWarning")
}

// NewDroppedDataWarning creates a new DroppedDataWarning.
func NewDroppedDataWarning(dropped, total int, missing []string) *DroppedDataWarning {
	return &DroppedDataWarning{Dropped: dropped, Total: total, Missing: missing}
}

// ===========================================================================
//
//	Structured error types
//
// ===========================================================================

// NotFittedError is returned when Predict or Score is called on a model
// whose parameters have not all been set, either by Fit or at construction.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("phenogo: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace attached.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// ConfigurationError is returned for invalid parameter names or values at
// model construction or in SetParams: unknown parameter names, assignment
// to a fixed parameter, or malformed bounds.
type ConfigurationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("phenogo: invalid configuration for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *ConfigurationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ConfigurationError")
}

// NewConfigurationError creates a ConfigurationError with a stack trace attached.
func NewConfigurationError(param, reason string, value interface{}) error {
	err := &ConfigurationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValidationError is returned when predictor or observation inputs fail
// validation at a call boundary: a required predictor series is missing,
// a day-of-year index is not monotonic, values contain NaN, or an
// observation references a site/year absent from the predictor data.
type ValidationError struct {
	Op     string
	Reason string
	Value  interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("phenogo: %s: validation failed: %s (got: %v)", e.Op, e.Reason, e.Value)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a ValidationError with a stack trace attached.
func NewValidationError(op, reason string, value interface{}) error {
	err := &ValidationError{Op: op, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// DataFormatError is returned when a tabular input file does not match the
// expected schema: a required column is missing, a cell cannot be parsed,
// or the table is empty.
type DataFormatError struct {
	Table  string
	Column string
	Row    int // 1-based data row, 0 when not row-specific
	Reason string
}

func (e *DataFormatError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("phenogo: %s: bad data format in column '%s' at row %d: %s", e.Table, e.Column, e.Row, e.Reason)
	}
	return fmt.Sprintf("phenogo: %s: bad data format in column '%s': %s", e.Table, e.Column, e.Reason)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *DataFormatError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("table", e.Table).
		Str("column", e.Column).
		Int("row", e.Row).
		Str("reason", e.Reason).
		Str("type", "DataFormatError")
}

// NewDataFormatError creates a DataFormatError with a stack trace attached.
func NewDataFormatError(table, column string, row int, reason string) error {
	err := &DataFormatError{Table: table, Column: column, Row: row, Reason: reason}
	return errors.WithStack(err)
}

// ValueError is returned when an argument value is invalid or out of range,
// such as an unknown model name, loss method, or optimizer preset.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("phenogo: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace attached.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// DimensionError is returned when the size of an input does not match what
// a computation expects, such as observation and prediction vectors of
// different lengths.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("phenogo: %s: length mismatch. Expected %d, got %d", e.Op, e.Expected, e.Got)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace attached.
func NewDimensionError(op string, expected, got int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain assignable to target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates err with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Common sentinel errors
//
// ===========================================================================

var (
	// ErrEmptyData is returned when an empty observation or predictor table is passed.
	ErrEmptyData = New("empty data")

	// ErrNothingToFit is returned when Fit is called on a model whose parameters are all fixed.
	ErrNothingToFit = New("all parameters are fixed, nothing to estimate")

	// ErrFileExists is returned by SaveParams when the target file exists and overwrite is false.
	ErrFileExists = New("file exists, pass overwrite to replace it")
)

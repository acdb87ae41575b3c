package params

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Every typed error below matches exactly one of them via errors.Is.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrDataFormat    = errors.New("data format error")
	ErrRange         = errors.New("range error")
)

// ConfigurationError reports an invalid or missing required constant.
// It is returned before any simulation work starts.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// DataFormatError reports a malformed real-data value for a single period.
type DataFormatError struct {
	Period int
	Field  string
	Value  string
	Err    error
}

func (e *DataFormatError) Error() string {
	msg := fmt.Sprintf("data format error: period %d %s %q", e.Period, e.Field, e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DataFormatError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDataFormat}
	}
	return []error{ErrDataFormat, e.Err}
}

// RangeError reports a computed value outside its domain after clamping ran.
type RangeError struct {
	What  string
	Value float64
	Min   float64
	Max   float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("range error: %s = %g outside [%g, %g]", e.What, e.Value, e.Min, e.Max)
}

func (e *RangeError) Unwrap() error { return ErrRange }

func configErr(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrAuthentication = errors.New("authentication failed")
	ErrNoData         = errors.New("no data available")
	ErrFilterEmpty    = errors.New("no sample in the active half of the day")
	ErrUpstream       = errors.New("upstream error")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindAuthentication ErrorKind = "authentication"
	KindNoData         ErrorKind = "no_data"
	KindFilterEmpty    ErrorKind = "filter_empty"
	KindUpstream       ErrorKind = "upstream"
)

var kindSentinels = map[ErrorKind]error{
	KindAuthentication: ErrAuthentication,
	KindNoData:         ErrNoData,
	KindFilterEmpty:    ErrFilterEmpty,
	KindUpstream:       ErrUpstream,
}

// OpError wraps an underlying error with operation context and a kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	Date string // Optional: calendar date requested
	Err  error
}

// NewOpError builds an OpError of the given kind.
func NewOpError(op string, kind ErrorKind, date string, err error) *OpError {
	return &OpError{Op: op, Kind: kind, Date: date, Err: err}
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Date != "" {
		base += fmt.Sprintf(" (date=%s)", e.Date)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is lets errors.Is match an OpError against its kind's sentinel.
func (e *OpError) Is(target error) bool {
	if e == nil {
		return false
	}
	return kindSentinels[e.Kind] == target
}

// IsKind helps callers classify errors without depending on adapter packages.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return errors.Is(err, kindSentinels[kind])
}

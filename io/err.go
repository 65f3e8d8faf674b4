package io

import (
	"errors"

	"github.com/ezrec/rvcore/translate"
)

var f = translate.From

var (
	// Fixture errors
	ErrHexValue      = errors.New(f("not a 32-bit hex value"))
	ErrAddressMarker = errors.New(f("@address markers are not supported"))
	ErrScenarioName  = errors.New(f("scenario name invalid"))
)

// ErrSyntax locates a malformed line in a fixture file.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

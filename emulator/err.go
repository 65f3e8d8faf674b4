package emulator

import (
	"errors"

	"github.com/ezrec/rvcore/translate"
)

var f = translate.From

var (
	ErrNotReset     = errors.New(f("clocked before reset"))
	ErrImageMissing = errors.New(f("image missing"))
)

// ErrMismatch is a register whose value differs from the expected value.
type ErrMismatch struct {
	Register int
	Expected uint32
	Actual   uint32
}

func (err *ErrMismatch) Error() string {
	return f("register x%d expected %08x, got %08x", err.Register, err.Expected, err.Actual)
}

// ErrScenario indicates the scenario of a failure.
type ErrScenario struct {
	Name string
	Err  error
}

func (err *ErrScenario) Error() string {
	return f("scenario %v: %v", err.Name, err.Err)
}

func (err *ErrScenario) Unwrap() error {
	return err.Err
}

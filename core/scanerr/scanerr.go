// core/scanerr/scanerr.go
package scanerr

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Error kinds. Match with errors.Is.
var (
	// ErrConfiguration covers shape and channel mismatches and inputs that a
	// flag requires but the caller did not supply.
	ErrConfiguration = errors.New("configuration error")

	// ErrPrecondition covers empty or malformed input lists and filter banks
	// whose members disagree in shape.
	ErrPrecondition = errors.New("precondition failed")

	// ErrNumeric marks an undefined ratio. Scanners never return it; they
	// store NaN in the result and CheckDefined reports it on request.
	ErrNumeric = errors.New("undefined numeric result")
)

// Error wraps a kind with the failing operation.
type Error struct {
	Op   string // operation name, e.g. "scan.MaxCrossCorrelation"
	Kind error  // one of the sentinels above
	Msg  string
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("convscan: %v: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("convscan: %s: %v: %s", e.Op, e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

// Configf builds an ErrConfiguration error.
func Configf(op, format string, a ...any) error {
	return &Error{Op: op, Kind: ErrConfiguration, Msg: fmt.Sprintf(format, a...)}
}

// Preconditionf builds an ErrPrecondition error.
func Preconditionf(op, format string, a ...any) error {
	return &Error{Op: op, Kind: ErrPrecondition, Msg: fmt.Sprintf(format, a...)}
}

// CheckDefined returns an ErrNumeric error naming the first NaN cell of m,
// or nil when every cell is a number.
func CheckDefined(op string, m mat.Matrix) error {
	r, c := m.Dims()
	nan := 0
	fi, fj := -1, -1
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if math.IsNaN(m.At(i, j)) {
				if nan == 0 {
					fi, fj = i, j
				}
				nan++
			}
		}
	}
	if nan == 0 {
		return nil
	}
	return &Error{Op: op, Kind: ErrNumeric, Msg: fmt.Sprintf("%d undefined cell(s), first at (%d,%d)", nan, fi, fj)}
}

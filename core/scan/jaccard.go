package scan

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"convscan/core/scanerr"
)

// JaccardScanner compares every filter with every input of the same shape.
type JaccardScanner struct {
	filters        []*mat.Dense
	rows, channels int
}

// NewJaccardScanner validates the bank.
func NewJaccardScanner(filters []*mat.Dense) (*JaccardScanner, error) {
	r, c, err := checkBank("scan.NewJaccardScanner", filters)
	if err != nil {
		return nil, err
	}
	return &JaccardScanner{filters: filters, rows: r, channels: c}, nil
}

// Scan returns the [filters × inputs] matrix of SignedJaccard values. Every
// input must have exactly the filters' shape; there is no sliding.
func (j *JaccardScanner) Scan(inputs []*mat.Dense) (*mat.Dense, error) {
	const op = "scan.JaccardScanner"
	if len(inputs) == 0 {
		return nil, scanerr.Preconditionf(op, "no inputs to compare")
	}
	for i, x := range inputs {
		if x == nil {
			return nil, scanerr.Preconditionf(op, "input %d is nil", i)
		}
		if r, c := x.Dims(); r != j.rows || c != j.channels {
			return nil, scanerr.Configf(op, "input %d is %dx%d, filters are %dx%d", i, r, c, j.rows, j.channels)
		}
	}
	out := mat.NewDense(len(j.filters), len(inputs), nil)
	for f, flt := range j.filters {
		for i, x := range inputs {
			out.Set(f, i, SignedJaccard(flt, x))
		}
	}
	return out, nil
}

// SignedJaccard is
//
//	Σ min(|a|,|b|)·sign(a)·sign(b) / Σ max(|a|,|b|)
//
// over every cell of two same-shaped matrices. Cells with opposite signs
// count against the similarity.
//
// When the denominator is zero (both matrices all zero) the ratio is
// undefined and the result is NaN. This is deliberate: callers can tell "no
// signal" apart from "no agreement" (0) and use scanerr.CheckDefined to
// surface it.
func SignedJaccard(a, b *mat.Dense) float64 {
	r, c := a.Dims()
	var inter, union float64
	for i := 0; i < r; i++ {
		ar, br := a.RawRowView(i), b.RawRowView(i)
		for k := 0; k < c; k++ {
			x, y := math.Abs(ar[k]), math.Abs(br[k])
			inter += math.Min(x, y) * sign(ar[k]) * sign(br[k])
			union += math.Max(x, y)
		}
	}
	if union == 0 {
		return math.NaN()
	}
	return inter / union
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

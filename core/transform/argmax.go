package transform

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"convscan/core/batch"
	"convscan/core/scanerr"
)

// ArgmaxScanner finds the index of the largest value in each row. Ties go to
// the lowest index; NaN values are skipped.
type ArgmaxScanner struct{}

func NewArgmaxScanner() ArgmaxScanner { return ArgmaxScanner{} }

// Apply returns one index per row. Rows may differ in length but must not be
// empty.
func (ArgmaxScanner) Apply(rows [][]float64, opt batch.Options) ([]int, error) {
	for i, r := range rows {
		if len(r) == 0 {
			return nil, scanerr.Configf("transform.ArgmaxScanner", "row %d is empty", i)
		}
	}
	return batch.Run([][][]float64{rows}, opt, func(b batch.Batch[[]float64]) ([]int, error) {
		out := make([]int, 0, b.Len())
		for _, r := range b.Inputs[0] {
			out = append(out, floats.MaxIdx(r))
		}
		return out, nil
	})
}

// ApplyDense runs Apply over the rows of x.
func (a ArgmaxScanner) ApplyDense(x *mat.Dense, opt batch.Options) ([]int, error) {
	return a.Apply(denseRows(x), opt)
}

package transform

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"convscan/core/batch"
	"convscan/core/scanerr"
)

// WindowSmoother replaces each value by the sum of a window of Size
// consecutive values along a row. Near padded edges the sum is estimated as
// the mean of the real values in the window times Size.
type WindowSmoother struct {
	Size     int
	SameSize bool // zero pad so the output row is as long as the input row
}

// NewWindowSmoother validates the window size.
func NewWindowSmoother(windowSize int, sameSize bool) (*WindowSmoother, error) {
	if windowSize < 1 {
		return nil, scanerr.Configf("transform.NewWindowSmoother", "window size must be >= 1, got %d", windowSize)
	}
	return &WindowSmoother{Size: windowSize, SameSize: sameSize}, nil
}

// OutLen is the smoothed length of a row of n values.
func (s *WindowSmoother) OutLen(n int) int {
	if s.SameSize {
		return n
	}
	return n - s.Size + 1
}

// Apply smooths every row. Rows may differ in length.
func (s *WindowSmoother) Apply(rows [][]float64, opt batch.Options) ([][]float64, error) {
	const op = "transform.WindowSmoother"
	for i, r := range rows {
		if s.OutLen(len(r)) < 1 {
			return nil, scanerr.Configf(op, "row %d has %d values, window is %d", i, len(r), s.Size)
		}
	}
	return batch.Run([][][]float64{rows}, opt, func(b batch.Batch[[]float64]) ([][]float64, error) {
		out := make([][]float64, 0, b.Len())
		for _, r := range b.Inputs[0] {
			out = append(out, s.row(r))
		}
		return out, nil
	})
}

// ApplyDense smooths the rows of x and returns them as a new matrix.
func (s *WindowSmoother) ApplyDense(x *mat.Dense, opt batch.Options) (*mat.Dense, error) {
	rows, err := s.Apply(denseRows(x), opt)
	if err != nil {
		return nil, err
	}
	return rowsDense(rows), nil
}

func (s *WindowSmoother) row(r []float64) []float64 {
	w := s.Size
	pad := 0
	if s.SameSize {
		pad = w / 2
	}
	n := len(r)
	outLen := n + 2*pad - w + 1
	out := make([]float64, outLen)
	for o := range out {
		lo := max(o-pad, 0)
		hi := min(o-pad+w, n)
		if hi <= lo {
			continue
		}
		// padded positions are left out of the mean
		out[o] = floats.Sum(r[lo:hi]) / float64(hi-lo) * float64(w)
	}
	if s.SameSize && w%2 == 0 {
		// even windows pad one column too many; drop it from the front
		out = out[1:]
	}
	return out
}

func denseRows(x *mat.Dense) [][]float64 {
	r, _ := x.Dims()
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = x.RawRowView(i)
	}
	return rows
}

// rowsDense copies equal-length rows into a new matrix.
func rowsDense(rows [][]float64) *mat.Dense {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return &mat.Dense{}
	}
	out := mat.NewDense(len(rows), len(rows[0]), nil)
	for i, r := range rows {
		out.SetRow(i, r)
	}
	return out
}

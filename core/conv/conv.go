// Package conv is the sliding-window dot product primitive the scanners are
// built on. Arrays are gonum dense matrices laid out [positions × channels].
//
// Convolve is a true convolution: the kernel is reversed along both axes
// before it slides. Callers that want cross-correlation pass a kernel they
// have already flipped with Flip.
package conv

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Flip returns a copy of x reversed along rows (positions), columns
// (channels), or both. x is not modified.
func Flip(x mat.Matrix, rows, cols bool) *mat.Dense {
	r, c := x.Dims()
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		si := i
		if rows {
			si = r - 1 - i
		}
		for j := 0; j < c; j++ {
			sj := j
			if cols {
				sj = c - 1 - j
			}
			out.Set(i, j, x.At(si, sj))
		}
	}
	return out
}

// Kernel is a kernel prepared for repeated convolution: its rows are stored
// already reversed so each output is a run of contiguous dot products.
type Kernel struct {
	rows, cols int
	data       []float64 // reversed kernel, row-major
}

// NewKernel prepares k for Convolve.
func NewKernel(k mat.Matrix) *Kernel {
	f := Flip(k, true, true)
	r, c := f.Dims()
	return &Kernel{rows: r, cols: c, data: f.RawMatrix().Data}
}

// Dims returns the kernel's rows (length) and columns (channels).
func (k *Kernel) Dims() (int, int) { return k.rows, k.cols }

// OutLen is the number of valid outputs for an input of n positions with pad
// zero rows on each side. It is 0 when the kernel does not fit.
func (k *Kernel) OutLen(n, pad int) int {
	return max(n+2*pad-k.rows+1, 0)
}

// Convolve slides k over x, implicitly zero padded by pad rows on each side,
// and returns the channel-summed products for every offset where the kernel
// fits entirely ("valid" mode over the padded input). Output index o covers
// padded rows [o, o+len(k)).
func (k *Kernel) Convolve(x *mat.Dense, pad int) ([]float64, error) {
	return k.ConvolveInto(nil, x, pad)
}

// ConvolveInto is Convolve writing into dst when it has room.
func (k *Kernel) ConvolveInto(dst []float64, x *mat.Dense, pad int) ([]float64, error) {
	n, c := x.Dims()
	if c != k.cols {
		return nil, fmt.Errorf("conv: input has %d channels, kernel has %d", c, k.cols)
	}
	outLen := k.OutLen(n, pad)
	if cap(dst) < outLen {
		dst = make([]float64, outLen)
	}
	dst = dst[:outLen]
	for o := range dst {
		s := 0.0
		for i := 0; i < k.rows; i++ {
			xi := o + i - pad
			if xi < 0 || xi >= n {
				continue // zero padding
			}
			s += floats.Dot(x.RawRowView(xi), k.data[i*k.cols:(i+1)*k.cols])
		}
		dst[o] = s
	}
	return dst, nil
}

// Convolve is a one-off NewKernel(k).Convolve(x, pad).
func Convolve(x *mat.Dense, k mat.Matrix, pad int) ([]float64, error) {
	return NewKernel(k).Convolve(x, pad)
}

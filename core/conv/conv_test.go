package conv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestFlip(t *testing.T) {
	x := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	assert.Equal(t, []float64{4, 5, 6, 1, 2, 3}, Flip(x, true, false).RawMatrix().Data)
	assert.Equal(t, []float64{3, 2, 1, 6, 5, 4}, Flip(x, false, true).RawMatrix().Data)
	assert.Equal(t, []float64{6, 5, 4, 3, 2, 1}, Flip(x, true, true).RawMatrix().Data)
	// input untouched
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, x.RawMatrix().Data)
}

func TestConvolveFlipsKernel(t *testing.T) {
	// single channel: convolution of [1 2 3] with kernel [1 0] is [2 3]
	// (kernel reversed to [0 1]); correlation would give [1 2].
	x := mat.NewDense(3, 1, []float64{1, 2, 3})
	k := mat.NewDense(2, 1, []float64{1, 0})
	got, err := Convolve(x, k, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3}, got)

	// pre-flipped kernel gives correlation
	got, err = Convolve(x, Flip(k, true, true), 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, got)
}

func TestConvolveChannels(t *testing.T) {
	x := mat.NewDense(3, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
	})
	f := mat.NewDense(2, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
	})
	got, err := Convolve(x, Flip(f, true, true), 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 0}, got)
}

func TestConvolvePadded(t *testing.T) {
	x := mat.NewDense(2, 1, []float64{1, 1})
	k := NewKernel(mat.NewDense(2, 1, []float64{1, 1}))
	assert.Equal(t, 3, k.OutLen(2, 1))
	got, err := k.Convolve(x, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 1}, got)

	assert.Equal(t, 0, k.OutLen(1, 0))
	got, err = k.Convolve(mat.NewDense(1, 1, []float64{5}), 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestConvolveChannelMismatch(t *testing.T) {
	_, err := Convolve(mat.NewDense(3, 4, nil), mat.NewDense(2, 3, nil), 0)
	assert.Error(t, err)
}

func TestConvolveIntoReuses(t *testing.T) {
	k := NewKernel(mat.NewDense(1, 1, []float64{2}))
	buf := make([]float64, 0, 8)
	got, err := k.ConvolveInto(buf, mat.NewDense(3, 1, []float64{1, 2, 3}), 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4, 6}, got)
	assert.Equal(t, 8, cap(got))
}

package scan

import (
	"gonum.org/v1/gonum/mat"

	"convscan/core/conv"
	"convscan/core/scanerr"
)

// checkBank validates that the bank is non-empty and that every filter has
// the same shape. It returns that shape.
func checkBank(op string, filters []*mat.Dense) (length, channels int, err error) {
	if len(filters) == 0 {
		return 0, 0, scanerr.Preconditionf(op, "filter bank is empty")
	}
	for i, f := range filters {
		if f == nil {
			return 0, 0, scanerr.Preconditionf(op, "filter %d is nil", i)
		}
		r, c := f.Dims()
		if i == 0 {
			length, channels = r, c
			continue
		}
		if r != length || c != channels {
			return 0, 0, scanerr.Preconditionf(op, "filter %d is %dx%d, filter 0 is %dx%d (filters of unequal length?)", i, r, c, length, channels)
		}
	}
	return length, channels, nil
}

// checkSequences validates a non-empty collection whose channel count
// matches the bank.
func checkSequences(op, what string, seqs []*mat.Dense, channels int) error {
	if len(seqs) == 0 {
		return scanerr.Preconditionf(op, "no %s to scan", what)
	}
	for i, s := range seqs {
		if s == nil {
			return scanerr.Preconditionf(op, "%s %d is nil", what, i)
		}
		if _, c := s.Dims(); c != channels {
			return scanerr.Configf(op, "%s %d has %d channels, filters have %d", what, i, c, channels)
		}
	}
	return nil
}

// correlationKernels prepares kernels whose convolution is the
// cross-correlation with the filters as given: the filter is flipped on both
// axes here and flipped back by the convolution.
func correlationKernels(filters []*mat.Dense) []*conv.Kernel {
	ks := make([]*conv.Kernel, len(filters))
	for i, f := range filters {
		ks[i] = conv.NewKernel(conv.Flip(f, true, true))
	}
	return ks
}

package onehot

import (
	"math/bits"

	"gonum.org/v1/gonum/mat"

	"convscan/core/conv"
	"convscan/core/scanerr"
)

// Encode returns the strict one-hot encoding of seq, [len(seq) × 4].
// Anything other than A, C, G or T encodes as an all-zero row. seq must not
// be empty (gonum has no zero-length matrices).
func Encode(seq []byte) *mat.Dense {
	x := mat.NewDense(len(seq), AlphabetSize, nil)
	for i, b := range seq {
		if IsBase(b) {
			x.Set(i, bits.TrailingZeros8(iupacMask[b]), 1)
		}
	}
	return x
}

// EncodeIUPAC spreads each ambiguity code evenly over the bases it stands for
// (R = 0.5 A + 0.5 G, N = 0.25 each). Unknown bytes encode as zero rows.
func EncodeIUPAC(seq []byte) *mat.Dense {
	x := mat.NewDense(len(seq), AlphabetSize, nil)
	for i, b := range seq {
		m := Mask(b)
		if m == 0 {
			continue
		}
		w := 1 / float64(bits.OnesCount8(m))
		for c := 0; c < AlphabetSize; c++ {
			if m&(1<<c) != 0 {
				x.Set(i, c, w)
			}
		}
	}
	return x
}

// RevComp returns the reverse complement of an encoded sequence. With ACGT
// channel order, complementing is reversing the channel axis.
func RevComp(x mat.Matrix) *mat.Dense { return conv.Flip(x, true, true) }

// FilterFromConsensus turns an IUPAC consensus string into a filter.
func FilterFromConsensus(consensus string) (*mat.Dense, error) {
	s, err := Validate(consensus)
	if err != nil {
		return nil, scanerr.Configf("onehot.FilterFromConsensus", "%v", err)
	}
	return EncodeIUPAC([]byte(s)), nil
}

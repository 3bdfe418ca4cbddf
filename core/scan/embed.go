package scan

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"convscan/core/batch"
	"convscan/core/conv"
	"convscan/core/scanerr"
)

// GappedKmerEmbedder turns each sequence into one value per filter: the sum,
// over every position where the filter fits, of the filter's score there plus
// its bias. With RequireOnehotMatch, a position only counts when the same
// filter also scores above zero on the strict one-hot version of the
// sequence.
type GappedKmerEmbedder struct {
	RequireOnehotMatch bool

	kernels  []*conv.Kernel
	biases   []float64
	channels int
}

// NewGappedKmerEmbedder validates filters ([length × alphabet] each) and
// biases (one per filter).
func NewGappedKmerEmbedder(filters []*mat.Dense, biases []float64, requireOnehotMatch bool) (*GappedKmerEmbedder, error) {
	const op = "scan.NewGappedKmerEmbedder"
	_, c, err := checkBank(op, filters)
	if err != nil {
		return nil, err
	}
	if len(biases) != len(filters) {
		return nil, scanerr.Configf(op, "%d biases for %d filters", len(biases), len(filters))
	}
	return &GappedKmerEmbedder{
		RequireOnehotMatch: requireOnehotMatch,
		kernels:            correlationKernels(filters),
		biases:             append([]float64(nil), biases...),
		channels:           c,
	}, nil
}

// Embed returns the [sequences × filters] embedding of toEmbed. onehot is the
// strict one-hot encoding of the same sequences, item for item; it is
// required when RequireOnehotMatch is set and ignored otherwise.
//
// A sequence shorter than the filters has no valid position and embeds as 0.
func (e *GappedKmerEmbedder) Embed(onehot, toEmbed []*mat.Dense, opt batch.Options) (*mat.Dense, error) {
	const op = "scan.GappedKmerEmbedder"
	if err := checkSequences(op, "sequence", toEmbed, e.channels); err != nil {
		return nil, err
	}
	inputs := [][]*mat.Dense{toEmbed}
	if e.RequireOnehotMatch {
		if onehot == nil {
			return nil, scanerr.Configf(op, "one-hot input is required when matching on one-hot")
		}
		if len(onehot) != len(toEmbed) {
			return nil, scanerr.Configf(op, "%d one-hot sequences for %d sequences", len(onehot), len(toEmbed))
		}
		for i := range onehot {
			if onehot[i] == nil {
				return nil, scanerr.Preconditionf(op, "one-hot sequence %d is nil", i)
			}
			or, oc := onehot[i].Dims()
			tr, tc := toEmbed[i].Dims()
			if or != tr || oc != tc {
				return nil, scanerr.Configf(op, "one-hot sequence %d is %dx%d, sequence is %dx%d", i, or, oc, tr, tc)
			}
		}
		inputs = append(inputs, onehot)
	}
	if opt.Stage == "" {
		opt.Stage = "sequences"
	}

	rows, err := batch.Run(inputs, opt, func(b batch.Batch[*mat.Dense]) ([][]float64, error) {
		var scores, mask []float64
		out := make([][]float64, 0, b.Len())
		for j, x := range b.Inputs[0] {
			row := make([]float64, len(e.kernels))
			for k, kern := range e.kernels {
				var err error
				if scores, err = kern.ConvolveInto(scores, x, 0); err != nil {
					return nil, err
				}
				bias := e.biases[k]
				if !e.RequireOnehotMatch {
					row[k] = floats.Sum(scores) + bias*float64(len(scores))
					continue
				}
				if mask, err = kern.ConvolveInto(mask, b.Inputs[1][j], 0); err != nil {
					return nil, err
				}
				s := 0.0
				for p, v := range scores {
					if mask[p]+bias > 0 {
						s += v + bias
					}
				}
				row[k] = s
			}
			out = append(out, row)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	emb := mat.NewDense(len(toEmbed), len(e.kernels), nil)
	for i, r := range rows {
		emb.SetRow(i, r)
	}
	return emb, nil
}

package scan

import (
	"gonum.org/v1/gonum/mat"

	"convscan/core/batch"
	"convscan/core/transform"
)

// Hit is the best placement of one filter on one sequence.
type Hit struct {
	Filter   int
	Sequence int
	// Offset is the first sequence position under the filter, in forward
	// coordinates. It is negative when the filter hangs off the left edge.
	Offset int
	Score  float64 // unsmoothed correlation at Offset
	Minus  bool    // found on the reverse complement
}

// BestOffsets finds, for every (filter, sequence) pair, the offset with the
// highest correlation. When smooth > 1 the per-offset scores are first summed
// over a window of that many offsets (WindowSmoother, same size) so a broad
// run of good placements beats a single spike; the reported Score is still
// the raw value at the chosen offset. Ties go to the leftmost offset and to
// the forward strand.
//
// Per-offset tracks and reverse strands only exist for the batch being
// processed. Hits are ordered by filter, then sequence.
func BestOffsets(filters, sequences []*mat.Dense, cfg CrossCorrConfig, smooth int) ([]Hit, error) {
	const op = "scan.BestOffsets"
	cfg = cfg.withDefaults()
	length, _, pad, err := cfg.prepare(op, filters, sequences)
	if err != nil {
		return nil, err
	}
	smoother, err := transform.NewWindowSmoother(max(smooth, 1), true)
	if err != nil {
		return nil, err
	}
	argmax := transform.NewArgmaxScanner()

	kernels := correlationKernels(filters)
	opt := cfg.batchOptions()

	hits := make([]Hit, 0, len(filters)*len(sequences))
	for f, kern := range kernels {
		if cfg.ProgressEvery > 0 {
			cfg.Progress.Notify(batch.Event{Stage: "filters", Done: f, Total: len(filters)})
		}
		part, err := batch.Run([][]*mat.Dense{sequences}, opt, func(b batch.Batch[*mat.Dense]) ([]Hit, error) {
			// tracks: one row per sequence and strand, forward strand first
			var (
				raw   [][]float64
				minus []bool
			)
			for _, s := range b.Inputs[0] {
				strands := []*mat.Dense{s}
				if cfg.BothStrands {
					strands = append(strands, revComp(s))
				}
				for k, x := range strands {
					sc, err := kern.Convolve(x, pad)
					if err != nil {
						return nil, err
					}
					raw = append(raw, sc)
					minus = append(minus, k == 1)
				}
			}
			post := batch.Options{BatchSize: len(raw)}
			smoothed, err := smoother.Apply(raw, post)
			if err != nil {
				return nil, err
			}
			best, err := argmax.Apply(smoothed, post)
			if err != nil {
				return nil, err
			}

			out := make([]Hit, 0, b.Len())
			for i, j := 0, 0; i < len(raw); j++ {
				h := placement(raw[i], minus[i], best[i], f, b.Start+j, length, pad)
				if cfg.BothStrands {
					if smoothed[i+1][best[i+1]] > smoothed[i][best[i]] {
						h = placement(raw[i+1], minus[i+1], best[i+1], f, b.Start+j, length, pad)
					}
					i += 2
				} else {
					i++
				}
				out = append(out, h)
			}
			return out, nil
		})
		if err != nil {
			return nil, err
		}
		hits = append(hits, part...)
	}
	return hits, nil
}

// placement converts a padded offset on a strand to a forward-strand Hit.
func placement(scores []float64, minus bool, at, filter, seq, length, pad int) Hit {
	n := len(scores) + length - 1 - 2*pad // unpadded sequence length
	off := at - pad
	if minus {
		off = n - off - length
	}
	return Hit{Filter: filter, Sequence: seq, Offset: off, Score: scores[at], Minus: minus}
}

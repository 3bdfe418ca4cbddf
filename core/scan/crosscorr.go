package scan

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"convscan/core/batch"
	"convscan/core/conv"
	"convscan/core/onehot"
	"convscan/core/scanerr"
)

// Defaults applied to zero CrossCorrConfig fields.
const (
	DefaultBatchSize      = 50
	DefaultFuncParamsSize = 1000000
)

// CrossCorrConfig controls MaxCrossCorrelation and BestOffsets.
type CrossCorrConfig struct {
	// MinOverlap is the smallest fraction of a filter, in (0,1], that must lie
	// on the sequence for an offset to count.
	MinOverlap float64

	BatchSize      int // sequences per batch
	FuncParamsSize int // filter values (length × channels × count) per filter batch

	// BothStrands also scans the reverse complement of each sequence and
	// keeps the better strand. Sequences must be ACGT-ordered.
	BothStrands bool

	ProgressEvery int
	Progress      batch.Observer
	Workers       int
}

func (c CrossCorrConfig) withDefaults() CrossCorrConfig {
	if c.BatchSize == 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.FuncParamsSize == 0 {
		c.FuncParamsSize = DefaultFuncParamsSize
	}
	return c
}

// Padding is the number of zero rows added to each end of a sequence so a
// filter of the given length may overhang by up to (1-MinOverlap) of itself.
func (c CrossCorrConfig) Padding(length int) int {
	return int(float64(length) * (1 - c.MinOverlap))
}

// FilterBatchSize is how many filters of length×channels values fit in
// funcParamsSize, never less than one.
func FilterBatchSize(funcParamsSize, length, channels int) int {
	return max(funcParamsSize/(length*channels), 1)
}

func (c CrossCorrConfig) batchOptions() batch.Options {
	return batch.Options{
		BatchSize:     c.BatchSize,
		ProgressEvery: c.ProgressEvery,
		Progress:      c.Progress,
		Stage:         "sequences",
		Workers:       c.Workers,
	}
}

// prepare validates the bank and sequences and returns the filter length and
// the padding.
func (c CrossCorrConfig) prepare(op string, filters, sequences []*mat.Dense) (length, channels, pad int, err error) {
	length, channels, err = checkBank(op, filters)
	if err != nil {
		return 0, 0, 0, err
	}
	if err := checkSequences(op, "sequence", sequences, channels); err != nil {
		return 0, 0, 0, err
	}
	if !(c.MinOverlap > 0 && c.MinOverlap <= 1) {
		return 0, 0, 0, scanerr.Configf(op, "min overlap must be in (0,1], got %v", c.MinOverlap)
	}
	if c.BatchSize < 1 {
		return 0, 0, 0, scanerr.Configf(op, "batch size must be > 0, got %d", c.BatchSize)
	}
	if c.FuncParamsSize < 1 {
		return 0, 0, 0, scanerr.Configf(op, "func params size must be > 0, got %d", c.FuncParamsSize)
	}
	pad = c.Padding(length)
	for i, s := range sequences {
		n, _ := s.Dims()
		if n+2*pad < length {
			return 0, 0, 0, scanerr.Configf(op, "sequence %d has %d positions; a filter of length %d with padding %d needs %d",
				i, n, length, pad, length-2*pad)
		}
	}
	return length, channels, pad, nil
}

// MaxCrossCorrelation returns the [filters × sequences] matrix of the best
// cross-correlation score of each filter anywhere along each sequence.
//
// Sequences are zero padded by Padding(filter length) on both ends, so a
// filter may hang off either edge as long as MinOverlap of it stays on the
// sequence. Filters are processed FilterBatchSize at a time and sequences
// BatchSize at a time.
func MaxCrossCorrelation(filters, sequences []*mat.Dense, cfg CrossCorrConfig) (*mat.Dense, error) {
	const op = "scan.MaxCrossCorrelation"
	cfg = cfg.withDefaults()
	length, channels, pad, err := cfg.prepare(op, filters, sequences)
	if err != nil {
		return nil, err
	}

	nf := len(filters)
	fbs := FilterBatchSize(cfg.FuncParamsSize, length, channels)
	scores := mat.NewDense(nf, len(sequences), nil)

	for lo := 0; lo < nf; lo += fbs {
		hi := min(lo+fbs, nf)
		if cfg.ProgressEvery > 0 {
			cfg.Progress.Notify(batch.Event{Stage: "filters", Done: lo, Total: nf})
		}
		kernels := correlationKernels(filters[lo:hi])

		rows, err := batch.Run([][]*mat.Dense{sequences}, cfg.batchOptions(), func(b batch.Batch[*mat.Dense]) ([][]float64, error) {
			var (
				buf []float64
				err error
			)
			out := make([][]float64, 0, b.Len())
			for _, s := range b.Inputs[0] {
				// the reverse strand exists only while its sequence is scanned
				var rc *mat.Dense
				if cfg.BothStrands {
					rc = revComp(s)
				}
				best := make([]float64, len(kernels))
				for k, kern := range kernels {
					var m float64
					if m, buf, err = maxConv(kern, s, pad, buf); err != nil {
						return nil, err
					}
					if rc != nil {
						var mrc float64
						if mrc, buf, err = maxConv(kern, rc, pad, buf); err != nil {
							return nil, err
						}
						m = max(m, mrc)
					}
					best[k] = m
				}
				out = append(out, best)
			}
			return out, nil
		})
		if err != nil {
			return nil, err
		}
		for s, row := range rows {
			for k, v := range row {
				scores.Set(lo+k, s, v)
			}
		}
	}
	return scores, nil
}

func maxConv(k *conv.Kernel, x *mat.Dense, pad int, buf []float64) (float64, []float64, error) {
	out, err := k.ConvolveInto(buf, x, pad)
	if err != nil {
		return 0, buf, err
	}
	return floats.Max(out), out, nil
}

// revComp is swapped in tests to observe when reverse strands are built.
var revComp = onehot.RevComp

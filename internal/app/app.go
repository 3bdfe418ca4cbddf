// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"io"

	"gonum.org/v1/gonum/mat"

	"convscan/core/onehot"
	"convscan/core/scan"
	"convscan/core/scanerr"
	"convscan/internal/appcore"
	"convscan/internal/cli"
	"convscan/internal/cmdutil"
	"convscan/internal/writers"
	"convscan/pkg/api"
)

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)

	fs := cli.NewFlagSet("convscan")
	fs.SetOutput(io.Discard)
	opts, err := cli.ParseArgs(fs, argv)
	if code, done := appcore.Prologue(fs, "convscan", opts.Version, err, outw, stderr, cli.PrintExamples); done {
		return code
	}

	motifs, err := appcore.LoadMotifs(opts.Common)
	if err != nil {
		return appcore.LoadFailed(parent, stderr, err)
	}
	if err := checkLengths(motifs); err != nil {
		return appcore.Fail(stderr, err)
	}

	cfg := scan.CrossCorrConfig{
		MinOverlap:     opts.MinOverlap,
		BatchSize:      opts.BatchSize,
		FuncParamsSize: opts.FuncParamsSize,
		BothStrands:    opts.BothStrands,
		Workers:        opts.Workers,
	}
	r := &runner{
		ctx:      parent,
		opts:     opts,
		cfg:      cfg,
		motifs:   motifs,
		length:   len(motifs[0].Consensus),
		progress: appcore.NewProgress(opts.Progress, cmdutil.Progress(stderr, opts.Quiet)),
		stderr:   stderr,
	}

	var code int
	switch {
	case opts.Metric == cli.MetricJaccard:
		code = appcore.Emit(parent, outw, stderr, startSimilarity(opts), r.jaccard)
	case opts.Offsets:
		code = appcore.Emit(parent, outw, stderr, startScores(opts), r.offsets)
	default:
		code = appcore.Emit(parent, outw, stderr, startScores(opts), r.maxScores)
	}
	if c := appcore.Flush(outw, stderr); code == appcore.ExitOK {
		code = c
	}
	return code
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func startScores(o cli.Options) func(io.Writer, int) (chan<- api.ScoreV1, <-chan error) {
	return func(w io.Writer, n int) (chan<- api.ScoreV1, <-chan error) {
		return writers.Start(w, o.Output, o.Header, writers.ScoreCodec(o.Offsets), n)
	}
}

func startSimilarity(o cli.Options) func(io.Writer, int) (chan<- api.SimilarityV1, <-chan error) {
	return func(w io.Writer, n int) (chan<- api.SimilarityV1, <-chan error) {
		return writers.Start(w, o.Output, o.Header, writers.SimilarityCodec(), n)
	}
}

// runner scans the input one group of records at a time. Results come out
// record by record, each record followed by its motifs in input order.
type runner struct {
	ctx      context.Context
	opts     cli.Options
	cfg      scan.CrossCorrConfig
	motifs   []onehot.Motif
	length   int
	progress *appcore.Progress
	stderr   io.Writer
}

func (r *runner) stream(fn func(appcore.Group) error) error {
	return appcore.StreamRecords(r.ctx, r.opts.Common, r.length, appcore.GroupSize(r.opts.Common), r.stderr, fn)
}

// config returns the scan settings for the group starting at base.
func (r *runner) config(base int) scan.CrossCorrConfig {
	cfg := r.cfg
	cfg.ProgressEvery, cfg.Progress = r.progress.For(base)
	return cfg
}

// scannable keeps the records a motif can be placed on under the configured
// overlap, warning about the rest.
func (r *runner) scannable(g appcore.Group) appcore.Group {
	pad := r.cfg.Padding(r.length)
	kept := appcore.Group{Base: g.Base}
	for _, rec := range g.Records {
		if len(rec.Seq)+2*pad < r.length {
			cmdutil.Warnf(r.stderr, r.opts.Quiet, "skipping %q: %d bp is too short for %d bp motifs", rec.ID, len(rec.Seq), r.length)
			continue
		}
		kept.Records = append(kept.Records, rec)
	}
	return kept
}

func checkLengths(ms []onehot.Motif) error {
	for _, m := range ms[1:] {
		if len(m.Consensus) != len(ms[0].Consensus) {
			return scanerr.Configf("", "motifs must share one length: %s is %d bp, %s is %d bp",
				ms[0].ID, len(ms[0].Consensus), m.ID, len(m.Consensus))
		}
	}
	return nil
}

func (r *runner) maxScores(send func(api.ScoreV1) error) error {
	filters := onehot.Filters(r.motifs)
	scanned := 0
	err := r.stream(func(g appcore.Group) error {
		g = r.scannable(g)
		if len(g.Records) == 0 {
			return nil
		}
		scanned += len(g.Records)
		scores, err := scan.MaxCrossCorrelation(filters, g.Encode(onehot.EncodeIUPAC), r.config(g.Base))
		if err != nil {
			return err
		}
		warnUndefined(r.stderr, r.opts.Quiet, "scores", scores)
		for s, rec := range g.Records {
			for f, m := range r.motifs {
				if err := send(api.ScoreV1{Motif: m.ID, Sequence: rec.ID, Score: api.Float(scores.At(f, s))}); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil && scanned == 0 {
		return scanerr.Preconditionf("", "no sequence is long enough to scan")
	}
	return err
}

func (r *runner) offsets(send func(api.ScoreV1) error) error {
	filters := onehot.Filters(r.motifs)
	nf := len(filters)
	scanned := 0
	err := r.stream(func(g appcore.Group) error {
		g = r.scannable(g)
		if len(g.Records) == 0 {
			return nil
		}
		scanned += len(g.Records)
		hits, err := scan.BestOffsets(filters, g.Encode(onehot.EncodeIUPAC), r.config(g.Base), r.opts.Smooth)
		if err != nil {
			return err
		}
		ordered := make([]scan.Hit, len(hits))
		for _, h := range hits {
			ordered[h.Sequence*nf+h.Filter] = h
		}
		for _, h := range ordered {
			strand := "+"
			if h.Minus {
				strand = "-"
			}
			off := h.Offset
			err := send(api.ScoreV1{
				Motif:    r.motifs[h.Filter].ID,
				Sequence: g.Records[h.Sequence].ID,
				Score:    api.Float(h.Score),
				Strand:   strand,
				Offset:   &off,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil && scanned == 0 {
		return scanerr.Preconditionf("", "no sequence is long enough to scan")
	}
	return err
}

// jaccard compares every motif with every record of exactly the motif
// length.
func (r *runner) jaccard(send func(api.SimilarityV1) error) error {
	js, err := scan.NewJaccardScanner(onehot.Filters(r.motifs))
	if err != nil {
		return err
	}
	compared, skipped := 0, 0
	err = r.stream(func(g appcore.Group) error {
		var (
			ids  []string
			seqs []*mat.Dense
		)
		for _, rec := range g.Records {
			if len(rec.Seq) != r.length {
				skipped++
				continue
			}
			ids = append(ids, rec.ID)
			seqs = append(seqs, onehot.EncodeIUPAC(rec.Seq))
		}
		if len(seqs) == 0 {
			return nil
		}
		compared += len(seqs)
		sim, err := js.Scan(seqs)
		if err != nil {
			return err
		}
		warnUndefined(r.stderr, r.opts.Quiet, "similarities", sim)
		for s, id := range ids {
			for f, m := range r.motifs {
				if err := send(api.SimilarityV1{Motif: m.ID, Sequence: id, Similarity: api.Float(sim.At(f, s))}); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if skipped > 0 {
		cmdutil.Warnf(r.stderr, r.opts.Quiet, "skipped %d record(s) not %d bp long", skipped, r.length)
	}
	if compared == 0 {
		return scanerr.Preconditionf("", "no sequence is %d bp long", r.length)
	}
	return nil
}

func warnUndefined(stderr io.Writer, quiet bool, what string, m mat.Matrix) {
	if err := scanerr.CheckDefined(what, m); err != nil {
		cmdutil.Warnf(stderr, quiet, "%v", err)
	}
}

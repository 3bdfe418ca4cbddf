// internal/embedapp/app.go
package embedapp

import (
	"bufio"
	"context"
	"io"

	"gonum.org/v1/gonum/mat"

	"convscan/core/batch"
	"convscan/core/onehot"
	"convscan/core/scan"
	"convscan/internal/appcore"
	"convscan/internal/cmdutil"
	"convscan/internal/embedcli"
	"convscan/internal/writers"
	"convscan/pkg/api"
)

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)

	fs := embedcli.NewFlagSet("convscan-embed")
	fs.SetOutput(io.Discard)
	opts, err := embedcli.ParseArgs(fs, argv)
	if code, done := appcore.Prologue(fs, "convscan-embed", opts.Version, err, outw, stderr, embedcli.PrintExamples); done {
		return code
	}

	motifs, err := appcore.LoadMotifs(opts.Common)
	if err != nil {
		return appcore.LoadFailed(parent, stderr, err)
	}

	start := func(w io.Writer, n int) (chan<- api.EmbeddingV1, <-chan error) {
		return writers.Start(w, opts.Output, opts.Header, writers.EmbeddingCodec(appcore.IDs(motifs)), n)
	}
	code := appcore.Emit(parent, outw, stderr, start, func(send func(api.EmbeddingV1) error) error {
		return embed(parent, motifs, opts, stderr, send)
	})
	if c := appcore.Flush(outw, stderr); code == appcore.ExitOK {
		code = c
	}
	return code
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

// embed scores the IUPAC encoding of each record; the strict one-hot
// encoding is the match mask. Records are read and embedded one group at a
// time.
func embed(ctx context.Context, motifs []onehot.Motif, o embedcli.Options, stderr io.Writer, send func(api.EmbeddingV1) error) error {
	biases := make([]float64, len(motifs))
	longest := 0
	for i, m := range motifs {
		biases[i] = o.Bias
		longest = max(longest, len(m.Consensus))
	}
	e, err := scan.NewGappedKmerEmbedder(onehot.Filters(motifs), biases, o.RequireOnehotMatch)
	if err != nil {
		return err
	}
	progress := appcore.NewProgress(o.Progress, cmdutil.Progress(stderr, o.Quiet))
	return appcore.StreamRecords(ctx, o.Common, longest, appcore.GroupSize(o.Common), stderr, func(g appcore.Group) error {
		opt := batch.Options{BatchSize: o.BatchSize, Workers: o.Workers}
		opt.ProgressEvery, opt.Progress = progress.For(g.Base)
		var strict []*mat.Dense
		if o.RequireOnehotMatch {
			strict = g.Encode(onehot.Encode)
		}
		emb, err := e.Embed(strict, g.Encode(onehot.EncodeIUPAC), opt)
		if err != nil {
			return err
		}
		for s, r := range g.Records {
			if err := send(api.EmbeddingV1{Sequence: r.ID, Values: mat.Row(nil, s, emb)}); err != nil {
				return err
			}
		}
		return nil
	})
}

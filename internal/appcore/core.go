// internal/appcore/core.go
package appcore

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"

	"convscan/core/batch"
	"convscan/core/fasta"
	"convscan/core/onehot"
	"convscan/core/scanerr"
	"convscan/internal/clibase"
	"convscan/internal/cmdutil"
	"convscan/internal/runutil"
	"convscan/internal/version"
	"convscan/internal/writers"
)

// Exit codes.
const (
	ExitOK        = 0
	ExitUsage     = 2
	ExitRuntime   = 3
	ExitCancelled = 130
)

// Group is a run of consecutive non-empty records. Base is the position of
// its first record in the whole input.
type Group struct {
	Base    int
	Records []fasta.Record
}

// Encode returns the encoding of every record of the group.
func (g Group) Encode(enc func([]byte) *mat.Dense) []*mat.Dense {
	out := make([]*mat.Dense, len(g.Records))
	for i, r := range g.Records {
		out[i] = enc(r.Seq)
	}
	return out
}

// IDs returns the motif ids in order.
func IDs(ms []onehot.Motif) []string {
	ids := make([]string, len(ms))
	for i, m := range ms {
		ids[i] = m.ID
	}
	return ids
}

// LoadMotifs reads --motifs or builds motifs from --motif consensus strings,
// which are their own ids.
func LoadMotifs(c clibase.Common) ([]onehot.Motif, error) {
	if c.MotifFile != "" {
		ms, err := onehot.LoadTSV(c.MotifFile)
		if err != nil {
			return nil, err
		}
		if len(ms) == 0 {
			return nil, fmt.Errorf("%s: no motifs", c.MotifFile)
		}
		return ms, nil
	}
	ms := make([]onehot.Motif, 0, len(c.Motifs))
	for _, s := range c.Motifs {
		m, err := onehot.NewMotif(s, s)
		if err != nil {
			return nil, err
		}
		ms = append(ms, m)
	}
	return ms, nil
}

// InputError is a failure opening or parsing a sequence file.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string { return e.Path + ": " + e.Err.Error() }
func (e *InputError) Unwrap() error { return e.Err }

// GroupSize is how many records are read ahead: one batch per worker.
func GroupSize(c clibase.Common) int { return max(c.BatchSize, 1) * max(c.Workers, 1) }

// StreamRecords reads the sequence files in order and hands fn groups of at
// most size non-empty records; only one group is held at a time. With
// --window, records are cut into windows overlapping by the longest motif
// minus one so no placement is lost at a window edge. Empty records are
// dropped with a warning.
func StreamRecords(ctx context.Context, c clibase.Common, longest, size int, stderr io.Writer, fn func(Group) error) error {
	window, overlap, warns := runutil.ValidateWindow(c.Window, longest)
	for _, w := range warns {
		cmdutil.Warnf(stderr, c.Quiet, "%s", w)
	}
	opt := fasta.Options{ChunkSize: window, Overlap: overlap}
	size = max(size, 1)

	var (
		g      = Group{Records: make([]fasta.Record, 0, size)}
		total  int
		runErr error
	)
	flush := func() error {
		if len(g.Records) == 0 {
			return nil
		}
		runErr = fn(g)
		g = Group{Base: total, Records: make([]fasta.Record, 0, size)}
		return runErr
	}

	for _, p := range c.SeqFiles {
		rc, err := fasta.Open(p)
		if err != nil {
			return &InputError{Path: p, Err: err}
		}
		err = fasta.Scan(ctx, rc, opt, func(r fasta.Record) error {
			if len(r.Seq) == 0 {
				cmdutil.Warnf(stderr, c.Quiet, "skipping empty record %q", r.ID)
				return nil
			}
			g.Records = append(g.Records, r)
			total++
			if len(g.Records) == size {
				return flush()
			}
			return nil
		})
		_ = rc.Close()
		if runErr != nil {
			return runErr
		}
		if err != nil {
			return &InputError{Path: p, Err: err}
		}
	}
	if err := flush(); err != nil {
		return err
	}
	if total == 0 {
		return scanerr.Preconditionf("", "no non-empty sequences in input")
	}
	return nil
}

// Progress turns the batch events of successive groups into whole-input
// "sequences" events every N records. The total is unknown while
// streaming and is reported as 0.
type Progress struct {
	every, next int
	obs         batch.Observer
}

// NewProgress returns nil when every is 0 or obs is nil.
func NewProgress(every int, obs batch.Observer) *Progress {
	if every <= 0 || obs == nil {
		return nil
	}
	return &Progress{every: every, obs: obs}
}

// For returns the ProgressEvery and Progress to pass to a core call over the
// group starting at base.
func (p *Progress) For(base int) (int, batch.Observer) {
	if p == nil {
		return 0, nil
	}
	return 1, func(ev batch.Event) {
		if ev.Stage != "sequences" {
			return
		}
		abs := base + ev.Done
		if abs < p.next {
			return
		}
		p.obs.Notify(batch.Event{Stage: ev.Stage, Done: abs})
		p.next = (abs/p.every + 1) * p.every
	}
}

// LoadFailed reports a motif loading error. Unreadable or malformed motifs
// are a usage error.
func LoadFailed(ctx context.Context, stderr io.Writer, err error) int {
	if ctx.Err() != nil {
		return ExitCancelled
	}
	_, _ = fmt.Fprintln(stderr, err)
	return ExitUsage
}

// ExitCode maps a run error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitCancelled
	case errors.Is(err, scanerr.ErrConfiguration), errors.Is(err, scanerr.ErrPrecondition):
		return ExitUsage
	}
	var ie *InputError
	if errors.As(err, &ie) {
		return ExitUsage
	}
	return ExitRuntime
}

// Fail prints err and returns its exit code. Cancellation is silent.
func Fail(stderr io.Writer, err error) int {
	code := ExitCode(err)
	if code != ExitCancelled {
		_, _ = fmt.Fprintln(stderr, err)
	}
	return code
}

// Flush flushes outw, treating a closed downstream pipe as success.
func Flush(outw *bufio.Writer, stderr io.Writer) int {
	if err := outw.Flush(); writers.IsBrokenPipe(err) {
		return ExitOK
	} else if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return ExitRuntime
	}
	return ExitOK
}

// Prologue handles the outcome of flag parsing: help, examples, version and
// usage errors. It reports done=true with the exit code when the app should
// stop.
func Prologue(fs *flag.FlagSet, name string, showVersion bool, err error, outw *bufio.Writer, stderr io.Writer, examples func(io.Writer)) (code int, done bool) {
	switch {
	case errors.Is(err, clibase.ErrPrintedAndExitOK):
		examples(outw)
		return Flush(outw, stderr), true
	case errors.Is(err, flag.ErrHelp):
		fs.SetOutput(outw)
		fs.Usage()
		return Flush(outw, stderr), true
	case err != nil:
		_, _ = fmt.Fprintln(stderr, err)
		fs.SetOutput(outw)
		fs.Usage()
		if c := Flush(outw, stderr); c != ExitOK {
			return c, true
		}
		return ExitUsage, true
	case showVersion:
		_, _ = fmt.Fprintf(outw, "%s version %s\n", name, version.Version)
		return Flush(outw, stderr), true
	}
	return ExitOK, false
}

// Emit streams values produced by produce through a writer started on out.
// A writer failure stops production; a closed downstream pipe is success.
func Emit[T any](ctx context.Context, out io.Writer, stderr io.Writer,
	start func(io.Writer, int) (chan<- T, <-chan error),
	produce func(send func(T) error) error,
) int {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	in, writeErr := start(out, 64)
	perr := produce(func(v T) error {
		select {
		case in <- v:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	close(in)

	if werr := <-writeErr; werr != nil {
		_, _ = fmt.Fprintln(stderr, werr)
		return ExitRuntime
	}
	if perr != nil {
		return Fail(stderr, perr)
	}
	return ExitOK
}

// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"convscan/core/scan"
	"convscan/internal/clibase"
	"convscan/internal/cliutil"
)

// Scoring metrics.
const (
	MetricXCor    = "xcor"
	MetricJaccard = "jaccard"
)

// Options holds the convscan flags.
type Options struct {
	clibase.Common

	Metric         string
	MinOverlap     float64
	FuncParamsSize int
	BothStrands    bool
	Offsets        bool
	Smooth         int
}

// NewFlagSet returns a FlagSet with the convscan usage text.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	clibase.UsageCommon(fs, name, func(out io.Writer, def func(string) string) {
		_, _ = fmt.Fprintln(out, "Usage:")
		_, _ = fmt.Fprintf(out, "  %s [options] --motif TGASTCA ref.fa\n", name)

		_, _ = fmt.Fprintln(out, "\nScan:")
		_, _ = fmt.Fprintf(out, "      --metric string         Score: xcor | jaccard [%s]\n", def("metric"))
		_, _ = fmt.Fprintf(out, "      --min-overlap float     Fraction of a motif that must lie on the sequence [%s]\n", def("min-overlap"))
		_, _ = fmt.Fprintf(out, "      --func-params-size int  Motif values scanned per pass [%s]\n", def("func-params-size"))
		_, _ = fmt.Fprintf(out, "      --both-strands          Also scan the reverse complement [%s]\n", def("both-strands"))
		_, _ = fmt.Fprintf(out, "      --offsets               Report the best offset of each motif (xcor) [%s]\n", def("offsets"))
		_, _ = fmt.Fprintf(out, "      --smooth int            Offsets window used to pick the best offset [%s]\n", def("smooth"))
	})
	return fs
}

// PrintExamples prints a tiny quickstart for convscan.
func PrintExamples(out io.Writer) {
	clibase.PrintExamples(out, "convscan", func(w io.Writer) {
		_, _ = fmt.Fprintln(w, "Best motif score per sequence:")
		_, _ = fmt.Fprintln(w, "  convscan --motif TGASTCA --both-strands peaks.fa.gz")
		_, _ = fmt.Fprintln(w, "\nBest offsets over a genome cut in 500-bp windows, as JSONL:")
		_, _ = fmt.Fprintln(w, "  convscan --motifs motifs.tsv --offsets --window 500 -o jsonl genome.fa")
	})
}

// ParseArgs registers and parses all flags.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	var help, showExamples bool

	noHeader := clibase.Register(fs, &o.Common)

	fs.StringVar(&o.Metric, "metric", MetricXCor, "score: xcor | jaccard [xcor]")
	fs.Float64Var(&o.MinOverlap, "min-overlap", 1.0, "fraction of a motif that must lie on the sequence, in (0,1] [1]")
	fs.IntVar(&o.FuncParamsSize, "func-params-size", scan.DefaultFuncParamsSize, "motif values scanned per pass [1000000]")
	fs.BoolVar(&o.BothStrands, "both-strands", false, "also scan the reverse complement [false]")
	fs.BoolVar(&o.Offsets, "offsets", false, "report the best offset of each motif (xcor only) [false]")
	fs.IntVar(&o.Smooth, "smooth", 1, "offsets window used to pick the best offset [1]")

	fs.BoolVar(&help, "h", false, "show this help [false]")
	fs.BoolVar(&showExamples, "examples", false, "show quickstart examples and exit [false]")

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return o, err
	}
	if showExamples {
		return o, clibase.ErrPrintedAndExitOK
	}
	if help {
		return o, flag.ErrHelp
	}
	if o.Version {
		return o, nil
	}
	if err := clibase.AfterParse(&o.Common, noHeader, posArgs); err != nil {
		return o, err
	}
	return o, validate(o)
}

func validate(o Options) error {
	switch o.Metric {
	case MetricXCor, MetricJaccard:
	default:
		return fmt.Errorf("invalid --metric %q", o.Metric)
	}
	if !(o.MinOverlap > 0 && o.MinOverlap <= 1) {
		return fmt.Errorf("--min-overlap must be in (0,1], got %v", o.MinOverlap)
	}
	if o.FuncParamsSize < 1 {
		return errors.New("--func-params-size must be ≥ 1")
	}
	if o.Smooth < 1 {
		return errors.New("--smooth must be ≥ 1")
	}
	if o.Metric == MetricJaccard && (o.Offsets || o.BothStrands) {
		return errors.New("--offsets and --both-strands apply to --metric xcor only")
	}
	return nil
}

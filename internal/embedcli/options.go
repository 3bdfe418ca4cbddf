package embedcli

import (
	"flag"
	"fmt"
	"io"

	"convscan/internal/clibase"
	"convscan/internal/cliutil"
)

type Options struct {
	clibase.Common

	Bias               float64
	RequireOnehotMatch bool
}

func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	clibase.UsageCommon(fs, name, func(out io.Writer, def func(string) string) {
		_, _ = fmt.Fprintln(out, "Usage:")
		_, _ = fmt.Fprintf(out, "  %s [options] --motifs motifs.tsv ref.fa\n", name)

		_, _ = fmt.Fprintln(out, "\nEmbedding:")
		_, _ = fmt.Fprintf(out, "      --bias float            Added to every motif score at every position [%s]\n", def("bias"))
		_, _ = fmt.Fprintf(out, "      --require-onehot-match  Count a position only if the motif matches the unambiguous bases [%s]\n", def("require-onehot-match"))
	})
	return fs
}

// PrintExamples prints a tiny quickstart for convscan-embed.
func PrintExamples(out io.Writer) {
	clibase.PrintExamples(out, "convscan-embed", func(w io.Writer) {
		_, _ = fmt.Fprintln(w, "One value per motif per sequence, as JSONL:")
		_, _ = fmt.Fprintln(w, "  convscan-embed --motifs kmers.tsv --bias -5 --require-onehot-match -o jsonl reads.fa")
	})
}

func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	var help, showExamples bool

	noHeader := clibase.Register(fs, &o.Common)

	fs.Float64Var(&o.Bias, "bias", 0, "added to every motif score at every position [0]")
	fs.BoolVar(&o.RequireOnehotMatch, "require-onehot-match", false, "count a position only if the motif matches the unambiguous bases [false]")

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
	return o, clibase.AfterParse(&o.Common, noHeader, posArgs)
}

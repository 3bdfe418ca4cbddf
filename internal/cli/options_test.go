// internal/cli/options_test.go
package cli

import (
	"errors"
	"flag"
	"io"
	"strings"
	"testing"

	"convscan/internal/clibase"
)

func newFS() *flag.FlagSet {
	fs := NewFlagSet("test")
	fs.SetOutput(io.Discard)
	return fs
}

func mustParse(t *testing.T, args ...string) Options {
	t.Helper()
	opts, err := ParseArgs(newFS(), args)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	return opts
}

func TestDefaults(t *testing.T) {
	o := mustParse(t, "--motif", "ACGT", "ref.fa")
	if o.Metric != MetricXCor || o.MinOverlap != 1 || o.Smooth != 1 || o.BatchSize != 50 {
		t.Errorf("unexpected defaults %+v", o)
	}
	if !o.Header || len(o.SeqFiles) != 1 {
		t.Errorf("header/positional not finalized: %+v", o)
	}
}

func TestScanFlags(t *testing.T) {
	o := mustParse(t,
		"ref.fa", "--motifs", "m.tsv", "--both-strands", "--offsets",
		"--smooth", "3", "--min-overlap", "0.5", "--sequences", "extra.fa",
	)
	if !o.BothStrands || !o.Offsets || o.Smooth != 3 || o.MinOverlap != 0.5 {
		t.Errorf("bad scan parse %+v", o)
	}
	if strings.Join(o.SeqFiles, ",") != "extra.fa,ref.fa" {
		t.Errorf("sequence order %v", o.SeqFiles)
	}
}

func TestErrors(t *testing.T) {
	cases := [][]string{
		{"--motif", "ACGT", "--metric", "cosine", "ref.fa"},
		{"--motif", "ACGT", "--min-overlap", "0", "ref.fa"},
		{"--motif", "ACGT", "--min-overlap", "1.5", "ref.fa"},
		{"--motif", "ACGT", "--smooth", "0", "ref.fa"},
		{"--motif", "ACGT", "--func-params-size", "0", "ref.fa"},
		{"--motif", "ACGT", "--metric", "jaccard", "--offsets", "ref.fa"},
		{"--motif", "ACGT"},
		{"ref.fa"},
	}
	for _, argv := range cases {
		if _, err := ParseArgs(newFS(), argv); err == nil {
			t.Errorf("expected error for %v", argv)
		}
	}
}

func TestHelpVersionExamples(t *testing.T) {
	if _, err := ParseArgs(newFS(), []string{"-h"}); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("help: %v", err)
	}
	if _, err := ParseArgs(newFS(), []string{"--examples"}); !errors.Is(err, clibase.ErrPrintedAndExitOK) {
		t.Errorf("examples: %v", err)
	}
	o, err := ParseArgs(newFS(), []string{"--version"})
	if err != nil || !o.Version {
		t.Errorf("version: %+v %v", o, err)
	}
}

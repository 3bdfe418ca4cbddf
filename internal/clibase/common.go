// internal/clibase/common.go
package clibase

import (
	"errors"
	"flag"
	"fmt"

	"convscan/internal/cliutil"
)

// Output formats.
const (
	OutputTSV   = "tsv"
	OutputJSON  = "json"
	OutputJSONL = "jsonl"
)

// Common holds CLI fields shared by convscan and convscan-embed.
type Common struct {
	// Input
	MotifFile string
	Motifs    []string // inline consensus strings
	SeqFiles  []string
	Window    int

	// Batching
	BatchSize int
	Workers   int
	Progress  int

	// Output
	Output string // tsv|json|jsonl
	Header bool

	// Misc
	Quiet   bool
	Version bool
}

// Register wires shared flags onto fs and returns a pointer to the “no-header” bool
// that the caller can use to set Common.Header = !noHeader after parsing.
func Register(fs *flag.FlagSet, c *Common) *bool {
	// Inputs
	fs.StringVar(&c.MotifFile, "motifs", "", "TSV motif file (id consensus)")
	fs.Var(cliutil.Strings{Dst: &c.Motifs}, "motif", "IUPAC consensus motif (repeatable)")
	fs.StringVar(&c.MotifFile, "m", "", "alias of --motifs")
	seqVal := cliutil.Strings{Dst: &c.SeqFiles}
	fs.Var(seqVal, "sequences", "FASTA file(s) (repeatable) or '-'")
	fs.Var(seqVal, "s", "alias of --sequences")
	fs.IntVar(&c.Window, "window", 0, "scan records as N-bp windows (0=whole records) [0]")

	// Batching
	fs.IntVar(&c.BatchSize, "batch-size", 50, "sequences per batch [50]")
	fs.IntVar(&c.Workers, "workers", 0, "batches run concurrently (0=sequential) [0]")
	fs.IntVar(&c.Workers, "t", 0, "alias of --workers")
	fs.IntVar(&c.Progress, "progress", 0, "report progress every N sequences (0=off) [0]")

	// Output
	fs.StringVar(&c.Output, "output", OutputTSV, "output: tsv | json | jsonl [tsv]")
	fs.StringVar(&c.Output, "o", OutputTSV, "alias of --output")
	noHeader := false
	fs.BoolVar(&noHeader, "no-header", false, "suppress header line [false]")

	// Misc
	fs.BoolVar(&c.Quiet, "quiet", false, "suppress warnings and progress [false]")
	fs.BoolVar(&c.Quiet, "q", false, "alias of --quiet")
	fs.BoolVar(&c.Version, "v", false, "print version and exit [false]")
	fs.BoolVar(&c.Version, "version", false, "print version and exit [false]")

	return &noHeader
}

// AfterParse finalizes header and expands positionals, then runs shared validation.
func AfterParse(c *Common, noHeader *bool, posArgs []string) error {
	c.Header = !*noHeader

	if len(posArgs) > 0 {
		exp, err := cliutil.ExpandPositionals(posArgs)
		if err != nil {
			return err
		}
		c.SeqFiles = append(c.SeqFiles, exp...)
	}
	return Validate(c)
}

// Validate applies shared CLI invariants used by all tools.
func Validate(c *Common) error {
	usingFile := c.MotifFile != ""
	usingInline := len(c.Motifs) > 0
	switch {
	case usingFile && usingInline:
		return errors.New("--motifs conflicts with --motif")
	case !usingFile && !usingInline:
		return errors.New("provide --motifs or --motif")
	}
	if len(c.SeqFiles) == 0 {
		return errors.New("at least one sequence file is required")
	}
	if c.Window < 0 {
		return errors.New("--window must be ≥ 0")
	}
	if c.BatchSize < 1 {
		return errors.New("--batch-size must be ≥ 1")
	}
	if c.Workers < 0 {
		return errors.New("--workers must be ≥ 0")
	}
	if c.Progress < 0 {
		return errors.New("--progress must be ≥ 0")
	}
	switch c.Output {
	case OutputTSV, OutputJSON, OutputJSONL:
	default:
		return fmt.Errorf("invalid --output %q", c.Output)
	}
	return nil
}

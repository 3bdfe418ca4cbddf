// internal/clibase/usage.go
package clibase

import (
	"flag"
	"fmt"
	"io"

	"convscan/internal/version"
)

// UsageCommon installs a shared Usage() handler on fs.
// extra prints tool-specific sections (usage line, scan or embed options).
func UsageCommon(fs *flag.FlagSet, name string, extra func(out io.Writer, def func(string) string)) {
	fs.Usage = func() {
		out := fs.Output()
		def := func(flagName string) string {
			if f := fs.Lookup(flagName); f != nil {
				return f.DefValue
			}
			return ""
		}

		fmt.Fprintf(out, "%s – convolutional motif scanning\n\n", name)
		fmt.Fprintln(out, "License: MIT")
		fmt.Fprintf(out, "Version: %s\n\n", version.Version)

		if extra != nil {
			extra(out, def)
		}

		fmt.Fprintln(out, "\nInput:")
		fmt.Fprintln(out, "  -m, --motifs string         Motif TSV (id consensus) [*]")
		fmt.Fprintln(out, "      --motif string          IUPAC consensus motif, repeatable [*]")
		fmt.Fprintln(out, "  -s, --sequences file        FASTA file(s) (repeatable) or '-' for STDIN")
		fmt.Fprintf(out, "      --window int            Scan records as N-bp windows (0=whole records) [%s]\n", def("window"))

		fmt.Fprintln(out, "\nBatching:")
		fmt.Fprintf(out, "      --batch-size int        Sequences per batch [%s]\n", def("batch-size"))
		fmt.Fprintf(out, "  -t, --workers int           Batches run concurrently (0=sequential) [%s]\n", def("workers"))
		fmt.Fprintf(out, "      --progress int          Report progress every N sequences (0=off) [%s]\n", def("progress"))

		fmt.Fprintln(out, "\nOutput:")
		fmt.Fprintf(out, "  -o, --output string         Output: tsv | json | jsonl [%s]\n", def("output"))
		fmt.Fprintf(out, "      --no-header             Suppress header line [%s]\n", def("no-header"))

		fmt.Fprintln(out, "\nMiscellaneous:")
		fmt.Fprintf(out, "  -q, --quiet                 Suppress warnings and progress [%s]\n", def("quiet"))
		fmt.Fprintln(out, "      --examples              Show quickstart examples and exit")
		fmt.Fprintln(out, "  -v, --version               Print version and exit")
		fmt.Fprintln(out, "  -h, --help                  Show this help and exit")
	}
}

// internal/writers/writer.go
package writers

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"convscan/internal/jsonlutil"
	"convscan/internal/jsonutil"
)

// Formats.
const (
	FormatTSV   = "tsv"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
)

// Codec describes how one wire value is laid out in TSV.
type Codec[T any] struct {
	Header []string
	Row    func(T) []string
}

// Start spins up a writer goroutine for values of type T. TSV and JSONL
// stream; JSON collects everything into one array.
func Start[T any](out io.Writer, format string, header bool, c Codec[T], bufSize int) (chan<- T, <-chan error) {
	if format == FormatJSONL {
		return jsonlutil.Start(out, bufSize, func(v T) T { return v }, IsBrokenPipe)
	}
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan T, bufSize)
	errCh := make(chan error, 1)

	go func() {
		var err error
		switch format {
		case FormatTSV:
			err = streamTSV(out, in, header, c)
		case FormatJSON:
			var buf []T
			for v := range in {
				buf = append(buf, v)
			}
			err = jsonutil.EncodeArray(out, buf)
		default:
			err = fmt.Errorf("unsupported output %q", format)
		}
		for range in {
		}
		if IsBrokenPipe(err) {
			err = nil
		}
		errCh <- err
	}()

	return in, errCh
}

func streamTSV[T any](out io.Writer, in <-chan T, header bool, c Codec[T]) error {
	bw := bufio.NewWriter(out)
	if header && len(c.Header) > 0 {
		if _, err := fmt.Fprintln(bw, strings.Join(c.Header, "\t")); err != nil {
			return err
		}
	}
	for v := range in {
		if _, err := fmt.Fprintln(bw, strings.Join(c.Row(v), "\t")); err != nil {
			return err
		}
	}
	return bw.Flush()
}

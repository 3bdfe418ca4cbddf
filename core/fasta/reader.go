// core/fasta/reader.go
package fasta

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
)

// Record is one FASTA sequence, or one window of it.
type Record struct {
	ID  string
	Seq []byte // upper-case
}

// Options controls windowing. With ChunkSize <= 0 each record is emitted
// whole. Otherwise records longer than ChunkSize are cut into windows of
// ChunkSize bases that overlap by Overlap bases, named "id:start-end".
type Options struct {
	ChunkSize int
	Overlap   int
}

// Scan parses FASTA from r and calls emit per record (or window). It stops
// at the first emit error and honors ctx between lines and windows.
func Scan(ctx context.Context, r io.Reader, opt Options, emit func(Record) error) error {
	sc := bufio.NewScanner(r)
	const maxLine = 64 * 1024 * 1024 // allow very long single-line sequences (64 MiB)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var (
		id   string
		seen bool
		seq  = make([]byte, 0, 1<<16)
	)
	flush := func() error {
		if !seen {
			return nil
		}
		return split(ctx, id, seq, opt, emit)
	}

	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return err
			}
			id, seen, seq = parseHeaderID(line[1:]), true, seq[:0]
			continue
		}
		seen = true
		seq = append(seq, bytes.ToUpper(bytes.TrimSpace(line))...)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("fasta scan: %w", err)
	}
	return flush()
}

func split(ctx context.Context, id string, seq []byte, opt Options, emit func(Record) error) error {
	if opt.ChunkSize <= 0 || opt.ChunkSize >= len(seq) {
		return emit(Record{ID: id, Seq: bytes.Clone(seq)})
	}
	step := opt.ChunkSize - max(opt.Overlap, 0)
	if step <= 0 {
		return emit(Record{ID: id, Seq: bytes.Clone(seq)})
	}
	for off := 0; off < len(seq); off += step {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(off+opt.ChunkSize, len(seq))
		if err := emit(Record{ID: fmt.Sprintf("%s:%d-%d", id, off, end), Seq: bytes.Clone(seq[off:end])}); err != nil {
			return err
		}
		if end == len(seq) {
			break
		}
	}
	return nil
}

func parseHeaderID(hdr []byte) string {
	hdr = bytes.TrimSpace(hdr)
	if i := bytes.IndexAny(hdr, " \t"); i >= 0 {
		return string(hdr[:i])
	}
	return string(hdr)
}

// core/onehot/loader.go
package onehot

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Motif is a named consensus and its filter.
type Motif struct {
	ID        string
	Consensus string
	Filter    *mat.Dense
}

// NewMotif validates consensus and builds its filter.
func NewMotif(id, consensus string) (Motif, error) {
	f, err := FilterFromConsensus(consensus)
	if err != nil {
		return Motif{}, fmt.Errorf("motif %s: %w", id, err)
	}
	return Motif{ID: id, Consensus: Normalize(consensus), Filter: f}, nil
}

// LoadTSV reads "id consensus" lines. Blank lines and # comments are skipped.
func LoadTSV(path string) ([]Motif, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()

	var list []Motif
	sc := bufio.NewScanner(fh)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		f := strings.Fields(line)
		if len(f) != 2 {
			return nil, fmt.Errorf("%s:%d bad field count", path, ln)
		}
		m, err := NewMotif(f[0], f[1])
		if err != nil {
			return nil, fmt.Errorf("%s:%d %v", path, ln, err)
		}
		list = append(list, m)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// Filters returns the filter of every motif, in order.
func Filters(ms []Motif) []*mat.Dense {
	out := make([]*mat.Dense, len(ms))
	for i, m := range ms {
		out[i] = m.Filter
	}
	return out
}

// internal/writers/codecs.go
package writers

import (
	"strconv"

	"convscan/pkg/api"
)

// ScoreCodec lays out max-score rows. With offsets it adds strand and offset.
func ScoreCodec(offsets bool) Codec[api.ScoreV1] {
	h := []string{"motif", "sequence", "score"}
	if offsets {
		h = append(h, "strand", "offset")
	}
	return Codec[api.ScoreV1]{
		Header: h,
		Row: func(s api.ScoreV1) []string {
			row := []string{s.Motif, s.Sequence, formatFloat(s.Score)}
			if offsets {
				off := "NA"
				if s.Offset != nil {
					off = strconv.Itoa(*s.Offset)
				}
				row = append(row, s.Strand, off)
			}
			return row
		},
	}
}

// SimilarityCodec lays out signed Jaccard rows.
func SimilarityCodec() Codec[api.SimilarityV1] {
	return Codec[api.SimilarityV1]{
		Header: []string{"motif", "sequence", "similarity"},
		Row: func(s api.SimilarityV1) []string {
			return []string{s.Motif, s.Sequence, formatFloat(s.Similarity)}
		},
	}
}

// EmbeddingCodec lays out one row per sequence, one column per motif.
func EmbeddingCodec(motifs []string) Codec[api.EmbeddingV1] {
	return Codec[api.EmbeddingV1]{
		Header: append([]string{"sequence"}, motifs...),
		Row: func(e api.EmbeddingV1) []string {
			row := make([]string, 0, len(e.Values)+1)
			row = append(row, e.Sequence)
			for _, v := range e.Values {
				row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
			}
			return row
		},
	}
}

func formatFloat(v *float64) string {
	if v == nil {
		return "NaN"
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

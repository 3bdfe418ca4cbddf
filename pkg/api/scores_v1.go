// pkg/api/scores_v1.go
package api

import "math"

// ScoreV1 is the stable JSON/JSONL schema for one motif scored on one
// sequence. Keep fields, names, and types stable. Add new fields only with ",omitempty".
type ScoreV1 struct {
	Motif    string   `json:"motif"`
	Sequence string   `json:"sequence"`
	Score    *float64 `json:"score"`            // null when undefined
	Strand   string   `json:"strand,omitempty"` // "+" | "-" (offset reports only)
	Offset   *int     `json:"offset,omitempty"`
}

// SimilarityV1 is the stable schema for a signed Jaccard comparison.
type SimilarityV1 struct {
	Motif      string   `json:"motif"`
	Sequence   string   `json:"sequence"`
	Similarity *float64 `json:"similarity"` // null when both sides are empty
}

// EmbeddingV1 is the stable schema for one embedded sequence. Values follow
// the motif order of the run.
type EmbeddingV1 struct {
	Sequence string    `json:"sequence"`
	Values   []float64 `json:"values"`
}

// Float returns a JSON-safe pointer to v, nil for NaN and ±Inf.
func Float(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Package scan scores a bank of filters against sequences. Filters and
// sequences are [positions × channels] gonum matrices and are never modified.
//
// Three scores are provided:
//   - MaxCrossCorrelation: best sliding dot product per (filter, sequence),
//     with edge padding controlled by a minimum overlap.
//   - JaccardScanner: signed Jaccard similarity between a filter and an input
//     of the same shape (no sliding).
//   - GappedKmerEmbedder: summed sliding score per (sequence, filter),
//     optionally gated by an exact one-hot match.
//
// Work over sequences goes through package batch, so peak memory is bounded
// by the batch size rather than by the collection.
package scan

// Package writers turns scan results into serialized outputs.
//
// Design:
//   • Writers own all presentation knowledge (TSV/JSON/JSONL).
//   • The core returns matrices and hits; apps convert them to pkg/api (v1)
//     values and stream them here.
package writers

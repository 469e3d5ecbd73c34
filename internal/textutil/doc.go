// Package textutil provides small text helpers shared across the pipeline.
//
// The primary use cases are:
//   - Sanitizing project names and path segments for safe filesystem use
//   - Deriving output file stems from human-readable production names
//   - Rune-aware truncation for checkpoint snapshots and display
package textutil

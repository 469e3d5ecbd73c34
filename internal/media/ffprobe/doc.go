// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// The pipeline uses it to derive music length from the voiceover track and
// to confirm that composed videos actually carry audio and video streams.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video stream properties
//   - Format: container-level metadata (duration, size)
//
// Primary entry point:
//   - Inspect: executes ffprobe and returns parsed Result
package ffprobe

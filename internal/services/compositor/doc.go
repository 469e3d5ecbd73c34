// Package compositor assembles the final video with ffmpeg.
//
// The avatar video supplies picture and speech. The compositor scales and
// pads it to the platform profile, optionally mixes looped background music
// under the speech, and writes an H.264/AAC file with the moov atom up front
// for streaming playback. Output is verified with ffprobe before success is
// reported.
package compositor

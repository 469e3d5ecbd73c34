// Package music mediates access to the background music generator CLI used
// during the music step.
//
// The generator receives a style prompt and a target duration; the pipeline
// derives the duration from the voiceover so music never runs long.
package music

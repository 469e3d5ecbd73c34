// Package voice mediates access to the text-to-speech CLI used during the
// voiceover step.
//
// It normalizes command invocation, keeps the voiceover artifact name stable
// so checkpoints can reuse it across runs, and validates that the tool
// actually produced audio before reporting success.
package voice

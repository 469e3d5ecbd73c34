// Package pipeline drives a video production from script to final render.
//
// The Producer runs the fixed step order (voiceover, avatar, music,
// composition) against one project directory, checkpointing after every
// transition through the manifest store so an interrupted or failed run
// resumes from the first incomplete step instead of starting over. Completed
// assets are reused when their records still validate; anything else is
// regenerated. A file lock on the project directory keeps concurrent
// invocations from interleaving writes.
//
// Generators are consumed through narrow interfaces so tests can substitute
// fakes; the real implementations live under internal/services.
package pipeline

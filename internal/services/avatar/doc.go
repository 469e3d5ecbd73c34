// Package avatar mediates access to the talking-head renderer CLI used
// during the avatar step.
//
// Renderers in the SadTalker family write results into their own managed
// directory rather than an output path argument. The client runs the tool,
// claims the newest video it produced, and relocates it into the project
// directory under a stable name so checkpoints can reuse it.
package avatar

// Package services defines shared utilities consumed by the pipeline steps
// and the external generator integrations.
//
// Key responsibilities:
//   - Context helpers that stamp project names, step names, and run
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification (retryable generation faults vs setup problems)
//     consistent across generators.
//   - The Health record each generator reports so preflight checks and the
//     doctor command can summarize readiness uniformly.
//
// Use these helpers when wiring new generator logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services

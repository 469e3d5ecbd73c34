// Package main hosts the Clapper CLI entrypoint and command graph.
//
// The Cobra-based command tree drives checkpointed production runs, progress
// inspection, checkpoint resets, catalog browsing, environment diagnostics,
// and configuration scaffolding. It centralizes configuration resolution and
// structured logging setup so subcommands can focus on user experience
// instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
// The pipeline owns production semantics; the CLI only translates flags into
// content and renders results.
package main

// Package manifest owns the durable production state for one project
// directory: which pipeline steps have completed, which assets exist on disk,
// and the configuration snapshot that produced them.
//
// The manifest file (manifest.json) is the sole durable representation of
// pipeline progress. The Store is its only reader and writer; it persists with
// whole-file write-then-rename semantics so a crash never leaves a truncated
// manifest, and it recovers from corrupt files by falling back to a fresh
// state rather than blocking reruns.
//
// Asset validity is never trusted blindly: a record claiming completion is
// revalidated against the filesystem before reuse, and optionally against its
// stored content fingerprint.
package manifest

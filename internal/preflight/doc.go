// Package preflight validates the host environment before production runs.
//
// Checks cover directory access, free disk space, and the external binaries
// the configured pipeline invokes. The doctor command renders the full set;
// the pipeline runs the disk space check before each production.
package preflight

// Package config loads, normalizes, and validates Clapper configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// CLAPPER_PROJECTS_ROOT. The Config type centralizes every knob the pipeline
// and CLI need, so project directories, tool binaries, and checkpoint policy
// are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config

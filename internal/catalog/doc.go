// Package catalog archives finished productions in SQLite.
//
// The catalog is an append-only record of completed runs: what was produced,
// for which platform, where the final video landed, and when. It never
// participates in pipeline decisions, so a missing or broken catalog degrades
// to a logged warning rather than a failed production.
//
// Schema changes bump the version in schema.go; users clear the database to
// adopt the new schema.
package catalog

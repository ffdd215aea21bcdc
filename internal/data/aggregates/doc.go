// Package aggregates enforces referential integrity on top of a schemaless
// document store.
//
// A Repository owns one collection. It resolves every relation value to an
// existing aggregate before writing, reconciles list relations with minimal
// diffs under a version check, and returns sanitized, populated reads.
// Cross-collection lookups go through a Catalog supplied by the caller.
package aggregates

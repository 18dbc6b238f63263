// Package halparse extracts capability-interface declarations from fetched
// Rust source text.
//
// The parser is deliberately shallow: it recognizes top-level `pub trait`
// declarations and the `impl Trait for Type` blocks realizing them, without
// building a syntax tree. Because fetch completion order is non-deterministic
// the parser sorts files by path before scanning, so the same source tree
// always yields the same record sequence regardless of network timing. A file
// that fails to scan is skipped with a warning and never aborts the run.
package halparse

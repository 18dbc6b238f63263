// Package scaffold emits the generated workspace skeleton: the workspace
// manifest, the core library and host test-harness crates, and per-platform
// HAL wrapper and application units.
//
// The scaffolder is a thin collaborator of the analysis core. It owns the
// workspace Cargo.toml outright and regenerates it from a template whenever
// the member set changes; the synchronizer only ever reads it.
package scaffold

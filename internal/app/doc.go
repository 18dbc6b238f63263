// Package app wires the application together: logger, config store, source
// fetcher, validator, scaffolder and toolchain runner. Each App instance is
// fully isolated, with its own logger and store, so tests can run many side
// by side.
package app

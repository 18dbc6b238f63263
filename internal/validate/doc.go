// Package validate orchestrates the glue analysis pipeline end to end.
//
// A run drives fetch, parse, classification, target inference and workspace
// synchronization for one or all platforms, accumulating diagnostics at every
// stage into a report. Independent platforms are analyzed concurrently and
// never share a working copy. The store is read once at the start of a run;
// the only mutating path is Apply, which installs the new configuration
// atomically and only when the report carries zero errors. Warnings never
// block Apply.
package validate

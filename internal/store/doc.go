// Package store owns the persisted glue configuration file.
//
// All mutation follows the load, compute, atomically-replace discipline:
// callers receive an immutable snapshot from Load, work on a clone, and hand
// the result back to Replace, which writes through a pending temp file and a
// rename so a crash mid-write never leaves a truncated glue.hcl. Replace is
// single-writer; concurrent appliers serialize on the store's lock.
package store

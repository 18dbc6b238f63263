// Package fetch retrieves a remote package's source file tree.
//
// The client speaks a GitHub-style split protocol: one request against the
// API host for the recursive tree listing of a ref, then one raw-content
// request per file of interest. File requests run concurrently under a fixed
// in-flight limit. A single failed file is recorded and does not abort its
// siblings; only a fetch that yields zero files is fatal, and that outcome is
// retried with exponential backoff before the NetworkError surfaces.
package fetch

// Package cli defines the halglue command tree. It translates flags and
// arguments into application calls, prints reports, and classifies errors
// into process exit codes. No analysis logic lives here.
package cli

// Package workspace reconciles the configured platform set against the
// on-disk generated units and the workspace member list.
//
// The synchronizer only reports: it computes the delta between the expected
// unit set (the fixed core units plus one HAL wrapper and one application
// unit per registered platform) and reality, and leaves every edit to the
// scaffolding collaborator. A registered platform without its units is an
// error; a leftover unit without a registered platform is only a warning,
// because removed platforms intentionally leave artifacts behind for
// user-driven cleanup.
package workspace

// Package config defines the format-agnostic model for the persisted glue
// configuration: platforms, their discovered capability interfaces, and the
// diagnostics accumulated for them during analysis.
//
// The model is the single source of truth for the validate, workspace and
// store packages. The HCL binding lives in the schema and store packages;
// nothing here knows about serialization.
package config

package app

import "errors"

// GlueFileName is the persisted configuration file inside a workspace root.
const GlueFileName = "glue.hcl"

// Config holds everything an App instance needs to run.
type Config struct {
	// ProjectRoot is the workspace directory holding glue.hcl and the
	// generated units.
	ProjectRoot string

	LogFormat string
	LogLevel  string

	// Workers bounds concurrent per-platform analyses. Zero means default.
	Workers int

	// APIBaseURL and RawBaseURL override the fetch endpoints; empty selects
	// the public defaults. Tests point these at local fixture servers.
	APIBaseURL string
	RawBaseURL string
}

// NewConfig validates an App configuration.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ProjectRoot == "" {
		return nil, errors.New("ProjectRoot is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}

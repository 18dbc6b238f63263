// Package schema declares the HCL-tagged structures for the persisted
// glue.hcl file. These are serialization shapes only; the store package
// translates between them and the format-agnostic config model.
package schema

import "github.com/hashicorp/hcl/v2"

// File represents the top-level structure of a glue.hcl file: one platform
// block per configured platform, in declaration order.
type File struct {
	Platforms []*Platform `hcl:"platform,block"`
	Body      hcl.Body    `hcl:",remain"`
}

// Platform represents a `platform "<name>"` block.
type Platform struct {
	Name           string        `hcl:"name,label"`
	Target         string        `hcl:"target,optional"`
	PackageVersion string        `hcl:"package_version,optional"`
	Status         string        `hcl:"status"`
	Source         *Source       `hcl:"source,block"`
	Interfaces     []*Interface  `hcl:"interface,block"`
	Diagnostics    []*Diagnostic `hcl:"diagnostic,block"`
}

// Source represents the nested `source` block pointing at the remote package.
type Source struct {
	Repository string `hcl:"repository"`
	Ref        string `hcl:"ref,optional"`
}

// Interface represents an `interface "<name>"` block: one discovered
// capability-interface declaration and its classification.
type Interface struct {
	Name       string `hcl:"name,label"`
	ModulePath string `hcl:"module_path"`
	Category   string `hcl:"category"`
	Mockable   bool   `hcl:"mockable"`
	File       string `hcl:"file,optional"`
	Line       int    `hcl:"line,optional"`
}

// Diagnostic represents a `diagnostic "<severity>"` block.
type Diagnostic struct {
	Severity  string `hcl:"severity,label"`
	Message   string `hcl:"message"`
	Interface string `hcl:"interface,optional"`
}

package validate

import (
	"fmt"
	"strings"

	"github.com/vk/halglue/internal/config"
)

// PlatformReport is the per-platform slice of a run's report.
type PlatformReport struct {
	Name        string
	Target      string
	Version     string
	Status      config.PlatformStatus
	Mockable    []string
	Diagnostics []config.Diagnostic
}

// Report is the result of one validator run: every diagnostic produced at any
// stage plus the final platform states. Rendering is deterministic, so two
// runs over an unchanged configuration produce byte-identical output.
type Report struct {
	Platforms []PlatformReport
	// Workspace carries synchronizer findings that are not tied to a single
	// platform, such as membership mismatches.
	Workspace []config.Diagnostic
}

// ErrorCount totals error-severity diagnostics across the whole report.
func (r *Report) ErrorCount() int {
	n := 0
	for _, p := range r.Platforms {
		for _, d := range p.Diagnostics {
			if d.Severity == config.SeverityError {
				n++
			}
		}
	}
	for _, d := range r.Workspace {
		if d.Severity == config.SeverityError {
			n++
		}
	}
	return n
}

// WarningCount totals warning-severity diagnostics across the whole report.
func (r *Report) WarningCount() int {
	n := 0
	for _, p := range r.Platforms {
		for _, d := range p.Diagnostics {
			if d.Severity == config.SeverityWarning {
				n++
			}
		}
	}
	for _, d := range r.Workspace {
		if d.Severity == config.SeverityWarning {
			n++
		}
	}
	return n
}

// String renders the report as stable, human-readable text.
func (r *Report) String() string {
	var b strings.Builder

	for _, p := range r.Platforms {
		fmt.Fprintf(&b, "platform %q\n", p.Name)
		fmt.Fprintf(&b, "  status: %s\n", p.Status)
		if p.Target != "" {
			fmt.Fprintf(&b, "  target: %s\n", p.Target)
		}
		if p.Version != "" {
			fmt.Fprintf(&b, "  version: %s\n", p.Version)
		}
		if len(p.Mockable) > 0 {
			fmt.Fprintf(&b, "  mockable: %s\n", strings.Join(p.Mockable, ", "))
		}
		for _, d := range p.Diagnostics {
			fmt.Fprintf(&b, "  %s: %s\n", d.Severity, d.Message)
		}
	}

	for _, d := range r.Workspace {
		fmt.Fprintf(&b, "workspace %s: %s\n", d.Severity, d.Message)
	}

	fmt.Fprintf(&b, "summary: %d error(s), %d warning(s)\n", r.ErrorCount(), r.WarningCount())
	return b.String()
}

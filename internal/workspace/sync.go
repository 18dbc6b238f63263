package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/vk/halglue/internal/config"
	"github.com/vk/halglue/internal/ctxlog"
	"github.com/vk/halglue/internal/fsutil"
)

// CoreUnits are the fixed generated units every workspace carries: the
// hardware-agnostic library and the host test harness.
var CoreUnits = []string{"core-lib", "tests"}

// UnitsFor returns the generated-unit names tied to one platform.
func UnitsFor(name string) []string {
	return []string{"hal-" + name, "app-" + name}
}

// ExpectedUnits computes the sorted unit set the workspace should contain for
// the given configuration: core units plus the units of every registered
// platform.
func ExpectedUnits(m *config.Model) []string {
	units := append([]string(nil), CoreUnits...)
	for _, p := range m.Platforms() {
		if p.Status == config.StatusRegistered {
			units = append(units, UnitsFor(p.Name)...)
		}
	}
	sort.Strings(units)
	return units
}

// workspaceManifest is the slice of the workspace Cargo.toml the synchronizer
// reads. Member paths are relative to the workspace root.
type workspaceManifest struct {
	Workspace struct {
		Members []string `toml:"members"`
	} `toml:"workspace"`
}

// Synchronize compares the expected generated-unit set against the on-disk
// directories and the workspace member list, reporting the delta as
// diagnostics. It never edits the filesystem or the member list.
func Synchronize(ctx context.Context, root string, m *config.Model) []config.Diagnostic {
	logger := ctxlog.FromContext(ctx)
	var diags []config.Diagnostic

	onDisk, err := fsutil.DirNames(root)
	if err != nil {
		return []config.Diagnostic{{
			Severity: config.SeverityError,
			Message:  fmt.Sprintf("cannot inspect workspace root: %v", err),
		}}
	}
	present := make(map[string]bool, len(onDisk))
	for _, name := range onDisk {
		present[name] = true
	}

	// Registered platforms must have their scaffold on disk.
	registered := make(map[string]bool)
	for _, p := range m.Platforms() {
		if p.Status != config.StatusRegistered {
			continue
		}
		registered[p.Name] = true
		for _, unit := range UnitsFor(p.Name) {
			if !present[unit] {
				diags = append(diags, config.Diagnostic{
					Severity: config.SeverityError,
					Message:  fmt.Sprintf("missing scaffold for platform '%s': unit %s not found", p.Name, unit),
				})
			}
		}
	}

	// Leftover units only warn; a Removed tombstone keeps its artifacts
	// until the user cleans them up.
	for _, name := range onDisk {
		platform, ok := unitPlatform(name)
		if !ok {
			continue
		}
		if !registered[platform] {
			diags = append(diags, config.Diagnostic{
				Severity: config.SeverityWarning,
				Message:  fmt.Sprintf("orphan unit '%s'; consider removal", name),
			})
		}
	}

	diags = append(diags, checkMembers(root, m)...)

	logger.Debug("Workspace synchronization finished.",
		"units_on_disk", len(onDisk), "diagnostics", len(diags))
	return diags
}

// checkMembers verifies the workspace member list is exactly the sorted union
// of expected units.
func checkMembers(root string, m *config.Model) []config.Diagnostic {
	manifestPath := filepath.Join(root, "Cargo.toml")
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return []config.Diagnostic{{
			Severity: config.SeverityError,
			Message:  fmt.Sprintf("workspace membership out of sync: cannot read %s: %v", manifestPath, err),
		}}
	}

	var manifest workspaceManifest
	if _, err := toml.Decode(string(data), &manifest); err != nil {
		return []config.Diagnostic{{
			Severity: config.SeverityError,
			Message:  fmt.Sprintf("workspace membership out of sync: cannot parse %s: %v", manifestPath, err),
		}}
	}

	members := append([]string(nil), manifest.Workspace.Members...)
	sort.Strings(members)
	expected := ExpectedUnits(m)

	if !equalStrings(members, expected) {
		return []config.Diagnostic{{
			Severity: config.SeverityError,
			Message: fmt.Sprintf("workspace membership out of sync: have [%s], want [%s]",
				strings.Join(members, ", "), strings.Join(expected, ", ")),
		}}
	}
	return nil
}

// unitPlatform maps a generated-unit directory name back to its platform.
func unitPlatform(dir string) (string, bool) {
	for _, prefix := range []string{"hal-", "app-"} {
		if strings.HasPrefix(dir, prefix) && len(dir) > len(prefix) {
			return dir[len(prefix):], true
		}
	}
	return "", false
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

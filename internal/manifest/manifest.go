// Package manifest reads cargo manifest metadata out of a fetched source
// tree. Only the package table matters here: name and keywords feed target
// inference, version feeds the platform record.
package manifest

import (
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/vk/halglue/internal/fetch"
)

// Package is the subset of a Cargo.toml [package] table the analysis uses.
type Package struct {
	Name     string   `toml:"name"`
	Version  string   `toml:"version"`
	Keywords []string `toml:"keywords"`
}

type cargoManifest struct {
	Package *Package `toml:"package"`
}

// FromFiles finds and decodes the root-most Cargo.toml in a fetched tree.
// A manifest that fails to decode is treated as absent; inference then works
// from the repository name alone.
func FromFiles(files []fetch.File) (*Package, bool) {
	var candidates []fetch.File
	for _, f := range files {
		base := f.Path
		if i := strings.LastIndexByte(f.Path, '/'); i >= 0 {
			base = f.Path[i+1:]
		}
		if base == "Cargo.toml" {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return nil, false
	}

	// Shallowest path first: the workspace or crate root manifest.
	sort.Slice(candidates, func(i, j int) bool {
		di := strings.Count(candidates[i].Path, "/")
		dj := strings.Count(candidates[j].Path, "/")
		if di != dj {
			return di < dj
		}
		return candidates[i].Path < candidates[j].Path
	})

	for _, c := range candidates {
		var m cargoManifest
		if _, err := toml.Decode(c.Content, &m); err != nil {
			continue
		}
		if m.Package != nil {
			return m.Package, true
		}
	}
	return nil, false
}

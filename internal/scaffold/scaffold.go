package scaffold

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"

	"github.com/vk/halglue/internal/ctxlog"
	"github.com/vk/halglue/internal/workspace"
)

// Scaffolder emits generated units under a workspace root.
type Scaffolder struct {
	Root string
}

// New returns a scaffolder rooted at the given workspace directory.
func New(root string) *Scaffolder {
	return &Scaffolder{Root: root}
}

// InitProject creates a fresh workspace skeleton in a new directory named
// after the project, including the core units and an empty glue.hcl.
func (s *Scaffolder) InitProject(ctx context.Context, name string) (string, error) {
	logger := ctxlog.FromContext(ctx)

	root := filepath.Join(s.Root, name)
	if _, err := os.Stat(root); err == nil {
		return "", fmt.Errorf("directory %s already exists", root)
	}

	files := map[string]string{
		"core-lib/Cargo.toml":       coreLibManifest,
		"core-lib/src/lib.rs":       coreLibSource,
		"tests/Cargo.toml":          testsManifest,
		"tests/integration_test.rs": testsSource,
		".cargo/config.toml":        cargoConfig,
		"glue.hcl":                  "",
	}
	for rel, content := range files {
		if err := writeTree(root, rel, content); err != nil {
			return "", err
		}
	}

	if err := renderTo(root, "Cargo.toml", workspaceManifestTemplate,
		map[string]any{"Members": workspace.CoreUnits}); err != nil {
		return "", err
	}
	if err := renderTo(root, "README.md", readmeTemplate,
		map[string]any{"Name": name}); err != nil {
		return "", err
	}

	logger.Info("Workspace initialized.", "path", root)
	return root, nil
}

// AddPlatform emits the hal-<name> and app-<name> units and registers them in
// the workspace member list. Embedded targets additionally get a memory
// layout script and a no_std entry point.
func (s *Scaffolder) AddPlatform(ctx context.Context, name, triple, halCrate string) error {
	logger := ctxlog.FromContext(ctx)

	if halCrate == "" {
		halCrate = name + "-hal"
	}
	embedded := isEmbeddedTarget(triple)

	halUnit := "hal-" + name
	if err := renderTo(s.Root, filepath.Join(halUnit, "Cargo.toml"), halManifestTemplate,
		map[string]any{"Platform": name, "HalCrate": halCrate}); err != nil {
		return err
	}
	if err := renderTo(s.Root, filepath.Join(halUnit, "src", "lib.rs"), halSourceTemplate,
		map[string]any{"Platform": name}); err != nil {
		return err
	}

	appUnit := "app-" + name
	if err := renderTo(s.Root, filepath.Join(appUnit, "Cargo.toml"), appManifestTemplate,
		map[string]any{"Platform": name, "Embedded": embedded}); err != nil {
		return err
	}
	mainSrc := appEmbeddedMain
	if !embedded {
		var err error
		mainSrc, err = render(appHostedMainTemplate, map[string]any{"Platform": name})
		if err != nil {
			return err
		}
	}
	if err := writeTree(s.Root, filepath.Join(appUnit, "src", "main.rs"), mainSrc); err != nil {
		return err
	}
	if embedded {
		if err := writeTree(s.Root, filepath.Join(appUnit, "memory.x"), memoryLayout); err != nil {
			return err
		}
	}

	if err := s.addMembers(halUnit, appUnit); err != nil {
		return err
	}

	logger.Info("Platform units emitted.", "platform", name, "target", triple, "embedded", embedded)
	return nil
}

// addMembers folds new units into the workspace member list and regenerates
// the manifest. The member list is kept sorted so the synchronizer's
// expected-set comparison stays stable.
func (s *Scaffolder) addMembers(units ...string) error {
	manifestPath := filepath.Join(s.Root, "Cargo.toml")
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return fmt.Errorf("read workspace manifest: %w", err)
	}

	var current struct {
		Workspace struct {
			Members []string `toml:"members"`
		} `toml:"workspace"`
	}
	if _, err := toml.Decode(string(data), &current); err != nil {
		return fmt.Errorf("parse workspace manifest: %w", err)
	}

	members := current.Workspace.Members
	for _, unit := range units {
		found := false
		for _, m := range members {
			if m == unit {
				found = true
				break
			}
		}
		if !found {
			members = append(members, unit)
		}
	}
	sort.Strings(members)

	return renderTo(s.Root, "Cargo.toml", workspaceManifestTemplate,
		map[string]any{"Members": members})
}

// isEmbeddedTarget reports whether a triple needs the no_std treatment.
func isEmbeddedTarget(triple string) bool {
	for _, hosted := range []string{"linux", "windows", "darwin"} {
		if strings.Contains(triple, hosted) {
			return false
		}
	}
	return true
}

func render(tmpl string, data any) (string, error) {
	t, err := template.New("scaffold").Parse(tmpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderTo(root, rel, tmpl string, data any) error {
	content, err := render(tmpl, data)
	if err != nil {
		return fmt.Errorf("render %s: %w", rel, err)
	}
	return writeTree(root, rel, content)
}

func writeTree(root, rel, content string) error {
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

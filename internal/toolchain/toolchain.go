// Package toolchain shells out to the external cargo or cross build tools.
// It is a thin collaborator: the analysis core never invokes it, and it
// performs no inspection of its own beyond selecting the configured target
// triple for a platform.
package toolchain

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/vk/halglue/internal/config"
	"github.com/vk/halglue/internal/ctxlog"
)

// ExecFunc runs one external command. Swappable so tests never spawn real
// toolchains.
type ExecFunc func(ctx context.Context, name string, args ...string) error

// Runner invokes build and test commands inside a workspace root.
type Runner struct {
	Root string
	Exec ExecFunc
}

// New returns a runner that executes commands with inherited stdio.
func New(root string) *Runner {
	return &Runner{
		Root: root,
		Exec: func(ctx context.Context, name string, args ...string) error {
			cmd := exec.CommandContext(ctx, name, args...)
			cmd.Dir = root
			cmd.Stdout = os.Stdout
			cmd.Stderr = os.Stderr
			return cmd.Run()
		},
	}
}

// Build compiles either the whole workspace for the host or one platform's
// application unit for its configured target triple.
func (r *Runner) Build(ctx context.Context, m *config.Model, platform string, useCross bool) error {
	logger := ctxlog.FromContext(ctx)

	if platform == "" {
		logger.Info("Building workspace for host.")
		return r.Exec(ctx, "cargo", "build", "--workspace")
	}

	p, ok := m.Get(platform)
	if !ok || p.Status == config.StatusRemoved {
		return fmt.Errorf("platform %q: %w", platform, config.ErrNotFound)
	}
	if p.Target == "" {
		return fmt.Errorf("platform %q has no target identifier; run glue validate first", platform)
	}

	tool := "cargo"
	if useCross {
		tool = "cross"
	}
	logger.Info("Building platform unit.", "platform", platform, "target", p.Target, "tool", tool)
	return r.Exec(ctx, tool, "build", "--target", p.Target, "-p", "app-"+platform)
}

// Test runs the host test harness. On-target testing is delegated to probe
// tooling and not wrapped here.
func (r *Runner) Test(ctx context.Context) error {
	ctxlog.FromContext(ctx).Info("Running host tests.")
	return r.Exec(ctx, "cargo", "test", "--workspace", "--exclude", "app-*")
}

package validate

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/vk/halglue/internal/classify"
	"github.com/vk/halglue/internal/config"
	"github.com/vk/halglue/internal/ctxlog"
	"github.com/vk/halglue/internal/fetch"
	"github.com/vk/halglue/internal/fsutil"
	"github.com/vk/halglue/internal/halparse"
	"github.com/vk/halglue/internal/manifest"
	"github.com/vk/halglue/internal/store"
	"github.com/vk/halglue/internal/target"
	"github.com/vk/halglue/internal/workspace"
)

// defaultWorkers caps how many platforms are analyzed concurrently.
const defaultWorkers = 4

// Validator drives the pipeline and is the only component allowed to trigger
// a transactional configuration write.
type Validator struct {
	store    *store.Store
	fetcher  fetch.Fetcher
	registry *classify.Registry
	root     string
	workers  int
}

// New wires a validator. root is the workspace root the synchronizer
// inspects; workers <= 0 selects the default parallelism.
func New(s *store.Store, f fetch.Fetcher, reg *classify.Registry, root string, workers int) *Validator {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Validator{store: s, fetcher: f, registry: reg, root: root, workers: workers}
}

// Init analyzes a new platform through the Analyzed state and persists the
// resulting entry. A live record under the same name fails immediately with
// ErrDuplicatePlatform and changes nothing; a fetch that yields no files
// fails with a NetworkError and changes nothing.
func (v *Validator) Init(ctx context.Context, name, repository, ref string) (*Report, error) {
	m, err := v.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if existing, ok := m.Get(name); ok && existing.Status != config.StatusRemoved {
		return nil, fmt.Errorf("platform %q: %w", name, config.ErrDuplicatePlatform)
	}

	p := &config.Platform{
		Name:   name,
		Source: config.SourceRef{Repository: repository, Ref: ref},
		Status: config.StatusProposed,
	}
	if err := v.analyze(ctx, p); err != nil {
		return nil, err
	}

	if err := v.store.Add(ctx, p); err != nil {
		return nil, err
	}

	return &Report{Platforms: []PlatformReport{platformReport(p)}}, nil
}

// Validate runs the full pipeline for all platforms. Without apply it is
// always a dry run. With apply it persists the updated configuration and
// advances eligible platforms to Registered, but only when the report
// carries zero errors; warnings never block.
func (v *Validator) Validate(ctx context.Context, apply bool) (*Report, error) {
	logger := ctxlog.FromContext(ctx)

	committed, err := v.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	working := committed.Clone()

	// Independent platforms analyze in parallel. Each goroutine owns exactly
	// one platform's working copy; nothing is shared between them.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.workers)
	for _, p := range working.Platforms() {
		if p.Status == config.StatusRemoved {
			continue
		}
		g.Go(func() error {
			return v.analyze(gctx, p)
		})
	}
	if err := g.Wait(); err != nil {
		// A structural failure aborts the whole run with no persisted
		// mutation; the store keeps its last committed state.
		return nil, err
	}

	wsDiags := workspace.Synchronize(ctx, v.root, working)
	syncErrors := 0
	for _, d := range wsDiags {
		if d.Severity == config.SeverityError {
			syncErrors++
		}
	}

	// Analyzed platforms with a clean slate advance to Validated once the
	// synchronizer reports no errors.
	if syncErrors == 0 {
		for _, p := range working.Platforms() {
			if p.Status == config.StatusAnalyzed && p.Errors() == 0 {
				p.Status = config.StatusValidated
			}
		}
	}

	report := buildReport(working, wsDiags)

	if !apply {
		return report, nil
	}
	if report.ErrorCount() > 0 {
		logger.Debug("Apply refused: report contains errors.", "errors", report.ErrorCount())
		return report, nil
	}

	for _, p := range working.Platforms() {
		if p.Status == config.StatusValidated && p.Target != "" {
			p.Status = config.StatusRegistered
		}
	}
	v.reconcileTombstones(ctx, working)

	if err := v.store.Replace(ctx, working); err != nil {
		return nil, err
	}
	// Statuses in the report reflect what was just committed.
	report = buildReport(working, wsDiags)
	logger.Debug("Applied configuration.", "platforms", working.Len())
	return report, nil
}

// List reports the persisted state without running any analysis.
func (v *Validator) List(ctx context.Context) (*Report, error) {
	m, err := v.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return buildReport(m, nil), nil
}

// Remove tombstones a platform. Its generated units stay on disk and surface
// as orphan warnings until released by reconciliation.
func (v *Validator) Remove(ctx context.Context, name string) error {
	return v.store.Remove(ctx, name)
}

// analyze runs the per-platform pipeline stages: fetch, parse, classify and,
// when the record has no target identifier yet, inference. Diagnostics from a
// previous run are cleared first.
func (v *Validator) analyze(ctx context.Context, p *config.Platform) error {
	logger := ctxlog.FromContext(ctx).With("platform", p.Name)
	ctx = ctxlog.WithLogger(ctx, logger)

	p.Diagnostics = nil
	p.Interfaces = nil

	result, err := v.fetcher.Fetch(ctx, p.Source.Repository, p.Source.Ref)
	if err != nil {
		return err
	}

	// Per-file fetch failures degrade to warnings, ordered by path so the
	// report does not depend on completion timing.
	failures := append([]fetch.Failure(nil), result.Failures...)
	sort.Slice(failures, func(i, j int) bool { return failures[i].Path < failures[j].Path })
	for _, f := range failures {
		p.Diagnostics = append(p.Diagnostics, config.Diagnostic{
			Severity: config.SeverityWarning,
			Message:  fmt.Sprintf("could not fetch %s: %v", f.Path, f.Err),
		})
	}

	parsed := halparse.ParseTree(ctx, result.Files)
	p.Diagnostics = append(p.Diagnostics, parsed.Diagnostics...)

	classified := classify.Classify(parsed.Records, v.registry)
	p.Interfaces = classified.Records
	p.Diagnostics = append(p.Diagnostics, classified.Diagnostics...)

	pkg, hasManifest := manifest.FromFiles(result.Files)
	if hasManifest && pkg.Version != "" {
		p.PackageVersion = pkg.Version
	}

	if p.Target == "" {
		var pkgHint *manifest.Package
		if hasManifest {
			pkgHint = pkg
		}
		triple, diags := target.Infer(ctx, fetch.RepositoryName(p.Source.Repository), pkgHint)
		p.Target = triple
		p.Diagnostics = append(p.Diagnostics, diags...)
	}

	if parsed.FilesParsed > 0 && !p.Status.AtLeast(config.StatusAnalyzed) {
		p.Status = config.StatusAnalyzed
	}

	logger.Debug("Platform analysis finished.",
		"interfaces", len(p.Interfaces),
		"mockable", len(classified.Mockable),
		"diagnostics", len(p.Diagnostics),
		"status", p.Status)
	return nil
}

// reconcileTombstones drops Removed records whose generated units are gone
// from disk. Until then the tombstone stays so the synchronizer keeps
// reporting the leftovers.
func (v *Validator) reconcileTombstones(ctx context.Context, m *config.Model) {
	logger := ctxlog.FromContext(ctx)

	onDisk, err := fsutil.DirNames(v.root)
	if err != nil {
		return
	}
	present := make(map[string]bool, len(onDisk))
	for _, name := range onDisk {
		present[name] = true
	}

	for _, name := range m.Names() {
		p, _ := m.Get(name)
		if p.Status != config.StatusRemoved {
			continue
		}
		leftover := false
		for _, unit := range workspace.UnitsFor(p.Name) {
			if present[unit] {
				leftover = true
				break
			}
		}
		if !leftover {
			logger.Debug("Releasing tombstone.", "platform", name)
			m.Delete(name)
		}
	}
}

func buildReport(m *config.Model, wsDiags []config.Diagnostic) *Report {
	r := &Report{Workspace: wsDiags}
	for _, p := range m.Platforms() {
		r.Platforms = append(r.Platforms, platformReport(p))
	}
	return r
}

func platformReport(p *config.Platform) PlatformReport {
	return PlatformReport{
		Name:        p.Name,
		Target:      p.Target,
		Version:     p.PackageVersion,
		Status:      p.Status,
		Mockable:    p.MockableNames(),
		Diagnostics: append([]config.Diagnostic(nil), p.Diagnostics...),
	}
}

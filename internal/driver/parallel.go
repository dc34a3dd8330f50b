package driver

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"riptide/internal/ast"
	"riptide/internal/buildpipeline"
	"riptide/internal/diag"
	"riptide/internal/observ"
	"riptide/internal/project"
	"riptide/internal/project/dag"
	"riptide/internal/sema"
	"riptide/internal/source"
	"riptide/internal/symbols"
)

// ProjectOptions configure a whole-project run.
type ProjectOptions struct {
	Root     string
	Manifest *project.Manifest

	MaxDiagnostics int
	Strict         bool
	Jobs           int

	CollectTimings bool
	Observer       PhaseObserver
	Sink           buildpipeline.ProgressSink

	// Cache, when set, skips the check phase for clean unchanged
	// modules and publishes their cached export surface instead.
	Cache *DiskCache
}

// ModuleResult is one checked module of the project. The parse
// artefacts stay available so emission never re-parses.
type ModuleResult struct {
	// Meta includes the canonical identity, import edges and hashes.
	Meta    project.ModuleMeta
	FileID  source.FileID
	Builder *ast.Builder
	File    ast.FileID
	Symbols *symbols.Result
	Bag     *diag.Bag
	// Deferred marks a module scheduled through the cycle batch.
	Deferred bool
	// CacheHit marks a module whose check was served from the disk
	// cache.
	CacheHit bool
	// Exports is the published surface, nil for broken modules.
	Exports *sema.PortableExports
}

// ProjectResult is the outcome of a whole-project run.
type ProjectResult struct {
	FileSet *source.FileSet
	Modules []ModuleResult
	Timing  *observ.Report
	Cyclic  bool
}

// MergedBag combines every module's diagnostics into one sorted bag.
func (r *ProjectResult) MergedBag(maxDiagnostics int) *diag.Bag {
	merged := diag.NewBag(maxDiagnostics)
	for _, mod := range r.Modules {
		merged.Merge(mod.Bag)
	}
	merged.Sort()
	return merged
}

// HasErrors reports whether any module produced an error diagnostic.
func (r *ProjectResult) HasErrors() bool {
	for _, mod := range r.Modules {
		if mod.Bag.HasErrors() {
			return true
		}
	}
	return false
}

// CheckProject discovers, schedules and checks every module under the
// project root. Dependency batches run concurrently; import cycles are
// legal and run sequentially after the acyclic waves with deferred
// exports standing in for unpublished cycle members.
func CheckProject(ctx context.Context, opts ProjectOptions) (res *ProjectResult, err error) {
	defer recoverInvariant("", &err)

	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = project.DefaultBuildConfig().MaxDiagnostics
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	timer := observ.NewTimer()
	phase := func(name string, fn func() error) error {
		if opts.Observer != nil {
			opts.Observer(PhaseEvent{Name: name, Status: PhaseStart})
		}
		idx := timer.Begin(name)
		start := time.Now()
		err := fn()
		timer.End(idx, "")
		if opts.Observer != nil {
			opts.Observer(PhaseEvent{Name: name, Status: PhaseEnd, Elapsed: time.Since(start)})
		}
		return err
	}

	fileSet := source.NewFileSetWithBase(opts.Root)

	var sources []moduleSource
	if err := phase("discover", func() error {
		var derr error
		sources, derr = resolveModuleSources(opts.Root, opts.Manifest)
		return derr
	}); err != nil {
		return nil, err
	}

	relPaths := make([]string, len(sources))
	for i, src := range sources {
		relPaths[i] = src.Rel
	}
	buildpipeline.EmitQueued(opts.Sink, relPaths)

	var arts []moduleArtifact
	if err := phase("parse+bind", func() error {
		buildpipeline.EmitStage(opts.Sink, relPaths, buildpipeline.StageParse, buildpipeline.StatusWorking, nil, 0)
		var derr error
		arts, derr = discoverModules(ctx, fileSet, opts.Root, sources, opts.MaxDiagnostics, jobs)
		buildpipeline.EmitStage(opts.Sink, relPaths, buildpipeline.StageBind, buildpipeline.StatusDone, nil, 0)
		return derr
	}); err != nil {
		return nil, err
	}

	// Graph construction over the discovered metadata.
	metas := make([]project.ModuleMeta, len(arts))
	nodes := make([]dag.ModuleNode, len(arts))
	for i := range arts {
		metas[i] = arts[i].Meta
		nodes[i] = dag.ModuleNode{
			Meta:     arts[i].Meta,
			Reporter: diag.BagReporter{Bag: arts[i].Bag},
			Broken:   arts[i].Broken,
			FirstErr: firstError(arts[i].Bag),
		}
	}
	index := dag.BuildIndex(metas)
	graph, slots := dag.BuildGraph(index, nodes)
	topo := dag.ToposortKahn(graph)

	artByID := make(map[dag.ModuleID]*moduleArtifact, len(arts))
	for i := range arts {
		if id, ok := index.NameToID[arts[i].Meta.Path]; ok {
			artByID[id] = &arts[i]
		}
	}

	sched := &scheduler{
		opts:    opts,
		index:   index,
		slots:   slots,
		topo:    topo,
		arts:    artByID,
		exports: make([]*sema.PortableExports, len(index.IDToName)),
		hits:    make([]bool, len(index.IDToName)),
	}

	if err := phase("check", func() error {
		return sched.run(ctx, jobs)
	}); err != nil {
		return nil, err
	}

	dag.ReportBrokenDeps(index, sched.slots)
	buildpipeline.EmitPipeline(opts.Sink, buildpipeline.StageCheck, buildpipeline.StatusDone)

	res = &ProjectResult{FileSet: fileSet, Cyclic: topo.Cyclic}
	for i := range arts {
		art := &arts[i]
		mod := ModuleResult{
			Meta:    art.Meta,
			FileID:  art.FileID,
			Builder: art.Builder,
			File:    art.File,
			Symbols: art.Symbols,
			Bag:     art.Bag,
		}
		if id, ok := index.NameToID[art.Meta.Path]; ok {
			mod.Deferred = topo.InCycle(id)
			mod.Exports = sched.exports[int(id)]
			mod.CacheHit = sched.hits[int(id)]
		}
		res.Modules = append(res.Modules, mod)
	}
	if opts.CollectTimings {
		report := timer.Report()
		res.Timing = &report
		if len(res.Modules) > 0 {
			appendTimingDiagnostic(res.Modules[0].Bag, timingPayload{
				Kind:    "project",
				TotalMS: report.TotalMS,
				Phases:  report.Phases,
			})
		}
	}
	return res, nil
}

// scheduler drives the batch-parallel check phase and owns the
// write-once export cache.
type scheduler struct {
	opts  ProjectOptions
	index dag.ModuleIndex
	slots []dag.ModuleSlot
	topo  *dag.Topo
	arts  map[dag.ModuleID]*moduleArtifact

	// exports is written once per module, after its check, before the
	// batch barrier releases any dependent. hits marks disk cache use.
	exports []*sema.PortableExports
	hits    []bool
}

func (s *scheduler) run(ctx context.Context, jobs int) error {
	for _, batch := range s.topo.Batches {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(min(jobs, len(batch)))
		for _, id := range batch {
			g.Go(func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				return s.checkModule(id)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	// Cycle members and their downstream run sequentially in index
	// order; each sees the real exports published so far.
	for _, id := range s.topo.CycleBatch {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := s.checkModule(id); err != nil {
			return err
		}
	}
	return nil
}

func (s *scheduler) checkModule(id dag.ModuleID) (err error) {
	art := s.arts[id]
	if art == nil || art.Broken || art.Builder == nil {
		return nil
	}
	name := art.Meta.Path
	defer recoverInvariant(name, &err)

	rel := art.Rel
	buildpipeline.EmitFile(s.opts.Sink, rel, buildpipeline.StageCheck, buildpipeline.StatusWorking, nil, 0)
	start := time.Now()

	// Aggregate hash over the dependency surface; cycle members skip
	// the disk cache because their result depends on schedule order.
	inCycle := s.topo.InCycle(id)
	moduleHash := s.moduleHash(id, art)
	art.Meta.ModuleHash = moduleHash

	if !inCycle && s.opts.Cache != nil {
		if payload, ok := s.opts.Cache.Get(moduleHash); ok && payload.Name == name {
			s.publish(id, payload.Exports)
			s.hits[int(id)] = true
			buildpipeline.EmitFile(s.opts.Sink, rel, buildpipeline.StageCheck, buildpipeline.StatusDone, nil, time.Since(start))
			return nil
		}
	}

	deps := s.depSurface(art)
	checked := sema.Check(art.Builder, art.File, sema.Options{
		Reporter: diag.BagReporter{Bag: art.Bag},
		Symbols:  art.Symbols,
		Strict:   s.opts.Strict,
		Deps:     deps,
	})

	exports := checked.Exports.Portable(checked.Types)
	s.publish(id, exports)

	if !inCycle && s.opts.Cache != nil && !art.Bag.HasErrors() {
		// Cache write failures are non-fatal.
		_ = s.opts.Cache.Put(moduleHash, &DiskPayload{
			Name:        name,
			ContentHash: art.Meta.ContentHash,
			ModuleHash:  moduleHash,
			Exports:     exports,
		})
	}

	var ferr error
	if first := firstError(art.Bag); first != nil {
		ferr = fmt.Errorf("%s", first.Message)
	}
	buildpipeline.EmitFile(s.opts.Sink, rel, buildpipeline.StageCheck, statusFor(ferr), ferr, time.Since(start))
	return nil
}

// publish stores a module's export surface exactly once. A second
// publish means the schedule itself is broken.
func (s *scheduler) publish(id dag.ModuleID, exports *sema.PortableExports) {
	if s.exports[int(id)] != nil {
		panic(&sema.InvariantError{
			Msg: fmt.Sprintf("exports for module %q published twice", s.index.IDToName[int(id)]),
		})
	}
	s.exports[int(id)] = exports
}

// depSurface maps each import specifier as written to the typed export
// surface the checker should use. Unpublished cycle members resolve as
// deferred; unknown modules stay absent (the graph already reported
// them).
func (s *scheduler) depSurface(art *moduleArtifact) map[string]*sema.ModuleTypes {
	if art.Symbols == nil || len(art.Symbols.Imports) == 0 {
		return nil
	}
	deps := make(map[string]*sema.ModuleTypes, len(art.Symbols.Imports))
	for _, imp := range art.Symbols.Imports {
		canon, ok := project.CanonicalSpecifier(imp.Module)
		if !ok {
			continue
		}
		id, ok := s.index.NameToID[canon]
		if !ok || !s.slots[int(id)].Present {
			continue
		}
		if exp := s.exports[int(id)]; exp != nil {
			deps[imp.Module] = sema.NewModuleTypes(exp)
		} else {
			deps[imp.Module] = sema.DeferredModuleTypes(canon)
		}
	}
	return deps
}

// moduleHash aggregates the module's content hash with its present
// dependencies' content hashes in edge order.
func (s *scheduler) moduleHash(id dag.ModuleID, art *moduleArtifact) project.Digest {
	depHashes := make([]project.Digest, 0, len(art.Meta.Imports))
	for _, imp := range art.Meta.Imports {
		depID, ok := s.index.NameToID[imp.Path]
		if !ok || !s.slots[int(depID)].Present {
			continue
		}
		if dep := s.arts[depID]; dep != nil {
			depHashes = append(depHashes, dep.Meta.ContentHash)
		}
	}
	return project.Combine(art.Meta.ContentHash, depHashes...)
}

func firstError(bag *diag.Bag) *diag.Diagnostic {
	if bag == nil {
		return nil
	}
	for i, d := range bag.Items() {
		if d.Severity == diag.SevError {
			return &bag.Items()[i]
		}
	}
	return nil
}

func statusFor(err error) buildpipeline.Status {
	if err != nil {
		return buildpipeline.StatusError
	}
	return buildpipeline.StatusDone
}

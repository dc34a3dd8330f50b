package dag

import (
	"reflect"
	"testing"

	"riptide/internal/diag"
	"riptide/internal/project"
	"riptide/internal/source"
)

func idsToNames(idx ModuleIndex, ids []ModuleID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = idx.IDToName[int(id)]
	}
	return out
}

func batchesToNames(idx ModuleIndex, batches [][]ModuleID) [][]string {
	out := make([][]string, len(batches))
	for i, batch := range batches {
		out[i] = idsToNames(idx, batch)
	}
	return out
}

func nodesFor(metas ...project.ModuleMeta) ([]ModuleNode, []*diag.Bag) {
	nodes := make([]ModuleNode, len(metas))
	bags := make([]*diag.Bag, len(metas))
	for i, meta := range metas {
		bags[i] = diag.NewBag(16)
		nodes[i] = ModuleNode{Meta: meta, Reporter: diag.BagReporter{Bag: bags[i]}}
	}
	return nodes, bags
}

func TestBuildIndexIncludesImports(t *testing.T) {
	metas := []project.ModuleMeta{
		{
			Path: "core/main",
			Imports: []project.ImportMeta{
				{Path: "lib/math"},
				{Path: "lib/util"},
			},
		},
		{Path: "lib/util"},
	}

	idx := BuildIndex(metas)

	if len(idx.IDToName) != 3 {
		t.Fatalf("unexpected module count: %d", len(idx.IDToName))
	}

	wantNames := []string{"core/main", "lib/math", "lib/util"}
	for i, want := range wantNames {
		if got := idx.IDToName[i]; got != want {
			t.Fatalf("idx.IDToName[%d] = %q, want %q", i, got, want)
		}
		if id, ok := idx.NameToID[want]; !ok || int(id) != i {
			t.Fatalf("idx.NameToID[%q] = %v, want %d", want, id, i)
		}
	}
}

func TestToposortDependencyFirstBatches(t *testing.T) {
	// app -> core -> util, helper -> util
	metas := []project.ModuleMeta{
		{Path: "app", Imports: []project.ImportMeta{{Path: "core"}}},
		{Path: "core", Imports: []project.ImportMeta{{Path: "util"}}},
		{Path: "helper", Imports: []project.ImportMeta{{Path: "util"}}},
		{Path: "util"},
	}
	idx := BuildIndex(metas)
	nodes, _ := nodesFor(metas...)
	g, _ := BuildGraph(idx, nodes)
	topo := ToposortKahn(g)

	if topo.Cyclic {
		t.Fatal("unexpected cycle")
	}
	want := [][]string{{"util"}, {"core", "helper"}, {"app"}}
	got := batchesToNames(idx, topo.Batches)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("batches = %v, want %v", got, want)
	}
}

func TestBuildGraphReportsMissingModule(t *testing.T) {
	metas := []project.ModuleMeta{
		{
			Path: "app",
			Span: source.Span{File: 1, Start: 0, End: 10},
			Imports: []project.ImportMeta{
				{Path: "ghost", Span: source.Span{File: 1, Start: 5, End: 8}},
			},
		},
	}
	idx := BuildIndex(metas)
	nodes, bags := nodesFor(metas...)
	BuildGraph(idx, nodes)

	items := bags[0].Items()
	if len(items) != 1 {
		t.Fatalf("diagnostics = %d, want 1", len(items))
	}
	if items[0].Code != diag.ProjMissingModule {
		t.Errorf("code = %v, want ProjMissingModule", items[0].Code)
	}
	if items[0].Primary.Start != 5 {
		t.Errorf("span = %v, want specifier span", items[0].Primary)
	}
}

func TestBuildGraphReportsSelfImport(t *testing.T) {
	metas := []project.ModuleMeta{
		{
			Path:    "loop",
			Imports: []project.ImportMeta{{Path: "loop", Span: source.Span{File: 1, Start: 2, End: 6}}},
		},
	}
	idx := BuildIndex(metas)
	nodes, bags := nodesFor(metas...)
	BuildGraph(idx, nodes)

	items := bags[0].Items()
	if len(items) != 1 || items[0].Code != diag.ProjSelfImport {
		t.Fatalf("diagnostics = %+v, want one ProjSelfImport", items)
	}
}

func TestBuildGraphReportsDuplicateModule(t *testing.T) {
	first := project.ModuleMeta{Path: "dup", Span: source.Span{File: 1, Start: 0, End: 4}}
	second := project.ModuleMeta{Path: "dup", Span: source.Span{File: 2, Start: 0, End: 4}}
	idx := BuildIndex([]project.ModuleMeta{first, second})
	nodes, bags := nodesFor(first, second)
	BuildGraph(idx, nodes)

	items := bags[1].Items()
	if len(items) != 1 || items[0].Code != diag.ProjDuplicateModule {
		t.Fatalf("diagnostics = %+v, want one ProjDuplicateModule", items)
	}
	if len(items[0].Notes) != 1 {
		t.Error("duplicate report should note the previous definition")
	}
}

func TestToposortCycleIsScheduledNotRejected(t *testing.T) {
	// a <-> b form a cycle; c depends on b.
	metas := []project.ModuleMeta{
		{Path: "a", Imports: []project.ImportMeta{{Path: "b"}}},
		{Path: "b", Imports: []project.ImportMeta{{Path: "a"}}},
		{Path: "c", Imports: []project.ImportMeta{{Path: "b"}}},
	}
	idx := BuildIndex(metas)
	nodes, bags := nodesFor(metas...)
	g, _ := BuildGraph(idx, nodes)
	topo := ToposortKahn(g)

	if !topo.Cyclic {
		t.Fatal("expected cyclic topo")
	}
	// No diagnostics: cycles are legal.
	for i, bag := range bags {
		if bag.Len() != 0 {
			t.Errorf("module %d has diagnostics %+v, want none", i, bag.Items())
		}
	}
	// c sits downstream of the cycle, so it is scheduled through the
	// sequential batch as well, after a and b.
	cycleNames := idsToNames(idx, topo.CycleBatch)
	if !reflect.DeepEqual(cycleNames, []string{"a", "b", "c"}) {
		t.Fatalf("cycle batch = %v, want [a b c]", cycleNames)
	}
	if !topo.InCycle(idx.NameToID["a"]) || !topo.InCycle(idx.NameToID["b"]) {
		t.Error("cycle members not marked")
	}
	if len(topo.Order) != 3 {
		t.Fatalf("order = %v, want all modules scheduled", idsToNames(idx, topo.Order))
	}
}

func TestReportBrokenDeps(t *testing.T) {
	firstErr := diag.NewError(diag.SemaTypeMismatch, source.Span{File: 2, Start: 3, End: 7}, "boom")
	metas := []project.ModuleMeta{
		{Path: "app", Imports: []project.ImportMeta{{Path: "bad", Span: source.Span{File: 1, Start: 1, End: 4}}}},
		{Path: "bad"},
	}
	idx := BuildIndex(metas)
	nodes, bags := nodesFor(metas...)
	nodes[1].Broken = true
	nodes[1].FirstErr = &firstErr
	_, slots := BuildGraph(idx, nodes)
	ReportBrokenDeps(idx, slots)

	items := bags[0].Items()
	if len(items) != 1 || items[0].Code != diag.ProjDependencyFailed {
		t.Fatalf("diagnostics = %+v, want one ProjDependencyFailed", items)
	}
	if len(items[0].Notes) != 1 {
		t.Error("expected a note pointing at the dependency's first error")
	}
}

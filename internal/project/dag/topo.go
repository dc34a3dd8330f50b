package dag

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// Topo is a dependency-first schedule of the module graph. Batches are
// waves of modules whose imports were all scheduled in earlier waves.
// Modules that never reach that state (cycle members and anything
// downstream of a cycle) land in CycleBatch: it runs after the acyclic
// waves, sequentially in index order, each module seeing the real
// exports published so far and deferred exports for the rest. Cycles
// are scheduled, never rejected.
type Topo struct {
	Order      []ModuleID
	Batches    [][]ModuleID
	Cyclic     bool
	CycleBatch []ModuleID
}

// InCycle reports whether id was scheduled through the cycle batch.
func (t *Topo) InCycle(id ModuleID) bool {
	_, found := slices.BinarySearch(t.CycleBatch, id)
	return found
}

// ToposortKahn runs Kahn's algorithm over the present modules. A module
// becomes ready once all of its present imports are scheduled.
func ToposortKahn(g Graph) *Topo {
	nodeCount := len(g.Imports)
	indeg := make([]int, len(g.Indeg))
	copy(indeg, g.Indeg)

	topo := &Topo{
		Order:   make([]ModuleID, 0, nodeCount),
		Batches: make([][]ModuleID, 0),
	}

	active := 0
	for i := range nodeCount {
		if g.Present[i] {
			active++
		}
	}

	current := make([]ModuleID, 0, nodeCount)
	for i := range nodeCount {
		if !g.Present[i] {
			continue
		}
		if indeg[i] == 0 {
			current = append(current, mustModuleID(i))
		}
	}
	slices.Sort(current)

	visited := 0
	for len(current) > 0 {
		batch := make([]ModuleID, len(current))
		copy(batch, current)
		topo.Batches = append(topo.Batches, batch)

		next := make([]ModuleID, 0)
		for _, id := range batch {
			topo.Order = append(topo.Order, id)
			visited++
			for _, to := range g.Dependents[int(id)] {
				if !g.Present[int(to)] {
					continue
				}
				indeg[int(to)]--
				if indeg[int(to)] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if visited != active {
		topo.Cyclic = true
		for i := range nodeCount {
			if !g.Present[i] {
				continue
			}
			if indeg[i] > 0 {
				topo.CycleBatch = append(topo.CycleBatch, mustModuleID(i))
			}
		}
		slices.Sort(topo.CycleBatch)
		topo.Order = append(topo.Order, topo.CycleBatch...)
	}

	return topo
}

func mustModuleID(i int) ModuleID {
	id, err := safecast.Conv[ModuleID](i)
	if err != nil {
		panic(fmt.Errorf("module id overflow: %w", err))
	}
	return id
}

// Package plan builds the fragment dependency graph and exposes the
// destructive topological ordering the weaver drains one fragment at a
// time (spec.md §4.4).
package plan

import "github.com/kober-systems/lisi-go/fragment"

// Graph is the dependency graph: an edge dependency -> dependent for
// every id a snippet's DependsOn names. PopNext consumes it destructively
// (Kahn's algorithm), so a Graph is single-use.
type Graph struct {
	indegree map[fragment.ID]int
	adj      map[fragment.ID][]fragment.ID
	queue    []fragment.ID
	order    []fragment.ID
}

// Build constructs the dependency graph for every fragment currently in
// store. A dependency that never appears in the store (a reference to a
// name nothing defines) is still added as a node, so it is immediately
// ready and the weaver's Pop against the store simply reports it missing
// (spec.md §7).
func Build(store *fragment.Store) *Graph {
	g := &Graph{
		indegree: make(map[fragment.ID]int),
		adj:      make(map[fragment.ID][]fragment.ID),
	}

	ensure := func(id fragment.ID) {
		if _, ok := g.indegree[id]; !ok {
			g.indegree[id] = 0
			g.order = append(g.order, id)
		}
	}

	ids := store.Ids()
	for _, id := range ids {
		ensure(id)
	}
	for _, id := range ids {
		snippet, _ := store.Get(id)
		for _, dep := range snippet.DependsOn {
			ensure(dep)
			g.adj[dep] = append(g.adj[dep], id)
			g.indegree[id]++
		}
	}

	for _, id := range g.order {
		if g.indegree[id] == 0 {
			g.queue = append(g.queue, id)
		}
	}
	return g
}

// PopNext removes and returns the next fragment id with no unresolved
// dependency, in the order it became ready. It returns false once no
// further id is ready — either because every node has been popped, or
// because the remaining nodes form a cycle (Remaining reports those).
func (g *Graph) PopNext() (fragment.ID, bool) {
	if len(g.queue) == 0 {
		return "", false
	}
	id := g.queue[0]
	g.queue = g.queue[1:]
	delete(g.indegree, id)

	for _, dependent := range g.adj[id] {
		if _, ok := g.indegree[dependent]; !ok {
			continue
		}
		g.indegree[dependent]--
		if g.indegree[dependent] == 0 {
			g.queue = append(g.queue, dependent)
		}
	}
	delete(g.adj, id)
	return id, true
}

// Remaining reports the ids still stuck behind an unresolved dependency
// after PopNext has been drained to exhaustion — the residual cyclic
// subgraph. The weaver logs these as a non-fatal warning and leaves them
// unwoven (spec.md §4.4, §7).
func (g *Graph) Remaining() []fragment.ID {
	var out []fragment.ID
	for _, id := range g.order {
		if _, ok := g.indegree[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

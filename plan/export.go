package plan

import (
	"encoding/json"
	"io"

	"github.com/kober-systems/lisi-go/fragment"
)

// IRNode is one fragment in the exported dependency graph.
type IRNode struct {
	ID         string                 `json:"id"`
	Kind       string                 `json:"kind"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// IREdge is one dependency -> dependent edge in the exported graph.
type IREdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// IRGraph is the exportable shape of the fragment dependency graph,
// independent of the destructive Graph used to drive weaving.
type IRGraph struct {
	Nodes []IRNode `json:"nodes"`
	Edges []IREdge `json:"edges"`
}

// GraphExporter sends an IRGraph to a storage backend or writer, purely
// for diagnostics. The weaver does not call it; a caller that wants the
// graph builds it with BuildIRGraph and exports it itself.
type GraphExporter interface {
	Export(graph *IRGraph) error
}

// BuildIRGraph constructs a non-destructive snapshot of store's
// dependency graph, for diagnostics.
func BuildIRGraph(store *fragment.Store) *IRGraph {
	graph := &IRGraph{}
	seen := make(map[fragment.ID]bool)

	addNode := func(id fragment.ID, kind string) {
		if seen[id] {
			return
		}
		seen[id] = true
		graph.Nodes = append(graph.Nodes, IRNode{ID: string(id), Kind: kind})
	}

	ids := store.Ids()
	for _, id := range ids {
		snippet, _ := store.Get(id)
		addNode(id, snippet.Kind.String())
		for _, dep := range snippet.DependsOn {
			addNode(dep, "")
			graph.Edges = append(graph.Edges, IREdge{Source: string(dep), Target: string(id)})
		}
	}
	return graph
}

// JSONGraphExporter writes an IRGraph as indented JSON to W, e.g. a file
// opened by the caller.
type JSONGraphExporter struct {
	W io.Writer
}

func (e JSONGraphExporter) Export(graph *IRGraph) error {
	enc := json.NewEncoder(e.W)
	enc.SetIndent("", "  ")
	return enc.Encode(graph)
}

package analytics

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"

	"bacicli/pkg/contracts/domain"
)

// EntityNode is a graph node carrying an entity's cluster label and its
// total value over all years
type EntityNode struct {
	id      int64
	Entity  string
	Cluster int
	Total   float64
}

// ID implements graph.Node
func (n *EntityNode) ID() int64 { return n.id }

// DOTID implements dot.Node
func (n *EntityNode) DOTID() string { return n.Entity }

// Attributes implements encoding.Attributer
func (n *EntityNode) Attributes() []encoding.Attribute {
	return []encoding.Attribute{
		{Key: "cluster", Value: strconv.Itoa(n.Cluster)},
		{Key: "total", Value: strconv.FormatFloat(n.Total, 'f', 2, 64)},
	}
}

// CorrelationGraph links entities whose yearly series move together.
// It is undirected and unweighted with no self loops.
type CorrelationGraph struct {
	Threshold float64

	graph *simple.UndirectedGraph
	nodes []*EntityNode
	index map[string]int64
}

// BuildCorrelationGraph makes one node per row of m, labelled with the
// matching cluster and the row sum, and joins rows i < j when the
// correlation of their raw series is strictly above threshold. Undefined
// correlations never produce an edge. labels may be nil for an unclustered
// graph.
func BuildCorrelationGraph(m *WideMatrix, labels []int, threshold float64) (*CorrelationGraph, error) {
	rows, _ := m.Dims()
	if labels != nil && len(labels) != rows {
		return nil, fmt.Errorf("graph: %d labels for %d entities", len(labels), rows)
	}

	g := &CorrelationGraph{
		Threshold: threshold,
		graph:     simple.NewUndirectedGraph(),
		nodes:     make([]*EntityNode, rows),
		index:     make(map[string]int64, rows),
	}

	totals := m.RowSums()
	for i, entity := range m.Entities() {
		node := &EntityNode{id: int64(i), Entity: entity, Total: totals[i]}
		if labels != nil {
			node.Cluster = labels[i]
		}
		g.nodes[i] = node
		g.index[entity] = node.id
		g.graph.AddNode(node)
	}

	series := m.Rows()
	for i := 0; i < rows; i++ {
		for j := i + 1; j < rows; j++ {
			r := PairwiseCorrelation(series[i], series[j])
			if math.IsNaN(r) || r <= threshold {
				continue
			}
			g.graph.SetEdge(g.graph.NewEdge(g.nodes[i], g.nodes[j]))
		}
	}

	return g, nil
}

// Graph exposes the underlying gonum graph
func (g *CorrelationGraph) Graph() graph.Undirected {
	return g.graph
}

// Nodes returns the nodes in row order
func (g *CorrelationGraph) Nodes() []*EntityNode {
	return g.nodes
}

// EdgeCount returns the number of undirected edges
func (g *CorrelationGraph) EdgeCount() int {
	return g.graph.Edges().Len()
}

// HasEdge reports whether entities a and b are linked
func (g *CorrelationGraph) HasEdge(a, b string) bool {
	ia, okA := g.index[a]
	ib, okB := g.index[b]
	if !okA || !okB {
		return false
	}
	return g.graph.HasEdgeBetween(ia, ib)
}

// Neighbors returns the entities linked to entity in row order
func (g *CorrelationGraph) Neighbors(entity string) []string {
	id, ok := g.index[entity]
	if !ok {
		return nil
	}
	nodes := graph.NodesOf(g.graph.From(id))
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID() < nodes[j].ID() })

	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.(*EntityNode).Entity
	}
	return out
}

// Edges lists every edge once, lower row first, ordered by row
func (g *CorrelationGraph) Edges() []domain.GraphEdge {
	var edges []domain.GraphEdge
	for i := range g.nodes {
		for j := i + 1; j < len(g.nodes); j++ {
			if g.graph.HasEdgeBetween(int64(i), int64(j)) {
				edges = append(edges, domain.GraphEdge{From: g.nodes[i].Entity, To: g.nodes[j].Entity})
			}
		}
	}
	return edges
}

// View snapshots the graph for serialization
func (g *CorrelationGraph) View(kind domain.EntityKind) domain.CorrelationGraphView {
	nodes := make([]domain.GraphNode, len(g.nodes))
	for i, n := range g.nodes {
		nodes[i] = domain.GraphNode{ID: n.id, Entity: n.Entity, Cluster: n.Cluster, TotalValue: n.Total}
	}
	edges := g.Edges()
	if edges == nil {
		edges = []domain.GraphEdge{}
	}
	return domain.CorrelationGraphView{
		Kind:      kind,
		Threshold: g.Threshold,
		Nodes:     nodes,
		Edges:     edges,
	}
}

// MarshalDOT renders the graph in Graphviz DOT format
func (g *CorrelationGraph) MarshalDOT(name string) ([]byte, error) {
	return dot.Marshal(g.graph, name, "", "\t")
}

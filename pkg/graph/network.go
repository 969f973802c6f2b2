package graph

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"

	"github.com/ritzau/grn-borda/pkg/model"
)

// Network is a reference gene regulatory network. Its genes define the
// universe of candidate edges a prediction is evaluated against.
type Network struct {
	graph     *simple.DirectedGraph
	ids       map[string]int64 // gene name -> graph ID
	names     map[int64]string // graph ID -> gene name
	nextID    int64
	selfLoops int
}

// NewNetwork creates an empty network
func NewNetwork() *Network {
	return &Network{
		graph: simple.NewDirectedGraph(),
		ids:   make(map[string]int64),
		names: make(map[int64]string),
	}
}

// FromEdges builds a network from reference edges
func FromEdges(edges []model.Edge) *Network {
	n := NewNetwork()
	for _, e := range edges {
		n.AddEdge(e)
	}
	return n
}

// AddGene adds a gene node and returns its graph ID
func (n *Network) AddGene(name string) int64 {
	if id, exists := n.ids[name]; exists {
		return id
	}

	id := n.nextID
	n.ids[name] = id
	n.names[id] = name
	n.graph.AddNode(simple.Node(id))
	n.nextID++
	return id
}

// AddEdge adds a regulatory edge. Self-regulation contributes its gene to
// the universe but no graph edge, since a simple graph has no loops.
func (n *Network) AddEdge(e model.Edge) {
	from := n.AddGene(e.Gene1)
	to := n.AddGene(e.Gene2)

	if from == to {
		n.selfLoops++
		return
	}
	if !n.graph.HasEdgeFromTo(from, to) {
		n.graph.SetEdge(n.graph.NewEdge(n.graph.Node(from), n.graph.Node(to)))
	}
}

// HasEdge reports whether the reference network contains e
func (n *Network) HasEdge(e model.Edge) bool {
	from, ok := n.ids[e.Gene1]
	if !ok {
		return false
	}
	to, ok := n.ids[e.Gene2]
	if !ok {
		return false
	}
	return n.graph.HasEdgeFromTo(from, to)
}

// HasGene reports whether the gene appears in the reference network
func (n *Network) HasGene(name string) bool {
	id, ok := n.ids[name]
	return ok && n.graph.Node(id) != nil
}

// Genes returns the gene names of the graph's nodes in sorted order
func (n *Network) Genes() []string {
	nodes := n.graph.Nodes()
	genes := make([]string, 0, nodes.Len())
	for nodes.Next() {
		genes = append(genes, n.names[nodes.Node().ID()])
	}
	sort.Strings(genes)
	return genes
}

// NumGenes returns the number of unique genes
func (n *Network) NumGenes() int {
	return n.graph.Nodes().Len()
}

// NumEdges returns the number of distinct non-loop reference edges
func (n *Network) NumEdges() int {
	return n.graph.Edges().Len()
}

// SelfLoops returns how many self-regulation rows were seen
func (n *Network) SelfLoops() int {
	return n.selfLoops
}

// UniverseSize is the number of ordered pairs of distinct genes
func (n *Network) UniverseSize() int {
	g := n.NumGenes()
	return g * (g - 1)
}

// InUniverse reports whether e is an ordered pair of distinct known genes
func (n *Network) InUniverse(e model.Edge) bool {
	return e.Gene1 != e.Gene2 && n.HasGene(e.Gene1) && n.HasGene(e.Gene2)
}

// Universe returns every ordered pair of distinct genes, in lexicographic
// order of (Gene1, Gene2) over the sorted gene list.
func (n *Network) Universe() []model.Edge {
	genes := n.Genes()
	edges := make([]model.Edge, 0, n.UniverseSize())
	for i, g1 := range genes {
		for j, g2 := range genes {
			if i == j {
				continue
			}
			edges = append(edges, model.Edge{Gene1: g1, Gene2: g2})
		}
	}
	return edges
}

// CountReferenceEdges returns how many of the predicted edges are edges of
// the reference network. Repeated predictions of one edge count once.
func (n *Network) CountReferenceEdges(predictions []model.RankedEdge) int {
	seen := make(map[model.Edge]bool, len(predictions))
	hits := 0
	for _, p := range predictions {
		if seen[p.Edge] {
			continue
		}
		seen[p.Edge] = true
		if n.HasEdge(p.Edge) {
			hits++
		}
	}
	return hits
}

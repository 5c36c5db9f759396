package graph

import "fmt"

// portKey identifies one input port of one node.
type portKey struct {
	nodeID string
	port   string
}

// edgeSource identifies the upstream node/port feeding a data edge.
type edgeSource struct {
	nodeID string
	port   string
}

// Warning is a non-fatal finding surfaced by NewAnalyzer. Unlike the six
// error kinds, a Warning never prevents a graph from running.
type Warning struct {
	Message string
}

// Analyzer holds the three lookup tables derived once from a Graph and its
// node types' registered metadata: which upstream port feeds each input,
// which upstream nodes an eager (non-lazy) demand must recurse into, and
// which node a triggered node's execution pin routes to. Executor consults
// these tables on every Expand task; Analyzer itself performs no scheduling.
type Analyzer struct {
	graph *Graph

	// dataInputs[target][port] = upstream node/port supplying it.
	dataInputs map[string]map[string]edgeSource
	// dataDependencies[target] = set of upstream node ids an eager
	// expansion of target must recurse into (lazy-input edges excluded).
	dataDependencies map[string]map[string]struct{}
	// routes[source][pin] = target node id. Only triggered nodes appear
	// as a source.
	routes map[string]map[string]string
}

// NewAnalyzer validates and indexes g against the node types registered in
// reg. It returns InvalidGraph if a node references an unregistered type, or
// if a route edge's source node is not Triggered. It returns a non-empty
// []Warning, with a nil error, if a triggered node is used as a non-lazy
// data-dependency source: such an edge is kept in dataInputs (so a direct
// reference to its last output resolves) but is excluded from
// dataDependencies, since a triggered node only produces a value when
// routed to, never on eager demand.
func NewAnalyzer(g *Graph, reg *Registry) (*Analyzer, []Warning, error) {
	for _, n := range g.Nodes {
		if _, ok := reg.Metadata(n.Type); !ok {
			return nil, nil, &InvalidGraph{Message: fmt.Sprintf("node %q has unregistered type %q", n.ID, n.Type)}
		}
	}

	a := &Analyzer{
		graph:            g,
		dataInputs:       make(map[string]map[string]edgeSource),
		dataDependencies: make(map[string]map[string]struct{}),
		routes:           make(map[string]map[string]string),
	}

	var warnings []Warning

	for _, e := range g.DataEdges {
		if a.dataInputs[e.TargetID] == nil {
			a.dataInputs[e.TargetID] = make(map[string]edgeSource)
		}
		a.dataInputs[e.TargetID][e.TargetPort] = edgeSource{nodeID: e.SourceID, port: e.SourcePort}

		targetNode, _ := g.Node(e.TargetID)
		meta, _ := reg.Metadata(targetNode.Type)
		if meta.Lazy(e.TargetPort) {
			continue
		}

		sourceNode, _ := g.Node(e.SourceID)
		if sourceNode.Mode == Triggered {
			warnings = append(warnings, Warning{Message: fmt.Sprintf(
				"edge %s:%s -> %s:%s: %q is a triggered node used as a non-lazy dependency; "+
					"it will only contribute a value if it has already run",
				e.SourceID, e.SourcePort, e.TargetID, e.TargetPort, e.SourceID,
			)})
			continue
		}

		if a.dataDependencies[e.TargetID] == nil {
			a.dataDependencies[e.TargetID] = make(map[string]struct{})
		}
		a.dataDependencies[e.TargetID][e.SourceID] = struct{}{}
	}

	for _, e := range g.RouteEdges {
		sourceNode, _ := g.Node(e.SourceID)
		if sourceNode.Mode != Triggered {
			return nil, nil, &InvalidGraph{Message: fmt.Sprintf(
				"route edge from %q is invalid: only triggered nodes may source a route edge", e.SourceID,
			)}
		}
		if a.routes[e.SourceID] == nil {
			a.routes[e.SourceID] = make(map[string]string)
		}
		a.routes[e.SourceID][e.SourcePort] = e.TargetID
	}

	return a, warnings, nil
}

// InputsFor returns the source node/port feeding each data edge into id,
// keyed by the target's input port name.
func (a *Analyzer) InputsFor(id string) map[string]edgeSource {
	return a.dataInputs[id]
}

// DependenciesFor returns the set of node ids an eager expansion of id must
// recurse into before id itself can run.
func (a *Analyzer) DependenciesFor(id string) map[string]struct{} {
	return a.dataDependencies[id]
}

// RouteTarget returns the node id that execution pin belongs to source's
// routes, if source is a triggered node with an outgoing route on that pin.
func (a *Analyzer) RouteTarget(sourceID, pin string) (string, bool) {
	pins, ok := a.routes[sourceID]
	if !ok {
		return "", false
	}
	target, ok := pins[pin]
	return target, ok
}

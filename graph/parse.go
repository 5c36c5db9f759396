package graph

import "encoding/json"

// document is the wire shape of a graph document.
type document struct {
	Nodes []struct {
		ID            string         `json:"id"`
		NodeType      string         `json:"node_type"`
		ExecutionType string         `json:"execution_type"`
		Inputs        map[string]any `json:"inputs"`
	} `json:"nodes"`
	Edges []struct {
		SourceID  string `json:"source_id"`
		SourcePin string `json:"source_pin"`
		TargetID  string `json:"target_id"`
		TargetPin string `json:"target_pin"`
	} `json:"edges"`
	RouteEdges []struct {
		SourceID  string `json:"source_id"`
		SourcePin string `json:"source_pin"`
		TargetID  string `json:"target_id"`
	} `json:"route_edges"`
}

// ParseDocument decodes a graph document and
// builds the corresponding Graph. It validates structural well-formedness
// (unique ids, exactly one "start" node, known edge endpoints) but performs
// no port-name or laziness checks, since those require node-type metadata
// from the registry — that happens in NewAnalyzer.
func ParseDocument(raw []byte) (*Graph, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ParseError{Field: "<document>", Message: err.Error()}
	}

	nodes := make([]Node, 0, len(doc.Nodes))
	for _, n := range doc.Nodes {
		if n.ID == "" {
			return nil, &ParseError{Field: "nodes[].id", Message: "node id must not be empty"}
		}
		mode, ok := ParseExecutionMode(n.ExecutionType)
		if !ok {
			return nil, &ParseError{
				Field:   "nodes[" + n.ID + "].execution_type",
				Message: "unrecognized execution type: " + n.ExecutionType,
			}
		}
		nodes = append(nodes, Node{
			ID:            n.ID,
			Type:          n.NodeType,
			Mode:          mode,
			LiteralInputs: n.Inputs,
		})
	}

	edges := make([]DataEdge, 0, len(doc.Edges))
	for _, e := range doc.Edges {
		edges = append(edges, DataEdge{
			SourceID:   e.SourceID,
			SourcePort: e.SourcePin,
			TargetID:   e.TargetID,
			TargetPort: e.TargetPin,
		})
	}

	routeEdges := make([]RouteEdge, 0, len(doc.RouteEdges))
	for _, e := range doc.RouteEdges {
		routeEdges = append(routeEdges, RouteEdge{
			SourceID:   e.SourceID,
			SourcePort: e.SourcePin,
			TargetID:   e.TargetID,
		})
	}

	return NewGraph(nodes, edges, routeEdges)
}

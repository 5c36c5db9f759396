package graph

import "fmt"

// ParseError is returned when the graph document is malformed.
type ParseError struct {
	Field   string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s: %s", e.Field, e.Message)
}

// MissingMeta is returned when a node type is registered without metadata.
type MissingMeta struct {
	NodeType string
}

func (e *MissingMeta) Error() string {
	return fmt.Sprintf("node type %q is missing metadata", e.NodeType)
}

// InvalidGraph is returned when the graph is structurally unsound: an
// unknown node id is referenced, a non-triggered node is used as a route
// source, or the reserved "start" node is missing or duplicated.
type InvalidGraph struct {
	Message string
}

func (e *InvalidGraph) Error() string {
	return fmt.Sprintf("invalid graph: %s", e.Message)
}

// CircularDependencyError is returned when the DFS used to compute
// execution order finds a node on its own ancestor chain.
type CircularDependencyError struct {
	NodeID string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency detected at node %q", e.NodeID)
}

// UnresolvedDependencyError indicates an engine invariant violation: a node
// was asked to read an upstream output cache that was never populated.
type UnresolvedDependencyError struct {
	NodeID       string
	UpstreamID   string
	UpstreamPort string
}

func (e *UnresolvedDependencyError) Error() string {
	return fmt.Sprintf(
		"node %q depends on node %q, but node %q has not produced port %q",
		e.NodeID, e.UpstreamID, e.UpstreamID, e.UpstreamPort,
	)
}

// NodeError wraps an error raised by a node's producer during iteration.
type NodeError struct {
	NodeID string
	Err    error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %q failed: %v", e.NodeID, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

// ErrRoutingDepthExceeded is returned by Executor.Run when MaxRoutingDepth
// is set and a chain of route edges exceeds it. It is an opt-in guard,
// disabled by default, against unbounded route recursion.
type ErrRoutingDepthExceeded struct {
	NodeID string
	Depth  int
}

func (e *ErrRoutingDepthExceeded) Error() string {
	return fmt.Sprintf("routing depth exceeded %d at node %q", e.Depth, e.NodeID)
}

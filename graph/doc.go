// Package graph implements a dataflow graph execution engine: a scheduler
// that runs a directed graph of typed nodes, some connected by value-carrying
// data edges and some by control-flow route edges, to completion.
//
// # Core Concepts
//
// ## Nodes and execution modes
// Every node in a graph is an instance of a registered node type (see
// Registry) with one of three execution modes:
//
//   - Triggered nodes run only when a route edge activates them. They may
//     have side effects and their output cache is overwritten on every run.
//   - Data nodes are recomputed fresh every time a downstream node demands
//     their output; nothing is cached across separate demands.
//   - DataOnce nodes compute once, the first time anything needs their
//     value, and stay cached for the rest of the run.
//
// ## Data edges and route edges
// A DataEdge carries a value from one node's output port to another node's
// input port and is resolved on demand, by walking backward from whatever
// node is about to run. A RouteEdge carries control flow forward, from a
// Triggered node's named execution pin to another node; only Triggered
// nodes may source one.
//
// ## The scheduler
// Executor.Run drives the graph with an explicit LIFO task stack instead of
// recursion: Expand computes the dependency order leading up to a node and
// pushes Execute tasks for it, Execute starts a node's driver, and
// IterateNext steps the resulting Sequence one unit at a time, following
// route edges and re-expanding lazy inputs as nodes request them via
// FetchInputsRequest.
//
// ## Node Driver Protocol
// A node type is registered as a Constructor returning a NodeDriver. Most
// node types are pure one-shot computations, built with DataNode. Nodes that
// need to yield more than one output, branch on an execution pin, or pause
// mid-run to re-read a lazy input use Producer, which runs an ordinary
// imperative Go function on its own goroutine and synchronizes it with the
// scheduler one yield at a time — Go has no generators, so this stands in
// for them.
//
// # Example
//
//	reg := graph.NewRegistry()
//	reg.Register("start", func() graph.NodeDriver {
//		return graph.DataNode(func(ctx context.Context, ctrl graph.Controller, in map[string]any) (map[string]any, error) {
//			return nil, nil
//		})
//	}, graph.Metadata{Inputs: []graph.PortSpec{}, Outputs: []graph.PortSpec{}})
//
//	g, err := graph.ParseDocument(document)
//	if err != nil {
//		// err is one of *graph.ParseError or *graph.InvalidGraph
//	}
//
//	exec, warnings, err := graph.NewExecutor(g, reg)
//	for _, w := range warnings {
//		log.Warn(w.Message)
//	}
//
//	err = exec.Run(ctx, func(ev graph.Event) {
//		fmt.Printf("%s: %s\n", ev.Event, ev.NodeID)
//	})
//
// # Error Handling
//
// Parsing, registration, and execution each report a fixed set of typed
// errors (ParseError, MissingMeta, InvalidGraph, CircularDependencyError,
// UnresolvedDependencyError, NodeError), all fatal to the run they occur in.
// There is no retry at this layer: a node type that needs backoff or
// partial-failure tolerance implements that inside its own driver.
//
// # Visualization
//
// Exporter renders a Graph as a Mermaid flowchart, with ANSI-styled terminal
// output via RenderTerminal for use from a CLI.
package graph

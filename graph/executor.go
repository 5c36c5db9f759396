package graph

import (
	"context"

	"github.com/smallnest/graphengine/log"
)

// instance is the per-run state of one node: its constructed driver, the
// Sequence it produced once started, and its output cache. Cache semantics
// depend on the node's ExecutionMode (see model.go): a DataOnce instance's
// hasOutput flag, once set, short-circuits any further re-expansion of it.
type instance struct {
	node     *Node
	driver   NodeDriver
	sequence Sequence

	hasOutput     bool
	outputCache   map[string]any
	outputVersion int
}

// taskKind discriminates Executor's three scheduler task shapes: Expand,
// Execute and IterateNext.
type taskKind int

const (
	taskExpand taskKind = iota
	taskExecute
	taskIterateNext
)

// task is one entry on Executor's LIFO work stack. ports is Expand's
// optional port subset (nil means "expand the node's full non-lazy
// dependency set"); recollect is IterateNext's optional port subset to
// re-collect before stepping, set only immediately after a
// FetchInputsRequest yield.
type task struct {
	kind      taskKind
	nodeID    string
	ports     []string
	recollect []string
	depth     int
}

// Executor runs one graph to completion: a single-threaded, cooperative,
// explicit task-stack scheduler with no recursion and no worker pool (a
// node's own Producer, if it uses one, gets its own goroutine in
// coroutine.go, but at most one of {scheduler, that goroutine} ever runs at
// a time). An Executor is single-use: construct one per run via NewExecutor.
type Executor struct {
	graph    *Graph
	registry *Registry
	analyzer *Analyzer
	logger   log.Logger

	// MaxRoutingDepth bounds the length of a chain of route-edge
	// follows. Zero means unbounded. Guards against runaway route
	// recursion (a graph with a route cycle among triggered nodes) with
	// an opt-in limit rather than a silent hang.
	MaxRoutingDepth int

	instances map[string]*instance
	sink      Sink
	tracer    *Tracer
}

// SetTracer attaches an optional observability Tracer. A nil Tracer (the
// default) disables tracing entirely at negligible cost.
func (e *Executor) SetTracer(t *Tracer) {
	e.tracer = t
}

// NewExecutor builds an Executor for one run of g against reg. It does not
// itself run NewAnalyzer's validation a second time; callers that already
// have an *Analyzer for g and reg should prefer NewExecutorWithAnalyzer.
func NewExecutor(g *Graph, reg *Registry) (*Executor, []Warning, error) {
	a, warnings, err := NewAnalyzer(g, reg)
	if err != nil {
		return nil, nil, err
	}
	return NewExecutorWithAnalyzer(g, reg, a), warnings, nil
}

// NewExecutorWithAnalyzer builds an Executor reusing an already-computed
// Analyzer, letting callers validate a graph once and run it (or dry-run
// variations of it) more than once.
func NewExecutorWithAnalyzer(g *Graph, reg *Registry, a *Analyzer) *Executor {
	return &Executor{
		graph:     g,
		registry:  reg,
		analyzer:  a,
		instances: make(map[string]*instance),
		logger:    log.GetDefaultLogger(),
	}
}

// SetLogger overrides the logger used for per-node execution tracing.
func (e *Executor) SetLogger(l log.Logger) {
	e.logger = l
}

// Run drives the graph to completion from its "start" node, delivering
// progress events to sink as they occur. Run returns a CircularDependencyError,
// UnresolvedDependencyError, NodeError, or ErrRoutingDepthExceeded on failure
// (ParseError and MissingMeta cannot occur here, since they are raised
// earlier by ParseDocument/Registry.Register), or nil on a clean finish.
func (e *Executor) Run(ctx context.Context, sink Sink) error {
	if sink == nil {
		sink = func(Event) {}
	}
	e.sink = sink

	stack := []task{{kind: taskExpand, nodeID: StartNodeID}}
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch t.kind {
		case taskExpand:
			order, err := e.executionOrder(t.nodeID, t.ports)
			if err != nil {
				return err
			}
			if t.ports != nil && len(order) > 0 {
				order = order[:len(order)-1]
			}
			for i := len(order) - 1; i >= 0; i-- {
				stack = append(stack, task{kind: taskExecute, nodeID: order[i], depth: t.depth})
			}

		case taskExecute:
			inst := e.instance(t.nodeID)
			inputs, err := e.collectInputs(inst)
			if err != nil {
				return err
			}
			ctrl := &controller{nodeID: inst.node.ID, sink: e.sink}
			e.logger.Debug("executing node %q (type %q)", inst.node.ID, inst.node.Type)
			seq, err := inst.driver.Start(ctx, ctrl, inputs)
			if err != nil {
				nerr := &NodeError{NodeID: inst.node.ID, Err: err}
				e.sink(Event{Event: EventExecuteNodeError, NodeID: inst.node.ID, Err: nerr, NodeError: nerr.Error()})
				return nerr
			}
			inst.sequence = seq
			stack = append(stack, task{kind: taskIterateNext, nodeID: t.nodeID, depth: t.depth})

		case taskIterateNext:
			next, err := e.iterateNext(ctx, t, stack)
			if err != nil {
				return err
			}
			stack = next
		}
	}

	e.sink(Event{Event: EventFinish})
	return nil
}

// iterateNext steps one node's sequence once and returns the updated stack.
// It is split out of Run only to keep Run's switch readable; it mutates no
// Executor state beyond e.instances and consults nothing but its task and
// the caller's stack snapshot.
func (e *Executor) iterateNext(ctx context.Context, t task, stack []task) ([]task, error) {
	inst := e.instance(t.nodeID)
	e.sink(Event{Event: EventExecuteNode, NodeID: inst.node.ID})

	var resume any
	if t.recollect != nil {
		recollected, err := e.collectInputsOnPorts(inst.node.ID, t.recollect)
		if err != nil {
			return nil, err
		}
		resume = recollected
	}

	span := e.tracer.startNodeSpan(ctx, inst.node.ID)
	result, err := inst.sequence.Step(ctx, resume)
	e.tracer.endNodeSpan(ctx, span, err)
	if err != nil {
		nerr := &NodeError{NodeID: inst.node.ID, Err: err}
		e.sink(Event{Event: EventExecuteNodeError, NodeID: inst.node.ID, Err: nerr, NodeError: nerr.Error()})
		return nil, nerr
	}

	switch result.Outcome {
	case StepOutput:
		inst.outputCache = result.Output.Data
		inst.hasOutput = true
		inst.outputVersion++

		pin := result.Output.ExecutionPin
		if pin != "" && pin != "_" {
			stack = append(stack, task{kind: taskIterateNext, nodeID: t.nodeID, depth: t.depth})
			return e.followRoute(ctx, stack, t.nodeID, pin, t.depth)
		}

		// The fall-through pin: the node is not expected to yield again,
		// so nothing pushes a further IterateNext for it. A Producer's
		// Sequence is backed by a goroutine parked on a channel send,
		// though, so it must still be stepped once more to let it return
		// and release that goroutine (a DataNode's Sequence already
		// tracks its own completion and returns StepDone immediately).
		if err := e.drain(ctx, inst); err != nil {
			return nil, err
		}
		return e.followRoute(ctx, stack, t.nodeID, "_", t.depth)

	case StepFetchInputs:
		ports := result.Fetch.InputPorts
		stack = append(stack, task{kind: taskIterateNext, nodeID: t.nodeID, recollect: ports, depth: t.depth})
		stack = append(stack, task{kind: taskExpand, nodeID: t.nodeID, ports: ports, depth: t.depth})
		return stack, nil

	default: // StepDone
		return e.followRoute(ctx, stack, t.nodeID, "_", t.depth)
	}
}

// drain steps inst's sequence until it reports StepDone. Called after a
// fall-through-pin yield, where nothing else will ever step this sequence
// again. A well-behaved node never yields again after its fall-through
// output, so this is normally a single Step call.
func (e *Executor) drain(ctx context.Context, inst *instance) error {
	for {
		result, err := inst.sequence.Step(ctx, nil)
		if err != nil {
			return &NodeError{NodeID: inst.node.ID, Err: err}
		}
		if result.Outcome == StepDone {
			return nil
		}
	}
}

// followRoute pushes an Expand task for whatever node sourceID's route table
// sends pin to, if any, enforcing MaxRoutingDepth when set.
func (e *Executor) followRoute(ctx context.Context, stack []task, sourceID, pin string, depth int) ([]task, error) {
	target, ok := e.analyzer.RouteTarget(sourceID, pin)
	if !ok {
		return stack, nil
	}
	depth++
	if e.MaxRoutingDepth > 0 && depth > e.MaxRoutingDepth {
		return nil, &ErrRoutingDepthExceeded{NodeID: sourceID, Depth: depth}
	}
	e.tracer.traceRouteFollow(ctx, sourceID, pin, target)
	return append(stack, task{kind: taskExpand, nodeID: target, depth: depth}), nil
}

// instance returns id's run-scoped instance, constructing it (but not
// starting its sequence) the first time id is referenced.
func (e *Executor) instance(id string) *instance {
	if inst, ok := e.instances[id]; ok {
		return inst
	}
	node, _ := e.graph.Node(id)
	ctor, _, _ := e.registry.Lookup(node.Type)
	inst := &instance{node: node, driver: ctor()}
	e.instances[id] = inst
	return inst
}

// executionOrder computes a dependency-respecting visitation order ending
// in targetID via recursive DFS. When pins is non-nil, the
// dependency set considered for targetID itself is narrowed to whatever
// data_inputs feed those specific ports (used when re-expanding after a
// FetchInputsRequest); every other node's dependencies come from the
// Analyzer's full table. Dependencies that are themselves Triggered nodes
// are never recursed into: a triggered node only produces a value when
// routed to.
func (e *Executor) executionOrder(targetID string, pins []string) ([]string, error) {
	visited := make(map[string]bool)
	processing := make(map[string]bool)
	var order []string

	var visit func(id string) error
	visit = func(id string) error {
		if visited[id] {
			return nil
		}
		if processing[id] {
			return &CircularDependencyError{NodeID: id}
		}

		inst := e.instance(id)
		if inst.node.Mode == DataOnce && inst.hasOutput {
			visited[id] = true
			return nil
		}

		processing[id] = true

		var deps map[string]struct{}
		if id == targetID && pins != nil {
			deps = make(map[string]struct{})
			for _, p := range pins {
				if src, ok := e.analyzer.InputsFor(id)[p]; ok {
					deps[src.nodeID] = struct{}{}
				}
			}
		} else {
			deps = e.analyzer.DependenciesFor(id)
		}

		for depID := range deps {
			depInst := e.instance(depID)
			if depInst.node.Mode == Triggered {
				continue
			}
			if err := visit(depID); err != nil {
				return err
			}
		}

		processing[id] = false
		visited[id] = true
		order = append(order, id)
		return nil
	}

	if err := visit(targetID); err != nil {
		return nil, err
	}
	return order, nil
}

// collectInputs gathers every non-lazy input port of inst.node, merging its
// literal inputs with whatever values its non-lazy upstream edges supply
// (edges win over literals of the same name).
func (e *Executor) collectInputs(inst *instance) (map[string]any, error) {
	meta, _ := e.registry.Metadata(inst.node.Type)
	return e.collectInputsOnPorts(inst.node.ID, meta.NonLazyInputNames())
}

// collectInputsOnPorts gathers only the named ports of node id, used both
// by collectInputs (the node's own non-lazy ports) and by iterateNext's
// FetchInputsRequest recollection (an explicit, typically lazy, subset).
func (e *Executor) collectInputsOnPorts(id string, ports []string) (map[string]any, error) {
	node, _ := e.graph.Node(id)
	result := make(map[string]any, len(ports))
	for _, p := range ports {
		if v, ok := node.LiteralInputs[p]; ok {
			result[p] = v
		}
	}

	inputs := e.analyzer.InputsFor(id)
	for _, p := range ports {
		src, ok := inputs[p]
		if !ok {
			continue
		}
		upstream := e.instance(src.nodeID)
		if !upstream.hasOutput {
			return nil, &UnresolvedDependencyError{NodeID: id, UpstreamID: src.nodeID, UpstreamPort: src.port}
		}
		if v, ok := upstream.outputCache[src.port]; ok {
			result[p] = v
		}
	}
	return result, nil
}

package graph

import "context"

// Controller is the thin handle a running node is given. send_event in the
// specification is non-blocking and fire-and-forget from the node's point
// of view; SendEvent forwards a structured progress record to whatever sink
// the run was started with.
type Controller interface {
	SendEvent(event string, data map[string]any)
}

// controller is Executor's concrete Controller, closing over the node id
// and the run's progress sink.
type controller struct {
	nodeID string
	sink   func(Event)
}

func (c *controller) SendEvent(event string, data map[string]any) {
	c.sink(Event{Event: event, NodeID: c.nodeID, Data: data})
}

// NodeOutput is yielded by a producer when it has a value to publish. An
// empty ExecutionPin means the fall-through pin "_": the node completed
// naturally and does not expect its caller's iteration to resume after a
// routed subtree returns.
type NodeOutput struct {
	ExecutionPin string
	Data         map[string]any
}

// FetchInputsRequest is yielded by a producer that is pausing to ask for
// freshly computed values on a (typically lazy) subset of its own input
// ports. The executor re-expands those ports' upstreams and hands the fresh
// values back as the Sequence's next resumption value.
type FetchInputsRequest struct {
	InputPorts []string
}

// StepOutcome discriminates what a Sequence produced from one Step call.
type StepOutcome int

const (
	// StepDone means the sequence is exhausted; treat as a terminal yield
	// of "no output, default execution pin".
	StepDone StepOutcome = iota
	// StepOutput means the sequence yielded a NodeOutput.
	StepOutput
	// StepFetchInputs means the sequence yielded a FetchInputsRequest.
	StepFetchInputs
)

// StepResult is the hand-rolled discriminated union a Sequence's Step
// method returns: exactly one of Output or Fetch is meaningful, selected by
// Outcome. Go has no generators, so this is the design notes' "small state
// machine with a step() method" made concrete.
type StepResult struct {
	Outcome StepOutcome
	Output  NodeOutput
	Fetch   FetchInputsRequest
}

// Sequence is a node's resumable lazy computation. Step advances it one
// unit, optionally handing it resume as the resumption value for whatever
// the sequence last awaited (the freshly re-collected inputs after a
// FetchInputsRequest, or nothing on the first call). A producer that never
// awaits input simply ignores resume.
type Sequence interface {
	Step(ctx context.Context, resume any) (StepResult, error)
}

// NodeDriver is what every registered node type constructs: either a pure
// data form (wrap with DataNode) or a producer form implementing Start
// directly. Start is called once per execution with the node's collected
// non-lazy inputs and must return a Sequence to drive.
type NodeDriver interface {
	Start(ctx context.Context, ctrl Controller, inputs map[string]any) (Sequence, error)
}

// DataNodeFunc is a pure computation: given a controller and its collected
// inputs, it returns the node's full output map in one shot.
type DataNodeFunc func(ctx context.Context, ctrl Controller, inputs map[string]any) (map[string]any, error)

// dataNode adapts a DataNodeFunc into a NodeDriver whose Sequence yields
// exactly one NodeOutput with no execution pin.
type dataNode struct {
	fn DataNodeFunc
}

// DataNode builds a NodeDriver from a one-shot computation. This is the
// adapter every "pure data form" node type in nodelib/ registers with.
func DataNode(fn DataNodeFunc) NodeDriver {
	return &dataNode{fn: fn}
}

func (d *dataNode) Start(ctx context.Context, ctrl Controller, inputs map[string]any) (Sequence, error) {
	return &oneShotSequence{fn: d.fn, ctrl: ctrl, inputs: inputs}, nil
}

type oneShotSequence struct {
	fn     DataNodeFunc
	ctrl   Controller
	inputs map[string]any
	done   bool
}

func (s *oneShotSequence) Step(ctx context.Context, _ any) (StepResult, error) {
	if s.done {
		return StepResult{Outcome: StepDone}, nil
	}
	s.done = true
	data, err := s.fn(ctx, s.ctrl, s.inputs)
	if err != nil {
		return StepResult{}, err
	}
	return StepResult{Outcome: StepOutput, Output: NodeOutput{Data: data}}, nil
}

// ProducerFunc adapts a generator-shaped Go function into a NodeDriver.
// yield is called by the function body each time it wants to publish a
// NodeOutput or request fresh inputs; it blocks the producer's goroutine
// until the executor steps it again and returns the resumption value (the
// freshly collected inputs, for a FetchInputsRequest yield). This lets
// nodelib/'s control-flow nodes (ForLoopNode, WhileLoopNode, ...) be written
// as ordinary imperative Go functions with a for-loop and a yield call,
// instead of hand-written state machines, the same ergonomic win generators
// give the Python original.
type ProducerFunc func(ctx context.Context, ctrl Controller, inputs map[string]any, yield Yielder) error

// Yielder is hands to a ProducerFunc body so it can publish values mid-run.
type Yielder interface {
	// Output publishes a NodeOutput and blocks until the executor steps
	// the producer again.
	Output(pin string, data map[string]any)
	// FetchInputs requests fresh values for the named (normally lazy)
	// input ports and returns them once the executor has re-expanded
	// their upstreams, blocking in the meantime.
	FetchInputs(ports []string) map[string]any
}

// Producer builds a NodeDriver from a ProducerFunc, running the function
// body on its own goroutine synchronized step-for-step with the executor
// (see coroutine.go). The executor remains single-threaded in the sense
// required: exactly one of {executor, producer goroutine}
// is ever runnable at a time.
func Producer(fn ProducerFunc) NodeDriver {
	return &producerNode{fn: fn}
}

type producerNode struct {
	fn ProducerFunc
}

func (p *producerNode) Start(ctx context.Context, ctrl Controller, inputs map[string]any) (Sequence, error) {
	return newCoroutine(ctx, p.fn, ctrl, inputs), nil
}

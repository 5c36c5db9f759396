package graph

import "context"

// coroutine adapts an imperative ProducerFunc into a Sequence by running
// the function body on its own goroutine and rendezvousing with the
// executor one yield at a time over a pair of unbuffered channels. At any
// instant exactly one of {the goroutine calling Step, the producer
// goroutine} is runnable; the other is parked on a channel send or receive.
// This gives nodelib/'s loop and branch nodes ordinary for-loops and if
// statements instead of hand-written state machines, without compromising
// single-threaded-at-a-time execution.
type coroutine struct {
	fn       ProducerFunc
	ctx      context.Context
	ctrl     Controller
	inputs   map[string]any
	stepCh   chan any
	resultCh chan coroutineMsg
	started  bool
}

type coroutineMsg struct {
	result StepResult
	done   bool
	err    error
}

func newCoroutine(ctx context.Context, fn ProducerFunc, ctrl Controller, inputs map[string]any) *coroutine {
	return &coroutine{
		fn:       fn,
		ctx:      ctx,
		ctrl:     ctrl,
		inputs:   inputs,
		stepCh:   make(chan any),
		resultCh: make(chan coroutineMsg),
	}
}

func (c *coroutine) Step(ctx context.Context, resume any) (StepResult, error) {
	if !c.started {
		c.started = true
		go c.run()
	} else {
		c.stepCh <- resume
	}
	msg := <-c.resultCh
	if msg.done {
		return StepResult{Outcome: StepDone}, msg.err
	}
	return msg.result, nil
}

func (c *coroutine) run() {
	err := c.fn(c.ctx, c.ctrl, c.inputs, c)
	c.resultCh <- coroutineMsg{done: true, err: err}
}

// Output implements Yielder.
func (c *coroutine) Output(pin string, data map[string]any) {
	c.resultCh <- coroutineMsg{result: StepResult{Outcome: StepOutput, Output: NodeOutput{ExecutionPin: pin, Data: data}}}
	<-c.stepCh
}

// FetchInputs implements Yielder.
func (c *coroutine) FetchInputs(ports []string) map[string]any {
	c.resultCh <- coroutineMsg{result: StepResult{Outcome: StepFetchInputs, Fetch: FetchInputsRequest{InputPorts: ports}}}
	resume := <-c.stepCh
	if resume == nil {
		return nil
	}
	return resume.(map[string]any)
}

package transport

import (
	"github.com/smallnest/graphengine/graph"
)

// streamMsg is the hand-rolled sum type carried on the bounded channel
// bridging a run's own goroutine to the HTTP handler's SSE writer, per
// a single-producer/single-consumer queue.
type streamMsg struct {
	progress *progressMsg
	errMsg   *errMsg
	done     *doneMsg
}

// progressMsg wraps one graph.Event on its way to the wire.
type progressMsg struct {
	event graph.Event
}

// errMsg terminates the stream early because Executor.Run returned an
// error. It is always the last message sent.
type errMsg struct {
	err error
}

// doneMsg terminates the stream normally, after the engine's own "finish"
// event has already been forwarded as a progressMsg.
type doneMsg struct{}

func progress(ev graph.Event) streamMsg { return streamMsg{progress: &progressMsg{event: ev}} }
func failure(err error) streamMsg       { return streamMsg{errMsg: &errMsg{err: err}} }
func done() streamMsg                   { return streamMsg{done: &doneMsg{}} }

// streamQueueSize bounds the channel between a run's goroutine and the SSE
// writer. A slow client backpressures the run's Sink, which per events.go's
// doc comment stalls the run itself if the queue stays full — the same
// tradeoff of a bounded queue rather than an
// unbounded one.
const streamQueueSize = 64

package graph

// Event is a single progress record emitted during a run, matching the wire
// shape sent to progress listeners: { event, node_id?, data?, node_error? }.
// Which fields are populated depends on Event: execute_node and
// execute_node_error always carry NodeID; display, append and any
// node-defined custom event carry Data; execute_node_error also carries
// NodeError, the failing error's string representation (error has no
// exported fields to marshal, so the message is carried as a plain
// string); finish carries none of the above.
type Event struct {
	Event     string         `json:"event"`
	NodeID    string         `json:"node_id,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Err       error          `json:"-"`
	NodeError string         `json:"node_error,omitempty"`
}

// Well-known event names. Node drivers may send additional, node-defined
// event names (display/append are simply the two the bundled nodelib nodes
// use) through Controller.SendEvent; the executor itself only ever emits
// execute_node, execute_node_error and finish.
const (
	EventExecuteNode      = "execute_node"
	EventExecuteNodeError = "execute_node_error"
	EventDisplay          = "display"
	EventAppend           = "append"
	EventFinish           = "finish"
)

// Sink receives progress events as a run makes them. Implementations must
// not block indefinitely: Executor.Run calls Sink synchronously from its own
// goroutine, so a slow or blocking sink stalls the run. transport.Server
// bridges a Sink to an SSE response via a bounded channel for exactly this
// reason.
type Sink func(Event)

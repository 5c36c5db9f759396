package transport

import (
	"github.com/microcosm-cc/bluemonday"

	"github.com/smallnest/graphengine/graph"
)

// sanitizer strips HTML/script content from node-produced strings before
// they reach a browser-side graph editor over SSE. The transport is the
// engine's only externally-facing surface (graph.Executor itself never
// touches a wire), so this is the one place untrusted node output meets
// a browser.
var sanitizer = bluemonday.StrictPolicy()

// sanitizeEvent returns a copy of ev with every string value in Data passed
// through sanitizer. Only display/append (and other node-defined custom
// events) carry free-form node output; execute_node, execute_node_error and
// finish are left untouched since their fields are diagnostic, not
// presentation.
func sanitizeEvent(ev graph.Event) graph.Event {
	if ev.Data == nil {
		return ev
	}
	clean := make(map[string]any, len(ev.Data))
	for k, v := range ev.Data {
		if s, ok := v.(string); ok {
			clean[k] = sanitizer.Sanitize(s)
			continue
		}
		clean[k] = v
	}
	ev.Data = clean
	return ev
}

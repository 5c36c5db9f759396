package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smallnest/graphengine/graph"
)

func TestSanitizeEvent_StripsScriptTags(t *testing.T) {
	ev := graph.Event{
		Event:  graph.EventDisplay,
		NodeID: "n1",
		Data:   map[string]any{"value": "<script>alert(1)</script>hello"},
	}

	clean := sanitizeEvent(ev)
	assert.Equal(t, "hello", clean.Data["value"])
}

func TestSanitizeEvent_LeavesNonStringValuesAlone(t *testing.T) {
	ev := graph.Event{
		Event: graph.EventAppend,
		Data:  map[string]any{"count": 3},
	}

	clean := sanitizeEvent(ev)
	assert.Equal(t, 3, clean.Data["count"])
}

func TestSanitizeEvent_NilDataIsUnchanged(t *testing.T) {
	ev := graph.Event{Event: graph.EventFinish}
	clean := sanitizeEvent(ev)
	assert.Nil(t, clean.Data)
}

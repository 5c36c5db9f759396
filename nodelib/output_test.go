package nodelib_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smallnest/graphengine/graph"
)

func TestOutput_PrintNodePassesValueThrough(t *testing.T) {
	reg := newRegistry(t)
	out := runDataNode(t, buildDriver(t, reg, "PrintNode"), nil, map[string]any{"value": "hello"})
	assert.Equal(t, "hello", out["value"])
}

func TestOutput_DisplayAsTextNode_SendsDisplayByDefault(t *testing.T) {
	reg := newRegistry(t)
	ctrl := &recordingController{}

	out := runDataNode(t, buildDriver(t, reg, "DisplayAsTextNode"), ctrl, map[string]any{"value": 3})
	assert.Equal(t, 3, out["value"])
	assert.Len(t, ctrl.events, 1)
	assert.Equal(t, graph.EventDisplay, ctrl.events[0].name)
	assert.Equal(t, "3", ctrl.events[0].data["value"])
}

func TestOutput_DisplayAsTextNode_AppendSwitchesEvent(t *testing.T) {
	reg := newRegistry(t)
	ctrl := &recordingController{}

	runDataNode(t, buildDriver(t, reg, "DisplayAsTextNode"), ctrl, map[string]any{"value": "x", "append": true})
	assert.Equal(t, graph.EventAppend, ctrl.events[0].name)
}

package nodelib_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smallnest/graphengine/graph"
	"github.com/smallnest/graphengine/nodelib"
)

// recordingController is a minimal graph.Controller that stores every
// event it receives, for tests that exercise nodes which call SendEvent
// directly (DisplayAsTextNode) rather than going through a full
// graph.Executor run.
type recordingController struct {
	events []sentEvent
}

type sentEvent struct {
	name string
	data map[string]any
}

func (c *recordingController) SendEvent(event string, data map[string]any) {
	c.events = append(c.events, sentEvent{name: event, data: data})
}

func newRegistry(t *testing.T) *graph.Registry {
	t.Helper()
	reg := graph.NewRegistry()
	require.NoError(t, nodelib.RegisterAll(reg))
	return reg
}

// buildDriver looks up a registered node type and constructs one instance,
// the step every Executor does internally via Registry.Lookup.
func buildDriver(t *testing.T, reg *graph.Registry, nodeType string) graph.NodeDriver {
	t.Helper()
	ctor, _, ok := reg.Lookup(nodeType)
	require.True(t, ok, "node type %q must be registered", nodeType)
	return ctor()
}

// runDataNode drives a one-shot graph.NodeDriver to completion and returns
// its single output map, for unit-testing the DataNode-form node types in
// nodelib without needing a full graph.Executor.
func runDataNode(t *testing.T, driver graph.NodeDriver, ctrl graph.Controller, inputs map[string]any) map[string]any {
	t.Helper()
	if ctrl == nil {
		ctrl = &recordingController{}
	}
	seq, err := driver.Start(context.Background(), ctrl, inputs)
	require.NoError(t, err)
	result, err := seq.Step(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, graph.StepOutput, result.Outcome)
	return result.Output.Data
}

package nodelib_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smallnest/graphengine/nodelib"
)

func TestVariables_DefineSetGetRoundtrip(t *testing.T) {
	reg := newRegistry(t)

	defineOut := runDataNode(t, buildDriver(t, reg, "DefineIntVariableNode"), nil, map[string]any{"initial_value": 7})
	ref, ok := defineOut["variable"].(*nodelib.Reference)
	assert.True(t, ok)
	assert.Equal(t, 7, ref.Value)

	getOut := runDataNode(t, buildDriver(t, reg, "GetVariableNode"), nil, map[string]any{"variable": ref})
	assert.Equal(t, 7, getOut["value"])

	setOut := runDataNode(t, buildDriver(t, reg, "SetVariableNode"), nil, map[string]any{"variable": ref, "value": 99})
	setRef := setOut["variable"].(*nodelib.Reference)
	assert.Same(t, ref, setRef)
	assert.Equal(t, 99, ref.Value)

	getOut = runDataNode(t, buildDriver(t, reg, "GetVariableNode"), nil, map[string]any{"variable": ref})
	assert.Equal(t, 99, getOut["value"])
}

func TestVariables_DefineIntVariableNode_DefaultsToZero(t *testing.T) {
	reg := newRegistry(t)
	out := runDataNode(t, buildDriver(t, reg, "DefineIntVariableNode"), nil, map[string]any{})
	ref := out["variable"].(*nodelib.Reference)
	assert.Equal(t, 0, ref.Value)
}

func TestVariables_GetVariableNode_NilReference(t *testing.T) {
	reg := newRegistry(t)
	out := runDataNode(t, buildDriver(t, reg, "GetVariableNode"), nil, map[string]any{})
	assert.Nil(t, out["value"])
}

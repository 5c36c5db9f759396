package nodelib_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMath_AddNode(t *testing.T) {
	reg := newRegistry(t)
	out := runDataNode(t, buildDriver(t, reg, "AddNode"), nil, map[string]any{"a": 2.0, "b": 3.0})
	assert.Equal(t, 5.0, out["result"])
}

func TestMath_MathOperationNode(t *testing.T) {
	reg := newRegistry(t)
	driver := buildDriver(t, reg, "MathOperationNode")

	cases := []struct {
		op       string
		a, b     float64
		expected float64
	}{
		{"+", 2, 3, 5},
		{"-", 5, 2, 3},
		{"*", 4, 3, 12},
		{"/", 9, 3, 3},
		{"%", 9, 4, 1},
		{"**", 2, 10, 1024},
	}
	for _, tc := range cases {
		out := runDataNode(t, driver, nil, map[string]any{"a": tc.a, "b": tc.b, "operator": tc.op})
		assert.Equal(t, tc.expected, out["result"], "operator %q", tc.op)
	}
}

func TestMath_MathOperationNode_DivisionByZero(t *testing.T) {
	reg := newRegistry(t)
	driver := buildDriver(t, reg, "MathOperationNode")

	seq, err := driver.Start(context.Background(), nil, map[string]any{"a": 1.0, "b": 0.0, "operator": "/"})
	require.NoError(t, err)
	_, err = seq.Step(context.Background(), nil)
	assert.Error(t, err)
}

func TestMath_CompareNode(t *testing.T) {
	reg := newRegistry(t)
	driver := buildDriver(t, reg, "CompareNode")

	out := runDataNode(t, driver, nil, map[string]any{"a": 3.0, "b": 3.0, "operator": "=="})
	assert.Equal(t, true, out["result"])

	out = runDataNode(t, driver, nil, map[string]any{"a": 3.0, "b": 4.0, "operator": "<"})
	assert.Equal(t, true, out["result"])

	out = runDataNode(t, driver, nil, map[string]any{"a": "x", "b": "y", "operator": "!="})
	assert.Equal(t, true, out["result"])
}

func TestMath_CompareNode_NonNumericOrdering(t *testing.T) {
	reg := newRegistry(t)
	driver := buildDriver(t, reg, "CompareNode")

	seq, err := driver.Start(context.Background(), nil, map[string]any{"a": "x", "b": "y", "operator": ">"})
	require.NoError(t, err)
	_, err = seq.Step(context.Background(), nil)
	assert.Error(t, err)
}

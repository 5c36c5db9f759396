package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/graphengine/graph"
)

func TestParseDocument_Valid(t *testing.T) {
	doc := []byte(`{
		"nodes": [
			{"id": "start", "node_type": "StartNode", "execution_type": "TRIGGERED", "inputs": {}},
			{"id": "n1", "node_type": "IntNode", "execution_type": "data_once", "inputs": {"value": 3}}
		],
		"edges": [
			{"source_id": "n1", "source_pin": "value", "target_id": "start", "target_pin": "x"}
		],
		"route_edges": []
	}`)

	g, err := graph.ParseDocument(doc)
	require.NoError(t, err)

	n1, ok := g.Node("n1")
	require.True(t, ok)
	assert.Equal(t, graph.DataOnce, n1.Mode)
	assert.Equal(t, "IntNode", n1.Type)
}

func TestParseDocument_MissingStart(t *testing.T) {
	doc := []byte(`{"nodes": [{"id": "n1", "node_type": "IntNode", "execution_type": "data", "inputs": {}}]}`)
	_, err := graph.ParseDocument(doc)
	require.Error(t, err)
	var invalid *graph.InvalidGraph
	assert.ErrorAs(t, err, &invalid)
}

func TestParseDocument_DuplicateStart(t *testing.T) {
	doc := []byte(`{"nodes": [
		{"id": "start", "node_type": "StartNode", "execution_type": "triggered", "inputs": {}},
		{"id": "start", "node_type": "StartNode", "execution_type": "triggered", "inputs": {}}
	]}`)
	_, err := graph.ParseDocument(doc)
	require.Error(t, err)
	var invalid *graph.InvalidGraph
	assert.ErrorAs(t, err, &invalid)
}

func TestParseDocument_UnknownExecutionType(t *testing.T) {
	doc := []byte(`{"nodes": [{"id": "start", "node_type": "StartNode", "execution_type": "sometimes", "inputs": {}}]}`)
	_, err := graph.ParseDocument(doc)
	require.Error(t, err)
	var parseErr *graph.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestParseDocument_MalformedJSON(t *testing.T) {
	_, err := graph.ParseDocument([]byte(`{not json`))
	require.Error(t, err)
	var parseErr *graph.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestParseDocument_UnknownEdgeEndpoint(t *testing.T) {
	doc := []byte(`{
		"nodes": [{"id": "start", "node_type": "StartNode", "execution_type": "triggered", "inputs": {}}],
		"edges": [{"source_id": "start", "source_pin": "x", "target_id": "ghost", "target_pin": "y"}]
	}`)
	_, err := graph.ParseDocument(doc)
	require.Error(t, err)
	var invalid *graph.InvalidGraph
	assert.ErrorAs(t, err, &invalid)
}

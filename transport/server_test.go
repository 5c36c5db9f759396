package transport_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/graphengine/graph"
	"github.com/smallnest/graphengine/nodelib"
	"github.com/smallnest/graphengine/transport"
)

func testRegistry(t *testing.T) *graph.Registry {
	t.Helper()
	reg := graph.NewRegistry()
	require.NoError(t, nodelib.RegisterAll(reg))
	return reg
}

const simpleGraphDoc = `{
  "nodes": [
    {"id": "start", "node_type": "StartNode", "execution_type": "triggered", "inputs": {}},
    {"id": "p",     "node_type": "PrintNode",  "execution_type": "triggered", "inputs": {"value": "hi"}}
  ],
  "edges": [],
  "route_edges": [
    {"source_id": "start", "source_pin": "_", "target_id": "p"}
  ]
}`

func TestServer_ExecuteGraph(t *testing.T) {
	srv := transport.NewServer(transport.Config{Registry: testRegistry(t)})

	body, err := json.Marshal(map[string]json.RawMessage{"document": json.RawMessage(simpleGraphDoc)})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/execute-graph", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.NotEmpty(t, resp["run_id"])
}

func TestServer_ExecuteGraph_MalformedDocument(t *testing.T) {
	srv := transport.NewServer(transport.Config{Registry: testRegistry(t)})

	req := httptest.NewRequest(http.MethodPost, "/api/execute-graph", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ExecuteGraphWithProgress(t *testing.T) {
	srv := transport.NewServer(transport.Config{Registry: testRegistry(t)})

	body, err := json.Marshal(map[string]json.RawMessage{"document": json.RawMessage(simpleGraphDoc)})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/execute-graph-with-progress", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	var sawFinish, sawExecuteNode bool
	scanner := bufio.NewScanner(strings.NewReader(rec.Body.String()))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		raw := strings.TrimPrefix(line, "data: ")

		// Decode into a plain map, not graph.Event, so the assertions below
		// see the actual wire keys rather than whatever Go struct field
		// names json.Unmarshal happens to tolerate.
		var wire map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &wire))
		assert.Contains(t, wire, "event")
		assert.NotContains(t, wire, "Event")
		assert.NotContains(t, wire, "NodeID")

		switch wire["event"] {
		case graph.EventFinish:
			sawFinish = true
		case graph.EventExecuteNode:
			sawExecuteNode = true
			assert.Equal(t, "p", wire["node_id"])
		}
	}
	assert.True(t, sawFinish)
	assert.True(t, sawExecuteNode)
}

// TestServer_ExecuteGraphWithProgress_ErrorEventCarriesMessage verifies a
// failing node's execute_node_error record carries its message on the wire
// as node_error, not as an empty object (error has no exported fields to
// marshal on its own).
func TestServer_ExecuteGraphWithProgress_ErrorEventCarriesMessage(t *testing.T) {
	srv := transport.NewServer(transport.Config{Registry: testRegistry(t)})

	// "p"'s value input is fed by a ConvertToIntNode that can never
	// succeed, forcing a NodeError out of that data node's Step during
	// "p"'s own execution.
	const failingDoc = `{
	  "nodes": [
	    {"id": "start", "node_type": "StartNode",        "execution_type": "triggered", "inputs": {}},
	    {"id": "bad",   "node_type": "ConvertToIntNode",  "execution_type": "data",      "inputs": {"value": "not-a-number"}},
	    {"id": "p",     "node_type": "PrintNode",         "execution_type": "triggered", "inputs": {}}
	  ],
	  "edges": [
	    {"source_id": "bad", "source_pin": "value", "target_id": "p", "target_pin": "value"}
	  ],
	  "route_edges": [
	    {"source_id": "start", "source_pin": "_", "target_id": "p"}
	  ]
	}`

	body, err := json.Marshal(map[string]json.RawMessage{"document": json.RawMessage(failingDoc)})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/execute-graph-with-progress", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	var sawNodeError bool
	scanner := bufio.NewScanner(strings.NewReader(rec.Body.String()))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var wire map[string]any
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &wire); err != nil {
			continue
		}
		if wire["event"] != graph.EventExecuteNodeError {
			continue
		}
		sawNodeError = true
		msg, ok := wire["node_error"].(string)
		require.True(t, ok, "execute_node_error record must carry a node_error string, got %#v", wire)
		assert.Contains(t, msg, "not-a-number")
	}
	assert.True(t, sawNodeError)
}

func TestServer_NodeMetas(t *testing.T) {
	srv := transport.NewServer(transport.Config{Registry: testRegistry(t)})

	req := httptest.NewRequest(http.MethodGet, "/api/node-metas", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var metas map[string]graph.Metadata
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &metas))
	assert.Contains(t, metas, "PrintNode")
}

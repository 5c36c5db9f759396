package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/smallnest/graphengine/graph"
	"github.com/smallnest/graphengine/log"
)

// Server exposes graph execution over stdlib net/http: no web framework
// dependency is introduced for what three handlers and an SSE stream can do
// directly.
type Server struct {
	registry        *graph.Registry
	logger          log.Logger
	broadcaster     *RedisBroadcaster
	maxRoutingDepth int
}

// Config configures a Server.
type Config struct {
	Registry        *graph.Registry
	Logger          log.Logger
	Broadcaster     *RedisBroadcaster // optional
	MaxRoutingDepth int               // 0 = unbounded
}

// NewServer builds a Server bound to cfg.Registry.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.GetDefaultLogger()
	}
	return &Server{
		registry:        cfg.Registry,
		logger:          logger,
		broadcaster:     cfg.Broadcaster,
		maxRoutingDepth: cfg.MaxRoutingDepth,
	}
}

// Handler returns the server's routes mounted on a fresh ServeMux, so
// callers can compose it with their own middleware/routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/execute-graph", s.handleExecuteGraph)
	mux.HandleFunc("/api/execute-graph-with-progress", s.handleExecuteGraphWithProgress)
	mux.HandleFunc("/api/node-metas", s.handleNodeMetas)
	return mux
}

// executeGraphRequest is the JSON body both execute endpoints accept: a
// graph document. The run id is always generated by the server.
type executeGraphRequest struct {
	Document json.RawMessage `json:"document"`
}

func (s *Server) buildExecutor(body []byte) (*graph.Executor, string, error) {
	var req executeGraphRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, "", &graph.ParseError{Field: "<request>", Message: err.Error()}
	}

	g, err := graph.ParseDocument(req.Document)
	if err != nil {
		return nil, "", err
	}

	exec, warnings, err := graph.NewExecutor(g, s.registry)
	if err != nil {
		return nil, "", err
	}
	for _, w := range warnings {
		s.logger.Warn("graph build warning: %s", w.Message)
	}
	exec.MaxRoutingDepth = s.maxRoutingDepth

	runID := uuid.NewString()
	return exec, runID, nil
}

// handleExecuteGraph is the fire-and-forget endpoint: it runs
// the graph to completion and reports success or an error description, with
// no progress streaming.
func (s *Server) handleExecuteGraph(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := readAll(r)
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	exec, runID, err := s.buildExecutor(body)
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.logger.Info("run %s: starting fire-and-forget execution", runID)
	err = exec.Run(r.Context(), func(ev graph.Event) {
		if s.broadcaster != nil {
			if perr := s.broadcaster.Publish(r.Context(), runID, ev); perr != nil {
				s.logger.Warn("run %s: broadcast failed: %v", runID, perr)
			}
		}
	})
	if err != nil {
		s.logger.Error("run %s: failed: %v", runID, err)
		sendJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	sendJSON(w, map[string]any{"success": true, "run_id": runID})
}

// handleExecuteGraphWithProgress is the SSE endpoint: it runs
// the graph on its own goroutine and streams every progress event to
// the client until "finish" or an error.
func (s *Server) handleExecuteGraphWithProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := readAll(r)
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	exec, runID, err := s.buildExecutor(body)
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	queue := make(chan streamMsg, streamQueueSize)

	go func() {
		runErr := exec.Run(ctx, func(ev graph.Event) {
			clean := sanitizeEvent(ev)
			if s.broadcaster != nil {
				if perr := s.broadcaster.Publish(ctx, runID, clean); perr != nil {
					s.logger.Warn("run %s: broadcast failed: %v", runID, perr)
				}
			}
			queue <- progress(clean)
		})
		if runErr != nil {
			queue <- failure(runErr)
			return
		}
		queue <- done()
	}()

	s.logger.Info("run %s: starting streaming execution", runID)
	for msg := range queue {
		switch {
		case msg.progress != nil:
			writeSSE(w, flusher, msg.progress.event.Event, msg.progress.event)
			if msg.progress.event.Event == graph.EventFinish {
				return
			}
		case msg.errMsg != nil:
			s.logger.Error("run %s: failed: %v", runID, msg.errMsg.err)
			writeSSE(w, flusher, "error", map[string]string{"message": msg.errMsg.err.Error()})
			return
		case msg.done != nil:
			return
		}
	}
}

// handleNodeMetas is the read-only registry accessor.
func (s *Server) handleNodeMetas(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sendJSON(w, s.registry.All())
}

func writeSSE(w http.ResponseWriter, flusher http.Flusher, event string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", payload)
	flusher.Flush()
}

func sendJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func sendJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"error": message})
}

func readAll(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(r.Body)
}

package graph

import "sync"

// PortSpec describes one input or output port of a node type. Only Name and
// Lazy are consumed by the scheduler; Type/Options/Widget are authoring
// metadata for UIs built on top of the engine.
type PortSpec struct {
	Name    string
	Type    string
	Lazy    bool
	Options map[string]any
	Widget  string
}

// Metadata is the registry's opaque-to-the-scheduler bag of node-type
// information. Title, Category, Execution, GenericTypes and Display are
// presentation-only and never read by Analyzer or Executor.
type Metadata struct {
	Title        string
	Category     string
	Inputs       []PortSpec
	Outputs      []PortSpec
	Execution    string
	GenericTypes []string
	Display      []PortSpec
}

// NonLazyInputNames returns the ordered list of non-lazy input port names, the
// subset Executor.collectInputs gathers eagerly before invoking a node.
func (m Metadata) NonLazyInputNames() []string {
	var names []string
	for _, p := range m.Inputs {
		if !p.Lazy {
			names = append(names, p.Name)
		}
	}
	return names
}

// Lazy reports whether the named input port is declared lazy. Unknown ports
// are treated as non-lazy.
func (m Metadata) Lazy(port string) bool {
	for _, p := range m.Inputs {
		if p.Name == port {
			return p.Lazy
		}
	}
	return false
}

// Constructor builds a fresh node instance for one place in the graph. The
// registry holds one Constructor per node type and calls it once per node
// id, lazily, the first time that node is referenced (Executor owns the
// resulting instances for the run's duration).
type Constructor func() NodeDriver

// Registry is a process-wide mapping from node-type identifier to its
// constructor and metadata. It is effectively immutable after plugin-load:
// Register is meant to be called during startup, from init-time plugin
// registration, not concurrently with a running Executor.
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
	metas map[string]Metadata
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		ctors: make(map[string]Constructor),
		metas: make(map[string]Metadata),
	}
}

// Register adds a node type to the registry. It fails with MissingMeta if
// meta has neither inputs nor outputs declared and isn't distinguishable
// from an accidentally zero-valued Metadata — a node type with genuinely no
// ports (like StartNode) must still set a non-nil (possibly empty) Inputs
// or Outputs slice to register successfully.
func (r *Registry) Register(nodeType string, ctor Constructor, meta Metadata) error {
	if ctor == nil {
		return &MissingMeta{NodeType: nodeType}
	}
	if meta.Inputs == nil && meta.Outputs == nil {
		return &MissingMeta{NodeType: nodeType}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[nodeType] = ctor
	r.metas[nodeType] = meta
	return nil
}

// Lookup returns the constructor and metadata for a node type.
func (r *Registry) Lookup(nodeType string) (Constructor, Metadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctor, ok := r.ctors[nodeType]
	if !ok {
		return nil, Metadata{}, false
	}
	return ctor, r.metas[nodeType], true
}

// Metadata returns only the metadata for a node type.
func (r *Registry) Metadata(nodeType string) (Metadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.metas[nodeType]
	return m, ok
}

// All returns a read-only snapshot of the full registry, consumed by
// authoring UIs via the node-metadata query endpoint.
func (r *Registry) All() map[string]Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Metadata, len(r.metas))
	for k, v := range r.metas {
		out[k] = v
	}
	return out
}

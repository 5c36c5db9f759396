// Package plugin loads sets of node types into a graph.Registry.
//
// Go has no dynamic import of a plugins directory at runtime, so Loader
// instead holds an explicit mapping from name to a statically-linked
// Source, and Load activates whichever subset a caller's LoaderConfig names
// (or every registered Source, if none are named — load everything by
// default).
package plugin

import (
	"context"
	"fmt"
	"time"

	"github.com/smallnest/graphengine/graph"
	"github.com/smallnest/graphengine/log"
)

// Source registers one coherent set of node types into reg. nodelib.RegisterAll
// and nodelib.RegisterLLM are both valid Sources; so is any caller-supplied
// registration function contributed from outside this module.
type Source func(reg *graph.Registry) error

// Loader links named Sources and activates a subset of them on demand.
type Loader struct {
	sources map[string]Source
	order   []string
	logger  log.Logger
}

// NewLoader returns an empty Loader.
func NewLoader() *Loader {
	return &Loader{
		sources: make(map[string]Source),
		logger:  log.GetDefaultLogger(),
	}
}

// SetLogger overrides the logger used to report plugin load timing.
func (l *Loader) SetLogger(logger log.Logger) {
	l.logger = logger
}

// Register links source under name. Registering the same name twice
// overwrites the earlier binding; order of first registration is preserved
// for the "load everything" default.
func (l *Loader) Register(name string, source Source) {
	if _, exists := l.sources[name]; !exists {
		l.order = append(l.order, name)
	}
	l.sources[name] = source
}

// LoaderConfig selects which registered sources Load activates.
type LoaderConfig struct {
	// Enabled names the sources to activate, in order. An empty slice
	// activates every registered source, in registration order.
	Enabled []string
}

// Load builds a fresh Registry and activates cfg.Enabled sources into it
// (or every registered source, if Enabled is empty), logging each one's
// load time as "plugin %q loaded successfully in %s". A source that fails
// to register is fatal to that source's own node types, but Load keeps
// going and activates the rest rather than aborting the whole load.
func (l *Loader) Load(ctx context.Context, cfg LoaderConfig) (*graph.Registry, error) {
	names := cfg.Enabled
	if len(names) == 0 {
		names = l.order
	}

	reg := graph.NewRegistry()
	var firstErr error
	for _, name := range names {
		source, ok := l.sources[name]
		if !ok {
			l.logger.Warn("plugin %q is not registered, skipping", name)
			continue
		}

		start := time.Now()
		if err := source(reg); err != nil {
			l.logger.Error("plugin %q failed to load: %v", name, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("plugin %q: %w", name, err)
			}
			continue
		}
		l.logger.Info("plugin %q loaded successfully in %s", name, time.Since(start))
	}

	if ctx.Err() != nil {
		return reg, ctx.Err()
	}
	return reg, firstErr
}

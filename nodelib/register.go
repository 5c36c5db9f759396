package nodelib

import "github.com/smallnest/graphengine/graph"

// RegisterAll registers every bundled node type with reg. Go has no dynamic
// import of a plugins directory at runtime, so plugin.Loader (see the
// plugin package) selects among named RegisterXxx functions like this one
// instead.
func RegisterAll(reg *graph.Registry) error {
	registrars := []func(*graph.Registry) error{
		RegisterControlFlow,
		RegisterPrimitives,
		RegisterVariables,
		RegisterCollections,
		RegisterObjects,
		RegisterMath,
		RegisterOutput,
		RegisterLLM,
	}
	for _, register := range registrars {
		if err := register(reg); err != nil {
			return err
		}
	}
	return nil
}

package nodelib

import (
	"context"

	"github.com/smallnest/graphengine/graph"
)

// Reference is a boxed mutable cell: passing one by pointer through data
// edges lets SetVariableNode mutate what GetVariableNode later reads, which
// a plain value-typed port could not do.
type Reference struct {
	Value any
}

// RegisterVariables adds DefineVariableNode, SetVariableNode and
// GetVariableNode.
func RegisterVariables(reg *graph.Registry) error {
	if err := reg.Register("DefineVariableNode", func() graph.NodeDriver {
		return graph.DataNode(func(ctx context.Context, ctrl graph.Controller, in map[string]any) (map[string]any, error) {
			return map[string]any{"variable": &Reference{Value: in["initial_value"]}}, nil
		})
	}, graph.Metadata{
		Title: "DefineVariableNode", Category: "variables",
		Inputs:  []graph.PortSpec{{Name: "initial_value"}},
		Outputs: []graph.PortSpec{{Name: "variable"}},
	}); err != nil {
		return err
	}

	// DefineIntVariableNode is the typed alias the accumulator-style
	// graphs in the seed test suite reference; it behaves like
	// DefineVariableNode, except that a missing initial_value defaults to 0.
	if err := reg.Register("DefineIntVariableNode", func() graph.NodeDriver {
		return graph.DataNode(func(ctx context.Context, ctrl graph.Controller, in map[string]any) (map[string]any, error) {
			v := in["initial_value"]
			if v == nil {
				v = 0
			}
			return map[string]any{"variable": &Reference{Value: v}}, nil
		})
	}, graph.Metadata{
		Title: "DefineIntVariableNode", Category: "variables",
		Inputs:  []graph.PortSpec{{Name: "initial_value"}},
		Outputs: []graph.PortSpec{{Name: "variable"}},
	}); err != nil {
		return err
	}

	if err := reg.Register("SetVariableNode", func() graph.NodeDriver {
		return graph.DataNode(func(ctx context.Context, ctrl graph.Controller, in map[string]any) (map[string]any, error) {
			ref, _ := in["variable"].(*Reference)
			if ref == nil {
				ref = &Reference{}
			}
			ref.Value = in["value"]
			return map[string]any{"variable": ref}, nil
		})
	}, graph.Metadata{
		Title: "SetVariableNode", Category: "variables",
		Inputs:  []graph.PortSpec{{Name: "variable"}, {Name: "value"}},
		Outputs: []graph.PortSpec{{Name: "variable"}},
	}); err != nil {
		return err
	}

	if err := reg.Register("GetVariableNode", func() graph.NodeDriver {
		return graph.DataNode(func(ctx context.Context, ctrl graph.Controller, in map[string]any) (map[string]any, error) {
			ref, _ := in["variable"].(*Reference)
			if ref == nil {
				return map[string]any{"value": nil}, nil
			}
			return map[string]any{"value": ref.Value}, nil
		})
	}, graph.Metadata{
		Title: "GetVariableNode", Category: "variables",
		Inputs:  []graph.PortSpec{{Name: "variable"}},
		Outputs: []graph.PortSpec{{Name: "value"}},
	}); err != nil {
		return err
	}

	return nil
}

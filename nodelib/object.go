package nodelib

import (
	"context"

	"github.com/smallnest/graphengine/graph"
)

// RegisterObjects adds property-bag node types. Go has no dynamic
// attribute object, so SetObjectPropertyNode/GetObjectPropertyNode operate
// on a plain map[string]any instead.
func RegisterObjects(reg *graph.Registry) error {
	if err := reg.Register("SetObjectPropertyNode", func() graph.NodeDriver {
		return graph.DataNode(func(ctx context.Context, ctrl graph.Controller, in map[string]any) (map[string]any, error) {
			src, _ := in["object"].(map[string]any)
			out := make(map[string]any, len(src)+1)
			for k, v := range src {
				out[k] = v
			}
			name, _ := in["property"].(string)
			out[name] = in["value"]
			return map[string]any{"object": out}, nil
		})
	}, graph.Metadata{
		Title: "SetObjectPropertyNode", Category: "objects",
		Inputs:  []graph.PortSpec{{Name: "object"}, {Name: "property"}, {Name: "value"}},
		Outputs: []graph.PortSpec{{Name: "object"}},
	}); err != nil {
		return err
	}

	if err := reg.Register("GetObjectPropertyNode", func() graph.NodeDriver {
		return graph.DataNode(func(ctx context.Context, ctrl graph.Controller, in map[string]any) (map[string]any, error) {
			src, _ := in["object"].(map[string]any)
			name, _ := in["property"].(string)
			return map[string]any{"value": src[name]}, nil
		})
	}, graph.Metadata{
		Title: "GetObjectPropertyNode", Category: "objects",
		Inputs:  []graph.PortSpec{{Name: "object"}, {Name: "property"}},
		Outputs: valuePort(),
	}); err != nil {
		return err
	}

	return nil
}

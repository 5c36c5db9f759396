// Package nodelib is the bundled node type library: the concrete node
// types a graph document can reference by name, implemented against
// graph.NodeDriver.
package nodelib

import (
	"context"
	"fmt"

	"github.com/smallnest/graphengine/graph"
)

// literal builds a DataOnce-friendly node type that simply republishes its
// single literal "value" input as its "value" output, the shape of
// IntNode/FloatNode/BoolNode/StringNode/NoneNode in the original plugin.
func literal(defaultValue any) graph.NodeDriver {
	return graph.DataNode(func(ctx context.Context, ctrl graph.Controller, in map[string]any) (map[string]any, error) {
		v, ok := in["value"]
		if !ok {
			v = defaultValue
		}
		return map[string]any{"value": v}, nil
	})
}

func valuePort() []graph.PortSpec {
	return []graph.PortSpec{{Name: "value"}}
}

// RegisterPrimitives adds the constant-valued literal node types: int,
// float, bool, string, multiline string, and none.
func RegisterPrimitives(reg *graph.Registry) error {
	register := func(nodeType string, zero any) error {
		return reg.Register(nodeType, func() graph.NodeDriver { return literal(zero) }, graph.Metadata{
			Title: nodeType, Category: "primitives",
			Inputs: valuePort(), Outputs: valuePort(),
		})
	}
	if err := register("IntNode", 0); err != nil {
		return err
	}
	if err := register("FloatNode", 0.0); err != nil {
		return err
	}
	if err := register("BoolNode", false); err != nil {
		return err
	}
	if err := register("StringNode", ""); err != nil {
		return err
	}
	if err := register("StringMultilineNode", ""); err != nil {
		return err
	}
	if err := register("NoneNode", nil); err != nil {
		return err
	}

	convert := func(nodeType string, fn func(any) (any, error)) error {
		return reg.Register(nodeType, func() graph.NodeDriver {
			return graph.DataNode(func(ctx context.Context, ctrl graph.Controller, in map[string]any) (map[string]any, error) {
				out, err := fn(in["value"])
				if err != nil {
					return nil, err
				}
				return map[string]any{"value": out}, nil
			})
		}, graph.Metadata{Title: nodeType, Category: "primitives", Inputs: valuePort(), Outputs: valuePort()})
	}
	if err := convert("ConvertToIntNode", toInt); err != nil {
		return err
	}
	if err := convert("ConvertToFloatNode", toFloat); err != nil {
		return err
	}
	if err := convert("ConvertToStringNode", func(v any) (any, error) { return fmt.Sprintf("%v", v), nil }); err != nil {
		return err
	}
	return nil
}

func toInt(v any) (any, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case string:
		var i int
		if _, err := fmt.Sscanf(n, "%d", &i); err != nil {
			return nil, fmt.Errorf("cannot convert %q to int: %w", n, err)
		}
		return i, nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	default:
		return nil, fmt.Errorf("cannot convert %T to int", v)
	}
}

func toFloat(v any) (any, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case string:
		var f float64
		if _, err := fmt.Sscanf(n, "%g", &f); err != nil {
			return nil, fmt.Errorf("cannot convert %q to float: %w", n, err)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("cannot convert %T to float", v)
	}
}

package nodelib

import (
	"context"

	"github.com/smallnest/graphengine/graph"
)

// RegisterControlFlow adds the graph's entry point node type and its
// branching/looping primitives: StartNode, ForLoopNode, ForEachNode,
// WhileLoopNode and IfNode. All but StartNode are producer-form nodes.
func RegisterControlFlow(reg *graph.Registry) error {
	if err := reg.Register("StartNode", func() graph.NodeDriver {
		return graph.DataNode(func(ctx context.Context, ctrl graph.Controller, in map[string]any) (map[string]any, error) {
			return nil, nil
		})
	}, graph.Metadata{
		Title: "StartNode", Category: "control-flow",
		Inputs: []graph.PortSpec{}, Outputs: []graph.PortSpec{},
	}); err != nil {
		return err
	}

	if err := reg.Register("ForLoopNode", func() graph.NodeDriver {
		return graph.Producer(func(ctx context.Context, ctrl graph.Controller, in map[string]any, yield graph.Yielder) error {
			start := asInt(in["start"], 0)
			end := asInt(in["end"], 0)
			step := asInt(in["step"], 1)
			if step == 0 {
				step = 1
			}
			if step > 0 {
				for i := start; i < end; i += step {
					yield.Output("body", map[string]any{"item": i})
				}
			} else {
				for i := start; i > end; i += step {
					yield.Output("body", map[string]any{"item": i})
				}
			}
			return nil
		})
	}, graph.Metadata{
		Title: "ForLoopNode", Category: "control-flow", Execution: "triggered",
		Inputs:  []graph.PortSpec{{Name: "start"}, {Name: "end"}, {Name: "step"}},
		Outputs: []graph.PortSpec{{Name: "item"}},
		Display: []graph.PortSpec{{Name: "body"}},
	}); err != nil {
		return err
	}

	if err := reg.Register("ForEachNode", func() graph.NodeDriver {
		return graph.Producer(func(ctx context.Context, ctrl graph.Controller, in map[string]any, yield graph.Yielder) error {
			items, _ := in["items"].([]any)
			for _, item := range items {
				yield.Output("body", map[string]any{"item": item})
			}
			return nil
		})
	}, graph.Metadata{
		Title: "ForEachNode", Category: "control-flow", Execution: "triggered",
		Inputs:  []graph.PortSpec{{Name: "items"}},
		Outputs: []graph.PortSpec{{Name: "item"}},
		Display: []graph.PortSpec{{Name: "body"}},
	}); err != nil {
		return err
	}

	if err := reg.Register("WhileLoopNode", func() graph.NodeDriver {
		return graph.Producer(func(ctx context.Context, ctrl graph.Controller, in map[string]any, yield graph.Yielder) error {
			for {
				fresh := yield.FetchInputs([]string{"condition"})
				cond, _ := fresh["condition"].(bool)
				if !cond {
					return nil
				}
				yield.Output("body", nil)
			}
		})
	}, graph.Metadata{
		Title: "WhileLoopNode", Category: "control-flow", Execution: "triggered",
		Inputs:  []graph.PortSpec{{Name: "condition", Lazy: true}},
		Outputs: []graph.PortSpec{},
		Display: []graph.PortSpec{{Name: "body"}},
	}); err != nil {
		return err
	}

	if err := reg.Register("IfNode", func() graph.NodeDriver {
		return graph.Producer(func(ctx context.Context, ctrl graph.Controller, in map[string]any, yield graph.Yielder) error {
			cond, _ := in["condition"].(bool)
			if cond {
				yield.Output("if", nil)
			} else {
				yield.Output("else", nil)
			}
			return nil
		})
	}, graph.Metadata{
		Title: "IfNode", Category: "control-flow", Execution: "triggered",
		Inputs:  []graph.PortSpec{{Name: "condition"}},
		Outputs: []graph.PortSpec{},
		Display: []graph.PortSpec{{Name: "if"}, {Name: "else"}},
	}); err != nil {
		return err
	}

	return nil
}

func asInt(v any, def int) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return def
	}
}

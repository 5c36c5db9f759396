package nodelib

import (
	"context"
	"fmt"

	"github.com/smallnest/graphengine/graph"
)

// RegisterMath adds the arithmetic and comparison node types.
//
// A graph document is untrusted input to this engine (it can come from an
// HTTP request body), so MathOperationNode and CompareNode dispatch on a
// fixed, whitelisted set of operators instead of evaluating an expression
// string.
func RegisterMath(reg *graph.Registry) error {
	if err := reg.Register("AddNode", func() graph.NodeDriver {
		return graph.DataNode(func(ctx context.Context, ctrl graph.Controller, in map[string]any) (map[string]any, error) {
			a, err := asNumber(in["a"])
			if err != nil {
				return nil, err
			}
			b, err := asNumber(in["b"])
			if err != nil {
				return nil, err
			}
			return map[string]any{"result": a + b}, nil
		})
	}, graph.Metadata{
		Title: "AddNode", Category: "math",
		Inputs:  []graph.PortSpec{{Name: "a"}, {Name: "b"}},
		Outputs: []graph.PortSpec{{Name: "result"}},
	}); err != nil {
		return err
	}

	if err := reg.Register("MathOperationNode", func() graph.NodeDriver {
		return graph.DataNode(func(ctx context.Context, ctrl graph.Controller, in map[string]any) (map[string]any, error) {
			a, err := asNumber(in["a"])
			if err != nil {
				return nil, err
			}
			b, err := asNumber(in["b"])
			if err != nil {
				return nil, err
			}
			op, _ := in["operator"].(string)
			result, err := applyMathOperator(op, a, b)
			if err != nil {
				return nil, err
			}
			return map[string]any{"result": result}, nil
		})
	}, graph.Metadata{
		Title: "MathOperationNode", Category: "math",
		Inputs: []graph.PortSpec{
			{Name: "a"}, {Name: "b"},
			{Name: "operator", Options: map[string]any{"choices": []string{"+", "-", "*", "/", "%", "**"}}},
		},
		Outputs: []graph.PortSpec{{Name: "result"}},
	}); err != nil {
		return err
	}

	if err := reg.Register("CompareNode", func() graph.NodeDriver {
		return graph.DataNode(func(ctx context.Context, ctrl graph.Controller, in map[string]any) (map[string]any, error) {
			op, _ := in["operator"].(string)
			result, err := applyComparison(op, in["a"], in["b"])
			if err != nil {
				return nil, err
			}
			return map[string]any{"result": result}, nil
		})
	}, graph.Metadata{
		Title: "CompareNode", Category: "math", GenericTypes: []string{"T"},
		Inputs: []graph.PortSpec{
			{Name: "a"}, {Name: "b"},
			{Name: "operator", Options: map[string]any{"choices": []string{"==", "!=", ">", ">=", "<", "<="}}},
		},
		Outputs: []graph.PortSpec{{Name: "result"}},
	}); err != nil {
		return err
	}

	return nil
}

func asNumber(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}

func applyMathOperator(op string, a, b float64) (float64, error) {
	switch op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		if b == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return a / b, nil
	case "%":
		if b == 0 {
			return 0, fmt.Errorf("modulo by zero")
		}
		return float64(int(a) % int(b)), nil
	case "**":
		return pow(a, b), nil
	default:
		return 0, fmt.Errorf("unsupported operator %q", op)
	}
}

func pow(a, b float64) float64 {
	if b == 0 {
		return 1
	}
	result := 1.0
	neg := b < 0
	n := int(b)
	if neg {
		n = -n
	}
	for i := 0; i < n; i++ {
		result *= a
	}
	if neg {
		return 1 / result
	}
	return result
}

func applyComparison(op string, a, b any) (bool, error) {
	switch op {
	case "==":
		return a == b, nil
	case "!=":
		return a != b, nil
	}
	af, aerr := asNumber(a)
	bf, berr := asNumber(b)
	if aerr != nil || berr != nil {
		return false, fmt.Errorf("operator %q requires numeric operands", op)
	}
	switch op {
	case ">":
		return af > bf, nil
	case ">=":
		return af >= bf, nil
	case "<":
		return af < bf, nil
	case "<=":
		return af <= bf, nil
	default:
		return false, fmt.Errorf("unsupported operator %q", op)
	}
}

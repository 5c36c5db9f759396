package nodelib

import (
	"context"
	"strconv"

	"github.com/smallnest/graphengine/graph"
)

// maxListInputs is the fixed number of numbered item/key-value input pairs
// ListNode and StringKeyDictNode expose, since the wire format has no way
// to express a variadic port.
const maxListInputs = 5

// RegisterCollections adds list and dict node types.
func RegisterCollections(reg *graph.Registry) error {
	if err := reg.Register("EmptyListNode", func() graph.NodeDriver {
		return graph.DataNode(func(ctx context.Context, ctrl graph.Controller, in map[string]any) (map[string]any, error) {
			return map[string]any{"value": []any{}}, nil
		})
	}, graph.Metadata{Title: "EmptyListNode", Category: "collections", Inputs: []graph.PortSpec{}, Outputs: valuePort()}); err != nil {
		return err
	}

	listInputs := make([]graph.PortSpec, 0, maxListInputs+1)
	for i := 1; i <= maxListInputs; i++ {
		listInputs = append(listInputs, graph.PortSpec{Name: portName("item", i)})
	}
	listInputs = append(listInputs, graph.PortSpec{Name: "last_list"})
	if err := reg.Register("ListNode", func() graph.NodeDriver {
		return graph.DataNode(func(ctx context.Context, ctrl graph.Controller, in map[string]any) (map[string]any, error) {
			var items []any
			for i := 1; i <= maxListInputs; i++ {
				if v, ok := in[portName("item", i)]; ok {
					items = append(items, v)
				}
			}
			if last, ok := in["last_list"].([]any); ok {
				items = append(items, last...)
			}
			return map[string]any{"value": items}, nil
		})
	}, graph.Metadata{Title: "ListNode", Category: "collections", Inputs: listInputs, Outputs: valuePort()}); err != nil {
		return err
	}

	if err := reg.Register("AppendToListNode", func() graph.NodeDriver {
		return graph.DataNode(func(ctx context.Context, ctrl graph.Controller, in map[string]any) (map[string]any, error) {
			list, _ := in["list"].([]any)
			out := make([]any, len(list), len(list)+1)
			copy(out, list)
			out = append(out, in["item"])
			return map[string]any{"list": out}, nil
		})
	}, graph.Metadata{
		Title: "AppendToListNode", Category: "collections",
		Inputs:  []graph.PortSpec{{Name: "item"}, {Name: "list"}},
		Outputs: []graph.PortSpec{{Name: "list"}},
	}); err != nil {
		return err
	}

	if err := reg.Register("GetListItemNode", func() graph.NodeDriver {
		return graph.DataNode(func(ctx context.Context, ctrl graph.Controller, in map[string]any) (map[string]any, error) {
			list, _ := in["list"].([]any)
			idx := asInt(in["index"], 0)
			if idx < 0 || idx >= len(list) {
				return map[string]any{"value": nil}, nil
			}
			return map[string]any{"value": list[idx]}, nil
		})
	}, graph.Metadata{
		Title: "GetListItemNode", Category: "collections",
		Inputs:  []graph.PortSpec{{Name: "list"}, {Name: "index"}},
		Outputs: valuePort(),
	}); err != nil {
		return err
	}

	if err := reg.Register("SetListItemNode", func() graph.NodeDriver {
		return graph.DataNode(func(ctx context.Context, ctrl graph.Controller, in map[string]any) (map[string]any, error) {
			list, _ := in["list"].([]any)
			idx := asInt(in["index"], 0)
			out := make([]any, len(list))
			copy(out, list)
			if idx >= 0 && idx < len(out) {
				out[idx] = in["value"]
			}
			return map[string]any{"list": out}, nil
		})
	}, graph.Metadata{
		Title: "SetListItemNode", Category: "collections",
		Inputs:  []graph.PortSpec{{Name: "list"}, {Name: "index"}, {Name: "value"}},
		Outputs: []graph.PortSpec{{Name: "list"}},
	}); err != nil {
		return err
	}

	if err := reg.Register("EmptyDictNode", func() graph.NodeDriver {
		return graph.DataNode(func(ctx context.Context, ctrl graph.Controller, in map[string]any) (map[string]any, error) {
			return map[string]any{"value": map[string]any{}}, nil
		})
	}, graph.Metadata{Title: "EmptyDictNode", Category: "collections", Inputs: []graph.PortSpec{}, Outputs: valuePort()}); err != nil {
		return err
	}

	if err := reg.Register("PutToDictNode", func() graph.NodeDriver {
		return graph.DataNode(func(ctx context.Context, ctrl graph.Controller, in map[string]any) (map[string]any, error) {
			src, _ := in["dict"].(map[string]any)
			out := make(map[string]any, len(src)+1)
			for k, v := range src {
				out[k] = v
			}
			key, _ := in["key"].(string)
			out[key] = in["value"]
			return map[string]any{"dict": out}, nil
		})
	}, graph.Metadata{
		Title: "PutToDictNode", Category: "collections",
		Inputs:  []graph.PortSpec{{Name: "dict"}, {Name: "key"}, {Name: "value"}},
		Outputs: []graph.PortSpec{{Name: "dict"}},
	}); err != nil {
		return err
	}

	if err := reg.Register("GetFromDictNode", func() graph.NodeDriver {
		return graph.DataNode(func(ctx context.Context, ctrl graph.Controller, in map[string]any) (map[string]any, error) {
			src, _ := in["dict"].(map[string]any)
			key, _ := in["key"].(string)
			return map[string]any{"value": src[key]}, nil
		})
	}, graph.Metadata{
		Title: "GetFromDictNode", Category: "collections",
		Inputs:  []graph.PortSpec{{Name: "dict"}, {Name: "key"}},
		Outputs: valuePort(),
	}); err != nil {
		return err
	}

	dictInputs := make([]graph.PortSpec, 0, maxListInputs*2+1)
	for i := 1; i <= maxListInputs; i++ {
		dictInputs = append(dictInputs, graph.PortSpec{Name: portName("key", i)}, graph.PortSpec{Name: portName("value", i)})
	}
	dictInputs = append(dictInputs, graph.PortSpec{Name: "last_dict"})
	if err := reg.Register("StringKeyDictNode", func() graph.NodeDriver {
		return graph.DataNode(func(ctx context.Context, ctrl graph.Controller, in map[string]any) (map[string]any, error) {
			out := map[string]any{}
			if last, ok := in["last_dict"].(map[string]any); ok {
				for k, v := range last {
					out[k] = v
				}
			}
			for i := 1; i <= maxListInputs; i++ {
				key, ok := in[portName("key", i)].(string)
				if !ok || key == "" {
					continue
				}
				out[key] = in[portName("value", i)]
			}
			return map[string]any{"value": out}, nil
		})
	}, graph.Metadata{Title: "StringKeyDictNode", Category: "collections", Inputs: dictInputs, Outputs: valuePort()}); err != nil {
		return err
	}

	return nil
}

func portName(prefix string, i int) string {
	return prefix + "_" + strconv.Itoa(i)
}

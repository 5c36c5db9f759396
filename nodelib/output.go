package nodelib

import (
	"context"
	"fmt"

	"github.com/smallnest/graphengine/graph"
	"github.com/smallnest/graphengine/log"
)

// RegisterOutput adds PrintNode and DisplayAsTextNode. PrintNode logs
// through log.Logger so its output is capturable the same way every other
// ambient log line is, and also prints the value to stdout; DisplayAsTextNode sends a display/append progress
// event for a UI to render, which transport.Server sanitizes before it
// reaches a browser.
func RegisterOutput(reg *graph.Registry) error {
	if err := reg.Register("PrintNode", func() graph.NodeDriver {
		return graph.DataNode(func(ctx context.Context, ctrl graph.Controller, in map[string]any) (map[string]any, error) {
			value := in["value"]
			log.Info("%v", value)
			fmt.Println(value)
			return map[string]any{"value": value}, nil
		})
	}, graph.Metadata{
		Title: "PrintNode", Category: "output",
		Inputs:  []graph.PortSpec{{Name: "value"}},
		Outputs: []graph.PortSpec{{Name: "value"}},
	}); err != nil {
		return err
	}

	if err := reg.Register("DisplayAsTextNode", func() graph.NodeDriver {
		return graph.DataNode(func(ctx context.Context, ctrl graph.Controller, in map[string]any) (map[string]any, error) {
			value := in["value"]
			event := graph.EventDisplay
			if doAppend, _ := in["append"].(bool); doAppend {
				event = graph.EventAppend
			}
			ctrl.SendEvent(event, map[string]any{"value": fmt.Sprintf("%v", value)})
			return map[string]any{"value": value}, nil
		})
	}, graph.Metadata{
		Title: "DisplayAsTextNode", Category: "output",
		Inputs:  []graph.PortSpec{{Name: "value"}, {Name: "append"}},
		Outputs: []graph.PortSpec{{Name: "value"}},
	}); err != nil {
		return err
	}

	return nil
}

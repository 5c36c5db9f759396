package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Exporter renders a Graph for documentation and debugging.
type Exporter struct {
	graph *Graph
}

// NewExporter returns an Exporter for g.
func NewExporter(g *Graph) *Exporter {
	return &Exporter{graph: g}
}

// MermaidOptions configures Mermaid flowchart rendering.
type MermaidOptions struct {
	// Direction of the flowchart, e.g. "TD" or "LR". Defaults to "TD".
	Direction string
}

// DrawMermaid renders the graph as a Mermaid flowchart with the default
// options.
func (ge *Exporter) DrawMermaid() string {
	return ge.DrawMermaidWithOptions(MermaidOptions{Direction: "TD"})
}

// DrawMermaidWithOptions renders the graph as a Mermaid flowchart. Data
// edges are drawn as solid arrows, route edges as dashed arrows, and the
// start node is styled distinctly.
func (ge *Exporter) DrawMermaidWithOptions(opts MermaidOptions) string {
	direction := opts.Direction
	if direction == "" {
		direction = "TD"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("flowchart %s\n", direction))

	names := make([]string, 0, len(ge.graph.Nodes))
	for _, n := range ge.graph.Nodes {
		names = append(names, n.ID)
	}
	sort.Strings(names)

	for _, id := range names {
		n, _ := ge.graph.Node(id)
		sb.WriteString(fmt.Sprintf("    %s[\"%s (%s)\"]\n", id, id, n.Type))
	}

	for _, e := range ge.graph.DataEdges {
		sb.WriteString(fmt.Sprintf("    %s -- %s:%s --> %s\n", e.SourceID, e.SourcePort, e.TargetPort, e.TargetID))
	}
	for _, e := range ge.graph.RouteEdges {
		label := e.SourcePort
		if label == "" {
			label = "_"
		}
		sb.WriteString(fmt.Sprintf("    %s -. %s .-> %s\n", e.SourceID, label, e.TargetID))
	}

	sb.WriteString(fmt.Sprintf("    style %s fill:#87CEEB\n", StartNodeID))

	return sb.String()
}

var (
	terminalNodeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	terminalStartStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	terminalRouteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	terminalDataStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// RenderTerminal renders a human-scannable, ANSI-styled listing of the
// graph's nodes and edges for `cmd/graphengine -describe -graph`, styled with
// lipgloss rather than Mermaid or DOT since it's meant to be read directly
// in a terminal.
func (ge *Exporter) RenderTerminal() string {
	var sb strings.Builder

	names := make([]string, 0, len(ge.graph.Nodes))
	for _, n := range ge.graph.Nodes {
		names = append(names, n.ID)
	}
	sort.Strings(names)

	for _, id := range names {
		n, _ := ge.graph.Node(id)
		style := terminalNodeStyle
		if id == StartNodeID {
			style = terminalStartStyle
		}
		sb.WriteString(style.Render(fmt.Sprintf("%s", id)))
		sb.WriteString(fmt.Sprintf(" [%s, %s]\n", n.Type, n.Mode))
	}

	sb.WriteString("\n")
	for _, e := range ge.graph.DataEdges {
		sb.WriteString(terminalDataStyle.Render(fmt.Sprintf("  %s:%s -> %s:%s\n", e.SourceID, e.SourcePort, e.TargetID, e.TargetPort)))
	}
	for _, e := range ge.graph.RouteEdges {
		pin := e.SourcePort
		if pin == "" {
			pin = "_"
		}
		sb.WriteString(terminalRouteStyle.Render(fmt.Sprintf("  %s =%s=> %s\n", e.SourceID, pin, e.TargetID)))
	}

	return sb.String()
}

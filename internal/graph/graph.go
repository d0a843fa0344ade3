// Package graph generates DOT and Mermaid format dependency graphs from synthesized templates.
package graph

import (
	"io"
	"sort"
	"strings"

	"github.com/emicklei/dot"

	n8n "github.com/lex00/n8n-aws-go"
	"github.com/lex00/n8n-aws-go/internal/serialize"
)

// Format specifies the output format for the graph.
type Format string

const (
	// FormatDOT outputs Graphviz DOT format.
	FormatDOT Format = "dot"
	// FormatMermaid outputs Mermaid format for GitHub/markdown rendering.
	FormatMermaid Format = "mermaid"
)

// Generator creates dependency graphs from templates.
type Generator struct {
	// IncludeParameters includes parameter references in the graph.
	IncludeParameters bool

	// Format specifies the output format (dot or mermaid). Defaults to dot.
	Format Format

	// ClusterByType groups resources by AWS service.
	ClusterByType bool
}

// edgeKind ranks how a resource depends on another; GetAtt wins over Ref,
// which wins over an explicit DependsOn.
type edgeKind int

const (
	edgeDependsOn edgeKind = iota
	edgeRef
	edgeGetAtt
)

// Generate creates a dependency graph and writes it to w.
func (g *Generator) Generate(t *n8n.Template, w io.Writer) error {
	graph := g.buildGraph(t)

	format := g.Format
	if format == "" {
		format = FormatDOT
	}

	var output string
	if format == FormatMermaid {
		output = dot.MermaidGraph(graph, dot.MermaidTopToBottom)
	} else {
		output = graph.String()
	}

	_, err := w.Write([]byte(output))
	return err
}

// GenerateString is a convenience method that returns the graph as a string.
func (g *Generator) GenerateString(t *n8n.Template) (string, error) {
	var sb strings.Builder
	if err := g.Generate(t, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// buildGraph creates the dot.Graph structure from the template.
func (g *Generator) buildGraph(t *n8n.Template) *dot.Graph {
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "TB")

	graph.NodeInitializer(func(n dot.Node) {
		n.Attr("shape", "box")
		n.Attr("fontname", "Arial")
	})

	graph.EdgeInitializer(func(e dot.Edge) {
		e.Attr("fontname", "Arial")
		e.Attr("fontsize", "10")
	})

	names := sortedKeys(t.Resources)

	if g.ClusterByType {
		g.addClusteredNodes(graph, t, names)
	} else {
		for _, name := range names {
			graph.Node(name).Label(label(name, t.Resources[name].Type))
		}
	}

	if g.IncludeParameters {
		for _, name := range sortedKeys(t.Parameters) {
			n := graph.Node(name)
			n.Attr("shape", "ellipse")
			n.Attr("style", "dashed")
			n.Label(name)
		}
	}

	for _, name := range names {
		edges := g.edges(t, name)
		for _, dep := range sortedKeys(edges) {
			e := graph.Edge(graph.Node(name), graph.Node(dep))
			switch edges[dep] {
			case edgeGetAtt:
				e.Attr("color", "blue")
			case edgeDependsOn:
				e.Attr("style", "dashed")
			}
		}
	}

	return graph
}

// edges returns the targets name points at, keyed by the strongest kind of reference.
func (g *Generator) edges(t *n8n.Template, name string) map[string]edgeKind {
	def := t.Resources[name]
	edges := make(map[string]edgeKind)

	include := func(target string) bool {
		if target == name {
			return false
		}
		if _, ok := t.Resources[target]; ok {
			return true
		}
		_, isParam := t.Parameters[target]
		return isParam && g.IncludeParameters
	}

	for _, dep := range def.DependsOn {
		if include(dep) {
			edges[dep] = edgeDependsOn
		}
	}
	for _, ref := range serialize.References(def.Properties) {
		if !include(ref.Target) {
			continue
		}
		kind := edgeRef
		if ref.Kind == serialize.KindGetAtt {
			kind = edgeGetAtt
		}
		if current, ok := edges[ref.Target]; !ok || kind > current {
			edges[ref.Target] = kind
		}
	}
	return edges
}

// addClusteredNodes adds resource nodes grouped by AWS service.
func (g *Generator) addClusteredNodes(graph *dot.Graph, t *n8n.Template, names []string) {
	serviceResources := make(map[string][]string)
	for _, name := range names {
		service := extractService(t.Resources[name].Type)
		serviceResources[service] = append(serviceResources[service], name)
	}

	for _, service := range sortedKeys(serviceResources) {
		resNames := serviceResources[service]
		if len(resNames) > 1 {
			cluster := graph.Subgraph("cluster_"+service, dot.ClusterOption{})
			cluster.Attr("label", service)
			cluster.Attr("style", "rounded")
			cluster.Attr("bgcolor", "lightyellow")

			for _, name := range resNames {
				cluster.Node(name).Label(label(name, t.Resources[name].Type))
			}
		} else {
			for _, name := range resNames {
				graph.Node(name).Label(label(name, t.Resources[name].Type))
			}
		}
	}
}

func label(name, resourceType string) string {
	return name + "\\n[" + resourceType + "]"
}

// extractService extracts the AWS service name from a CloudFormation type.
// e.g., "AWS::EC2::VPC" -> "EC2"
func extractService(resourceType string) string {
	parts := strings.Split(resourceType, "::")
	if len(parts) == 3 {
		return parts[1]
	}
	return "Other"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

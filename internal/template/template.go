// Package template provides CloudFormation template building from registered resources.
package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	n8n "github.com/lex00/n8n-aws-go"
	"github.com/lex00/n8n-aws-go/internal/serialize"
)

// FormatVersion is the only CloudFormation template format version.
const FormatVersion = "2010-09-09"

type entry struct {
	resource  n8n.Resource
	dependsOn []string
}

// Builder constructs CloudFormation templates from registered resources.
type Builder struct {
	description string
	resources   map[string]entry
	outputs     map[string]n8n.Output
	order       []string
}

// NewBuilder creates an empty template builder.
func NewBuilder() *Builder {
	return &Builder{
		resources: make(map[string]entry),
		outputs:   make(map[string]n8n.Output),
	}
}

// SetDescription sets the template description.
func (b *Builder) SetDescription(description string) {
	b.description = description
}

// Add registers a resource under a logical name. Explicit dependencies
// are emitted as DependsOn; implicit ones are inferred from intrinsics.
func (b *Builder) Add(name string, res n8n.Resource, dependsOn ...string) error {
	if name == "" {
		return errors.New("resource name must not be empty")
	}
	if res == nil {
		return fmt.Errorf("resource %s is nil", name)
	}
	if _, exists := b.resources[name]; exists {
		return fmt.Errorf("duplicate resource: %s", name)
	}
	b.resources[name] = entry{resource: res, dependsOn: dependsOn}
	return nil
}

// AddOutput registers a template output.
func (b *Builder) AddOutput(name string, out n8n.Output) error {
	if name == "" {
		return errors.New("output name must not be empty")
	}
	if _, exists := b.outputs[name]; exists {
		return fmt.Errorf("duplicate output: %s", name)
	}
	b.outputs[name] = out
	return nil
}

// Len returns the number of registered resources.
func (b *Builder) Len() int {
	return len(b.resources)
}

// Order returns the resource order computed by the last successful Build.
func (b *Builder) Order() []string {
	return append([]string(nil), b.order...)
}

// Build constructs the CloudFormation template.
func (b *Builder) Build() (*n8n.Template, error) {
	template := &n8n.Template{
		AWSTemplateFormatVersion: FormatVersion,
		Description:              b.description,
		Resources:                make(map[string]n8n.ResourceDef),
	}

	for name, e := range b.resources {
		props, err := serialize.Resource(e.resource)
		if err != nil {
			return nil, fmt.Errorf("serializing %s: %w", name, err)
		}
		template.Resources[name] = n8n.ResourceDef{
			Type:       e.resource.ResourceType(),
			Properties: props,
			DependsOn:  e.dependsOn,
		}
	}

	if len(b.outputs) > 0 {
		template.Outputs = make(map[string]n8n.Output)
		for name, out := range b.outputs {
			value, err := normalize(out.Value)
			if err != nil {
				return nil, fmt.Errorf("serializing output %s: %w", name, err)
			}
			out.Value = value
			template.Outputs[name] = out
		}
	}

	if err := checkReferences(template); err != nil {
		return nil, err
	}

	order, err := Order(template)
	if err != nil {
		return nil, err
	}
	b.order = order

	return template, nil
}

// normalize round-trips a value through JSON so intrinsics become plain maps.
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// IsPseudoParameter reports whether name is an AWS:: pseudo parameter.
func IsPseudoParameter(name string) bool {
	return strings.HasPrefix(name, "AWS::")
}

// checkReferences rejects references to logical names the template does not define.
func checkReferences(t *n8n.Template) error {
	var errs []error

	names := make([]string, 0, len(t.Resources))
	for name := range t.Resources {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def := t.Resources[name]
		for _, ref := range serialize.References(def.Properties) {
			if !defined(t, ref.Target) {
				errs = append(errs, fmt.Errorf("resource %s references undefined resource %s", name, ref.Target))
			}
		}
		for _, dep := range def.DependsOn {
			if _, ok := t.Resources[dep]; !ok {
				errs = append(errs, fmt.Errorf("resource %s depends on undefined resource %s", name, dep))
			}
		}
	}

	outputNames := make([]string, 0, len(t.Outputs))
	for name := range t.Outputs {
		outputNames = append(outputNames, name)
	}
	sort.Strings(outputNames)
	for _, name := range outputNames {
		for _, ref := range serialize.References(t.Outputs[name].Value) {
			if !defined(t, ref.Target) {
				errs = append(errs, fmt.Errorf("output %s references undefined resource %s", name, ref.Target))
			}
		}
	}

	return errors.Join(errs...)
}

func defined(t *n8n.Template, name string) bool {
	if IsPseudoParameter(name) {
		return true
	}
	if _, ok := t.Resources[name]; ok {
		return true
	}
	_, ok := t.Parameters[name]
	return ok
}

// Dependencies returns, for each resource, the sorted resources it depends
// on through intrinsics or DependsOn. Pseudo parameters and template
// parameters are not dependencies.
func Dependencies(t *n8n.Template) map[string][]string {
	deps := make(map[string][]string, len(t.Resources))
	for name, def := range t.Resources {
		seen := make(map[string]bool)
		for _, ref := range serialize.References(def.Properties) {
			if _, ok := t.Resources[ref.Target]; ok && ref.Target != name {
				seen[ref.Target] = true
			}
		}
		for _, dep := range def.DependsOn {
			if _, ok := t.Resources[dep]; ok {
				seen[dep] = true
			}
		}
		list := make([]string, 0, len(seen))
		for dep := range seen {
			list = append(list, dep)
		}
		sort.Strings(list)
		deps[name] = list
	}
	return deps
}

// Order returns the template's resources in dependency order.
func Order(t *n8n.Template) ([]string, error) {
	return topologicalSort(Dependencies(t))
}

// topologicalSort returns resources in dependency order.
func topologicalSort(deps map[string][]string) ([]string, error) {
	// Build adjacency list
	graph := make(map[string][]string)
	inDegree := make(map[string]int)

	for name := range deps {
		graph[name] = nil
		inDegree[name] = 0
	}

	for name, list := range deps {
		for _, dep := range list {
			if _, exists := deps[dep]; exists {
				graph[dep] = append(graph[dep], name)
				inDegree[name]++
			}
		}
	}

	// Kahn's algorithm
	var queue []string
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	var result []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range graph[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
				sort.Strings(queue)
			}
		}
	}

	if len(result) != len(deps) {
		return nil, detectCycle(deps)
	}

	return result, nil
}

// detectCycle finds and reports a cycle in the dependency graph.
func detectCycle(deps map[string][]string) error {
	visited := make(map[string]bool)
	path := make(map[string]bool)

	var cycle []string
	var findCycle func(node string) bool
	findCycle = func(node string) bool {
		visited[node] = true
		path[node] = true

		for _, dep := range deps[node] {
			if _, exists := deps[dep]; !exists {
				continue
			}
			if !visited[dep] {
				if findCycle(dep) {
					cycle = append([]string{node}, cycle...)
					return true
				}
			} else if path[dep] {
				cycle = append([]string{dep, node}, cycle...)
				return true
			}
		}

		path[node] = false
		return false
	}

	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !visited[name] && findCycle(name) {
			break
		}
	}

	if len(cycle) > 0 {
		return fmt.Errorf("circular dependency detected: %s", strings.Join(cycle, " → "))
	}
	return errors.New("circular dependency detected")
}

// ToJSON serializes the template to JSON.
func ToJSON(t *n8n.Template) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// ToYAML serializes the template to YAML.
func ToYAML(t *n8n.Template) ([]byte, error) {
	return yaml.Marshal(t)
}

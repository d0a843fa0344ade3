// Package stack declares the n8n hosting infrastructure.
//
// Build turns a validated configuration into a CloudFormation template:
// a two-AZ VPC with one NAT gateway, an ECS cluster, a PostgreSQL
// instance with generated credentials, a DNS-validated certificate and a
// load-balanced Fargate service running n8n behind HTTPS.
package stack

import (
	"errors"
	"fmt"

	n8n "github.com/lex00/n8n-aws-go"
	"github.com/lex00/n8n-aws-go/internal/config"
	"github.com/lex00/n8n-aws-go/internal/template"
	"github.com/lex00/n8n-aws-go/intrinsics"
)

// Description is the template description of the synthesized stack.
const Description = "n8n workflow automation on ECS Fargate with PostgreSQL"

// OutputLoadBalancerDNS is the output holding the load balancer DNS name.
const OutputLoadBalancerDNS = "LoadBalancerDNS"

// Stack is a synthesized n8n stack.
type Stack struct {
	Template *n8n.Template
	order    []string
}

// Order returns the logical names in dependency order.
func (s *Stack) Order() []string {
	return append([]string(nil), s.order...)
}

// CountOf returns how many resources of the given CloudFormation type the stack declares.
func (s *Stack) CountOf(resourceType string) int {
	return s.Template.ResourceCount(resourceType)
}

// Build validates cfg and declares every resource of the stack.
// On invalid configuration no resources are declared.
func Build(cfg config.Config) (*Stack, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	d := &declarer{builder: template.NewBuilder()}
	d.builder.SetDescription(Description)

	net := declareNetwork(d)
	declareCluster(d)
	declareDatabase(d, net)
	declareCertificate(d, cfg)

	env := NewContainerEnvironment(cfg, intrinsics.Att(DbInstance, "Endpoint.Address"))
	declareService(d, net, env)
	declareRedirectListener(d)
	declareAccessRules(d)

	d.output(OutputLoadBalancerDNS, n8n.Output{
		Description: "DNS name of the n8n load balancer",
		Value:       intrinsics.Att(LoadBalancer, "DNSName"),
	})

	if err := errors.Join(d.errs...); err != nil {
		return nil, err
	}

	tmpl, err := d.builder.Build()
	if err != nil {
		return nil, fmt.Errorf("building template: %w", err)
	}

	return &Stack{Template: tmpl, order: d.builder.Order()}, nil
}

// declarer collects registration errors so declarations read top to bottom.
type declarer struct {
	builder *template.Builder
	errs    []error
}

func (d *declarer) add(name string, res n8n.Resource, dependsOn ...string) {
	if err := d.builder.Add(name, res, dependsOn...); err != nil {
		d.errs = append(d.errs, err)
	}
}

func (d *declarer) output(name string, out n8n.Output) {
	if err := d.builder.AddOutput(name, out); err != nil {
		d.errs = append(d.errs, err)
	}
}

func nameTags(name string) []any {
	return []any{intrinsics.Name(name)}
}

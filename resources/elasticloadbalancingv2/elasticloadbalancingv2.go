// Package elasticloadbalancingv2 contains the AWS::ElasticLoadBalancingV2 resource types used by the stack.
package elasticloadbalancingv2

// LoadBalancer represents an AWS::ElasticLoadBalancingV2::LoadBalancer resource.
// Attributes: DNSName, CanonicalHostedZoneID, LoadBalancerFullName.
type LoadBalancer struct {
	Name                   any   `json:"Name,omitempty"`
	Type                   any   `json:"Type,omitempty"`
	Scheme                 any   `json:"Scheme,omitempty"`
	Subnets                []any `json:"Subnets,omitempty"`
	SecurityGroups         []any `json:"SecurityGroups,omitempty"`
	LoadBalancerAttributes []any `json:"LoadBalancerAttributes,omitempty"`
	Tags                   []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r LoadBalancer) ResourceType() string {
	return "AWS::ElasticLoadBalancingV2::LoadBalancer"
}

// LoadBalancer_LoadBalancerAttribute is a key/value load balancer attribute.
type LoadBalancer_LoadBalancerAttribute struct {
	Key   any `json:"Key,omitempty"`
	Value any `json:"Value,omitempty"`
}

// TargetGroup represents an AWS::ElasticLoadBalancingV2::TargetGroup resource.
// Attributes: TargetGroupFullName.
type TargetGroup struct {
	Port                       any   `json:"Port,omitempty"`
	Protocol                   any   `json:"Protocol,omitempty"`
	TargetType                 any   `json:"TargetType,omitempty"`
	VpcId                      any   `json:"VpcId,omitempty"`
	HealthCheckPath            any   `json:"HealthCheckPath,omitempty"`
	HealthCheckIntervalSeconds any   `json:"HealthCheckIntervalSeconds,omitempty"`
	HealthyThresholdCount      any   `json:"HealthyThresholdCount,omitempty"`
	UnhealthyThresholdCount    any   `json:"UnhealthyThresholdCount,omitempty"`
	Matcher                    any   `json:"Matcher,omitempty"`
	TargetGroupAttributes      []any `json:"TargetGroupAttributes,omitempty"`
	Tags                       []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r TargetGroup) ResourceType() string {
	return "AWS::ElasticLoadBalancingV2::TargetGroup"
}

// TargetGroup_Matcher sets the HTTP codes that count as healthy.
type TargetGroup_Matcher struct {
	HttpCode any `json:"HttpCode,omitempty"`
}

// TargetGroup_TargetGroupAttribute is a key/value target group attribute.
type TargetGroup_TargetGroupAttribute struct {
	Key   any `json:"Key,omitempty"`
	Value any `json:"Value,omitempty"`
}

// Listener represents an AWS::ElasticLoadBalancingV2::Listener resource.
type Listener struct {
	LoadBalancerArn any   `json:"LoadBalancerArn,omitempty"`
	Port            any   `json:"Port,omitempty"`
	Protocol        any   `json:"Protocol,omitempty"`
	Certificates    []any `json:"Certificates,omitempty"`
	SslPolicy       any   `json:"SslPolicy,omitempty"`
	DefaultActions  []any `json:"DefaultActions,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Listener) ResourceType() string {
	return "AWS::ElasticLoadBalancingV2::Listener"
}

// Listener_Certificate references an ACM certificate.
type Listener_Certificate struct {
	CertificateArn any `json:"CertificateArn,omitempty"`
}

// Listener_Action is a listener default action.
type Listener_Action struct {
	Type           any `json:"Type,omitempty"`
	TargetGroupArn any `json:"TargetGroupArn,omitempty"`
	RedirectConfig any `json:"RedirectConfig,omitempty"`
}

// Listener_RedirectConfig describes a redirect action.
type Listener_RedirectConfig struct {
	Protocol   any `json:"Protocol,omitempty"`
	Port       any `json:"Port,omitempty"`
	Host       any `json:"Host,omitempty"`
	Path       any `json:"Path,omitempty"`
	Query      any `json:"Query,omitempty"`
	StatusCode any `json:"StatusCode,omitempty"`
}

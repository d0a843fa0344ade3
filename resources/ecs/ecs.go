// Package ecs contains the AWS::ECS resource types used by the stack.
package ecs

// Cluster represents an AWS::ECS::Cluster resource.
// Attributes: Arn.
type Cluster struct {
	ClusterName     any   `json:"ClusterName,omitempty"`
	ClusterSettings []any `json:"ClusterSettings,omitempty"`
	Tags            []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Cluster) ResourceType() string { return "AWS::ECS::Cluster" }

// Cluster_ClusterSettings is a cluster setting such as containerInsights.
type Cluster_ClusterSettings struct {
	Name  any `json:"Name,omitempty"`
	Value any `json:"Value,omitempty"`
}

// TaskDefinition represents an AWS::ECS::TaskDefinition resource.
type TaskDefinition struct {
	Family                  any   `json:"Family,omitempty"`
	Cpu                     any   `json:"Cpu,omitempty"`
	Memory                  any   `json:"Memory,omitempty"`
	NetworkMode             any   `json:"NetworkMode,omitempty"`
	RequiresCompatibilities []any `json:"RequiresCompatibilities,omitempty"`
	ExecutionRoleArn        any   `json:"ExecutionRoleArn,omitempty"`
	TaskRoleArn             any   `json:"TaskRoleArn,omitempty"`
	ContainerDefinitions    []any `json:"ContainerDefinitions,omitempty"`
	Tags                    []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r TaskDefinition) ResourceType() string { return "AWS::ECS::TaskDefinition" }

// TaskDefinition_ContainerDefinition describes one container of a task.
type TaskDefinition_ContainerDefinition struct {
	Name             any   `json:"Name,omitempty"`
	Image            any   `json:"Image,omitempty"`
	Essential        any   `json:"Essential,omitempty"`
	PortMappings     []any `json:"PortMappings,omitempty"`
	Environment      []any `json:"Environment,omitempty"`
	Secrets          []any `json:"Secrets,omitempty"`
	LogConfiguration any   `json:"LogConfiguration,omitempty"`
}

// TaskDefinition_PortMapping exposes a container port.
type TaskDefinition_PortMapping struct {
	ContainerPort any `json:"ContainerPort,omitempty"`
	Protocol      any `json:"Protocol,omitempty"`
}

// TaskDefinition_KeyValuePair is a plain environment variable.
type TaskDefinition_KeyValuePair struct {
	Name  any `json:"Name,omitempty"`
	Value any `json:"Value,omitempty"`
}

// TaskDefinition_Secret is an environment variable resolved from Secrets Manager
// or SSM at task start.
type TaskDefinition_Secret struct {
	Name      any `json:"Name,omitempty"`
	ValueFrom any `json:"ValueFrom,omitempty"`
}

// TaskDefinition_LogConfiguration configures the container log driver.
type TaskDefinition_LogConfiguration struct {
	LogDriver any            `json:"LogDriver,omitempty"`
	Options   map[string]any `json:"Options,omitempty"`
}

// Service represents an AWS::ECS::Service resource.
// Attributes: Name, ServiceArn.
type Service struct {
	ServiceName                   any   `json:"ServiceName,omitempty"`
	Cluster                       any   `json:"Cluster,omitempty"`
	TaskDefinition                any   `json:"TaskDefinition,omitempty"`
	DesiredCount                  any   `json:"DesiredCount,omitempty"`
	LaunchType                    any   `json:"LaunchType,omitempty"`
	HealthCheckGracePeriodSeconds any   `json:"HealthCheckGracePeriodSeconds,omitempty"`
	LoadBalancers                 []any `json:"LoadBalancers,omitempty"`
	NetworkConfiguration          any   `json:"NetworkConfiguration,omitempty"`
	DeploymentConfiguration       any   `json:"DeploymentConfiguration,omitempty"`
	EnableECSManagedTags          any   `json:"EnableECSManagedTags,omitempty"`
	PropagateTags                 any   `json:"PropagateTags,omitempty"`
	Tags                          []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Service) ResourceType() string { return "AWS::ECS::Service" }

// Service_LoadBalancer registers the service's containers with a target group.
type Service_LoadBalancer struct {
	ContainerName  any `json:"ContainerName,omitempty"`
	ContainerPort  any `json:"ContainerPort,omitempty"`
	TargetGroupArn any `json:"TargetGroupArn,omitempty"`
}

// Service_NetworkConfiguration wraps the awsvpc configuration.
type Service_NetworkConfiguration struct {
	AwsvpcConfiguration any `json:"AwsvpcConfiguration,omitempty"`
}

// Service_AwsVpcConfiguration places tasks in subnets and security groups.
type Service_AwsVpcConfiguration struct {
	AssignPublicIp any   `json:"AssignPublicIp,omitempty"`
	Subnets        []any `json:"Subnets,omitempty"`
	SecurityGroups []any `json:"SecurityGroups,omitempty"`
}

// Service_DeploymentConfiguration controls rolling deployments.
type Service_DeploymentConfiguration struct {
	MaximumPercent           any `json:"MaximumPercent,omitempty"`
	MinimumHealthyPercent    any `json:"MinimumHealthyPercent,omitempty"`
	DeploymentCircuitBreaker any `json:"DeploymentCircuitBreaker,omitempty"`
}

// Service_DeploymentCircuitBreaker rolls back failed deployments.
type Service_DeploymentCircuitBreaker struct {
	Enable   any `json:"Enable,omitempty"`
	Rollback any `json:"Rollback,omitempty"`
}

// Package rds contains the AWS::RDS resource types used by the stack.
package rds

// DBInstance represents an AWS::RDS::DBInstance resource.
// Attributes: Endpoint.Address, Endpoint.Port, DBInstanceArn.
type DBInstance struct {
	Engine                any   `json:"Engine,omitempty"`
	EngineVersion         any   `json:"EngineVersion,omitempty"`
	DBInstanceClass       any   `json:"DBInstanceClass,omitempty"`
	DBName                any   `json:"DBName,omitempty"`
	AllocatedStorage      any   `json:"AllocatedStorage,omitempty"`
	MaxAllocatedStorage   any   `json:"MaxAllocatedStorage,omitempty"`
	StorageType           any   `json:"StorageType,omitempty"`
	BackupRetentionPeriod any   `json:"BackupRetentionPeriod,omitempty"`
	DeletionProtection    any   `json:"DeletionProtection,omitempty"`
	PubliclyAccessible    any   `json:"PubliclyAccessible,omitempty"`
	Port                  any   `json:"Port,omitempty"`
	MasterUsername        any   `json:"MasterUsername,omitempty"`
	MasterUserPassword    any   `json:"MasterUserPassword,omitempty"`
	DBSubnetGroupName     any   `json:"DBSubnetGroupName,omitempty"`
	DBParameterGroupName  any   `json:"DBParameterGroupName,omitempty"`
	VPCSecurityGroups     []any `json:"VPCSecurityGroups,omitempty"`
	CopyTagsToSnapshot    any   `json:"CopyTagsToSnapshot,omitempty"`
	Tags                  []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r DBInstance) ResourceType() string { return "AWS::RDS::DBInstance" }

// DBParameterGroup represents an AWS::RDS::DBParameterGroup resource.
type DBParameterGroup struct {
	Description any            `json:"Description,omitempty"`
	Family      any            `json:"Family,omitempty"`
	Parameters  map[string]any `json:"Parameters,omitempty"`
	Tags        []any          `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r DBParameterGroup) ResourceType() string { return "AWS::RDS::DBParameterGroup" }

// DBSubnetGroup represents an AWS::RDS::DBSubnetGroup resource.
type DBSubnetGroup struct {
	DBSubnetGroupDescription any   `json:"DBSubnetGroupDescription,omitempty"`
	SubnetIds                []any `json:"SubnetIds,omitempty"`
	Tags                     []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r DBSubnetGroup) ResourceType() string { return "AWS::RDS::DBSubnetGroup" }

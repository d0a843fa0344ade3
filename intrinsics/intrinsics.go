// Package intrinsics provides CloudFormation intrinsic functions.
//
// This package re-exports the core intrinsic types from cloudformation-schema-go
// and adds the reference helpers the n8n stack leans on.
//
// Core intrinsic functions:
//
//	Ref{LogicalName: "N8nVpc"} → {"Ref": "N8nVpc"}
//	Sub{String: "${AWS::StackName}-n8n"} → {"Fn::Sub": "${AWS::StackName}-n8n"}
//	Join{Delimiter: "", Values: []any{"a", "b"}} → {"Fn::Join": ["", ["a", "b"]]}
//
// Pseudo-parameters:
//
//	AWS_REGION, AWS_ACCOUNT_ID, AWS_STACK_NAME, etc.
package intrinsics

import (
	"github.com/lex00/cloudformation-schema-go/intrinsics"
)

type (
	// Ref represents a CloudFormation Ref intrinsic function.
	Ref = intrinsics.Ref

	// GetAtt represents a CloudFormation Fn::GetAtt intrinsic function.
	GetAtt = intrinsics.GetAtt

	// Sub represents a CloudFormation Fn::Sub intrinsic function.
	Sub = intrinsics.Sub

	// SubWithMap is Fn::Sub with a variable map.
	SubWithMap = intrinsics.SubWithMap

	// Join represents a CloudFormation Fn::Join intrinsic function.
	Join = intrinsics.Join

	// Select represents a CloudFormation Fn::Select intrinsic function.
	Select = intrinsics.Select

	// GetAZs represents a CloudFormation Fn::GetAZs intrinsic function.
	GetAZs = intrinsics.GetAZs

	// Cidr represents a CloudFormation Fn::Cidr intrinsic function.
	Cidr = intrinsics.Cidr

	// Tag represents a CloudFormation resource tag.
	Tag = intrinsics.Tag
)

// Param creates a Ref for a CloudFormation parameter.
var Param = intrinsics.Param

// RefTo returns a Ref to the resource with the given logical name.
func RefTo(logicalName string) Ref {
	return Ref{LogicalName: logicalName}
}

// Att returns a GetAtt for an attribute of the named resource.
func Att(logicalName, attribute string) GetAtt {
	return GetAtt{LogicalName: logicalName, Attribute: attribute}
}

// SecretValue returns a Secrets Manager dynamic reference to a JSON key of the
// secret with the given logical name. CloudFormation resolves it at deploy time,
// so the plaintext never appears in the template.
//
//	SecretValue("N8nDbSecret", "username")
//	→ {"Fn::Join": ["", ["{{resolve:secretsmanager:", {"Ref": "N8nDbSecret"}, ":SecretString:username::}}"]]}
func SecretValue(secretLogicalName, jsonKey string) Join {
	return Join{
		Delimiter: "",
		Values: []any{
			"{{resolve:secretsmanager:",
			RefTo(secretLogicalName),
			":SecretString:" + jsonKey + "::}}",
		},
	}
}

// SecretKeyArn returns the ECS "valueFrom" form for one JSON key of a secret:
// <secret-arn>:<key>:: .
func SecretKeyArn(secretLogicalName, jsonKey string) Join {
	return Join{
		Delimiter: "",
		Values: []any{
			RefTo(secretLogicalName),
			":" + jsonKey + "::",
		},
	}
}

// Name returns a Name tag scoped to the stack: "${AWS::StackName}/<suffix>".
func Name(suffix string) Tag {
	return Tag{Key: "Name", Value: Sub{String: "${AWS::StackName}/" + suffix}}
}

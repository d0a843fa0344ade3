// Package secretsmanager contains the AWS::SecretsManager resource types used by the stack.
package secretsmanager

// Secret represents an AWS::SecretsManager::Secret resource.
// Ref returns the secret ARN.
type Secret struct {
	Name                 any   `json:"Name,omitempty"`
	Description          any   `json:"Description,omitempty"`
	GenerateSecretString any   `json:"GenerateSecretString,omitempty"`
	Tags                 []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Secret) ResourceType() string { return "AWS::SecretsManager::Secret" }

// Secret_GenerateSecretString asks Secrets Manager to generate the secret value.
type Secret_GenerateSecretString struct {
	SecretStringTemplate any `json:"SecretStringTemplate,omitempty"`
	GenerateStringKey    any `json:"GenerateStringKey,omitempty"`
	ExcludePunctuation   any `json:"ExcludePunctuation,omitempty"`
	ExcludeCharacters    any `json:"ExcludeCharacters,omitempty"`
	PasswordLength       any `json:"PasswordLength,omitempty"`
}

// SecretTargetAttachment represents an AWS::SecretsManager::SecretTargetAttachment resource.
// It adds the database connection details to the secret.
type SecretTargetAttachment struct {
	SecretId   any `json:"SecretId,omitempty"`
	TargetId   any `json:"TargetId,omitempty"`
	TargetType any `json:"TargetType,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r SecretTargetAttachment) ResourceType() string {
	return "AWS::SecretsManager::SecretTargetAttachment"
}

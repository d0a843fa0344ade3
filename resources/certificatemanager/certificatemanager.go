// Package certificatemanager contains the AWS::CertificateManager resource types used by the stack.
package certificatemanager

// Certificate represents an AWS::CertificateManager::Certificate resource.
// Ref returns the certificate ARN.
type Certificate struct {
	DomainName              any   `json:"DomainName,omitempty"`
	SubjectAlternativeNames []any `json:"SubjectAlternativeNames,omitempty"`
	ValidationMethod        any   `json:"ValidationMethod,omitempty"`
	DomainValidationOptions []any `json:"DomainValidationOptions,omitempty"`
	Tags                    []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Certificate) ResourceType() string { return "AWS::CertificateManager::Certificate" }

// Certificate_DomainValidationOption pins DNS validation of a domain to a hosted zone.
type Certificate_DomainValidationOption struct {
	DomainName   any `json:"DomainName,omitempty"`
	HostedZoneId any `json:"HostedZoneId,omitempty"`
}

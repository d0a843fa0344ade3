package stack

import (
	"github.com/lex00/n8n-aws-go/internal/config"
	"github.com/lex00/n8n-aws-go/resources/certificatemanager"
)

// declareCertificate requests a DNS-validated certificate for the n8n domain.
// The stack stays in CREATE_IN_PROGRESS until the validation record exists.
func declareCertificate(d *declarer, cfg config.Config) {
	d.add(Certificate, certificatemanager.Certificate{
		DomainName:       cfg.DomainName,
		ValidationMethod: "DNS",
		Tags:             nameTags(Certificate),
	})
}

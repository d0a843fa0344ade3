// Package audit checks a synthesized n8n template for security and
// reliability findings.
package audit

import (
	"sort"

	corelint "github.com/lex00/wetwire-core-go/lint"

	n8n "github.com/lex00/n8n-aws-go"
)

// Type aliases for the core lint issue types.
type (
	// Issue is an alias for corelint.Issue.
	Issue = corelint.Issue
	// Severity is an alias for corelint.Severity.
	Severity = corelint.Severity
)

// Severity constants.
const (
	SeverityError   = corelint.SeverityError
	SeverityWarning = corelint.SeverityWarning
	SeverityInfo    = corelint.SeverityInfo
)

// Rule categories.
const (
	CategoryAll         = "all"
	CategorySecurity    = "security"
	CategoryReliability = "reliability"
)

// Options configures the audit.
type Options struct {
	// Category filters rules: "all", "security", "reliability"
	Category string
}

// Summary tallies issues by severity.
type Summary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
	Total    int `json:"total"`
}

// Result contains audit findings.
type Result struct {
	Issues  []Issue
	Summary Summary
}

// HasErrors reports whether any finding is an error.
func (r Result) HasErrors() bool {
	return r.Summary.Errors > 0
}

// Rule is a single audit check.
type Rule struct {
	ID          string
	Category    string
	Title       string
	Description string
	// ResourceType limits the rule to one CloudFormation type.
	ResourceType string
	Check        func(name string, def n8n.ResourceDef, t *n8n.Template) []Issue
}

// Rules returns the audit rule table.
func Rules() []Rule {
	return append([]Rule(nil), rules...)
}

// Audit applies every rule in the selected category to every resource.
// Issues are ordered by resource name, then rule ID.
func Audit(t *n8n.Template, opts Options) Result {
	category := opts.Category
	if category == "" {
		category = CategoryAll
	}

	names := make([]string, 0, len(t.Resources))
	for name := range t.Resources {
		names = append(names, name)
	}
	sort.Strings(names)

	var result Result
	for _, name := range names {
		def := t.Resources[name]
		for _, rule := range rules {
			if category != CategoryAll && rule.Category != category {
				continue
			}
			if rule.ResourceType != "" && rule.ResourceType != def.Type {
				continue
			}
			result.Issues = append(result.Issues, rule.Check(name, def, t)...)
		}
	}

	result.Summary = summarize(result.Issues)
	return result
}

// summarize tallies issues by severity.
func summarize(issues []Issue) Summary {
	var s Summary
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			s.Errors++
		case SeverityWarning:
			s.Warnings++
		default:
			s.Info++
		}
		s.Total++
	}
	return s
}

// SeverityName renders a severity for text output.
func SeverityName(s Severity) string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

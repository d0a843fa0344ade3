package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lex00/n8n-aws-go/internal/audit"
)

// validCategories lists all valid audit categories.
var validCategories = map[string]bool{
	audit.CategoryAll:         true,
	audit.CategorySecurity:    true,
	audit.CategoryReliability: true,
}

// isValidCategory checks if a category is valid.
func isValidCategory(category string) bool {
	return validCategories[category]
}

// newAuditCmd creates the "audit" subcommand for checking risky settings.
func newAuditCmd(opts *globalOptions) *cobra.Command {
	var (
		outputFormat string
		category     string
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Check the template for security and reliability issues",
		Long: `Audit applies the stack's rule table to the synthesized template.

Rules:
    N8N001: Database instance is publicly accessible
    N8N002: Database ingress from a wildcard CIDR
    N8N003: HTTP listener does not redirect to HTTPS
    N8N004: Container port reachable from anywhere
    N8N005: Database TLS disabled
    N8N006: Database deletion protection disabled
    N8N007: Database backup retention under 7 days

Examples:
    n8n-stack audit
    n8n-stack audit --category security
    n8n-stack audit -f json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isValidCategory(category) {
				return fmt.Errorf("invalid category: %s (valid: all, security, reliability)", category)
			}
			return runAudit(cmd.OutOrStdout(), opts, outputFormat, category)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	cmd.Flags().StringVarP(&category, "category", "c", audit.CategoryAll, "Category: all, security, or reliability")

	return cmd
}

func runAudit(w io.Writer, opts *globalOptions, format, category string) error {
	s, _, err := opts.synthesize()
	if err != nil {
		return err
	}

	result := audit.Audit(s.Template, audit.Options{Category: category})

	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))

	case "text":
		if len(result.Issues) == 0 {
			fmt.Fprintf(w, "Audited %d resources. No issues found.\n", len(s.Template.Resources))
			return nil
		}

		for _, issue := range result.Issues {
			fmt.Fprintf(w, "%s: %s: %s [%s]\n",
				issue.File, audit.SeverityName(issue.Severity), issue.Message, issue.Rule)
			if issue.Suggestion != "" {
				fmt.Fprintf(w, "  Suggestion: %s\n", issue.Suggestion)
			}
		}
		fmt.Fprintf(w, "\nSummary: %d errors, %d warnings, %d info\n",
			result.Summary.Errors, result.Summary.Warnings, result.Summary.Info)

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if result.HasErrors() {
		return errors.New("audit found errors")
	}

	return nil
}

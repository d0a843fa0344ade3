package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	n8n "github.com/lex00/n8n-aws-go"
	"github.com/lex00/n8n-aws-go/internal/validation"
)

// errValidationFailed is returned after the findings have been printed.
var errValidationFailed = errors.New("validation failed")

// newValidateCmd creates the "validate" subcommand for linting the template.
func newValidateCmd(opts *globalOptions) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the template with cfn-lint",
		Long: `Validate synthesizes the template and checks it against the CloudFormation
resource specification.

Checks performed:
  - Reference validity: every Ref and GetAtt points to a declared resource
  - Schema: property names, types and allowed values (cfn-lint rules)

Examples:
    n8n-stack validate
    n8n-stack validate --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout(), opts, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")

	return cmd
}

func runValidate(w io.Writer, opts *globalOptions, format string) error {
	s, _, err := opts.synthesize()
	if err != nil {
		return err
	}

	lintResult, err := validation.ValidateTemplate(s.Template)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	result := n8n.ValidateResult{
		Success:   lintResult.Passed,
		Resources: len(s.Template.Resources),
		Errors:    lintResult.Errors,
		Warnings:  lintResult.Warnings,
		Info:      lintResult.Informational,
	}

	return outputValidateResult(w, result, format)
}

func outputValidateResult(w io.Writer, result n8n.ValidateResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))

	case "text":
		if result.Success {
			fmt.Fprintf(w, "Validation passed: %d resources OK\n", result.Resources)
			for _, warnMsg := range result.Warnings {
				fmt.Fprintf(w, "  WARNING: %s\n", warnMsg)
			}
			return nil
		}

		fmt.Fprintln(w, "Validation FAILED:")
		for _, errMsg := range result.Errors {
			fmt.Fprintf(w, "  ERROR: %s\n", errMsg)
		}
		for _, warnMsg := range result.Warnings {
			fmt.Fprintf(w, "  WARNING: %s\n", warnMsg)
		}

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if !result.Success {
		return errValidationFailed
	}

	return nil
}
